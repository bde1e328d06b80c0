// Package storage owns the store handle: an explicit, injected
// connection to the relational engine behind the demo. It opens the
// database from a connection string, migrates the schema once at
// startup, and exposes the transaction boundary and base-collection
// readers the rest of the pipeline works through.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/audy/foodtruck/internal/schema"
)

// MemoryDSN is the default connection string: a private in-memory
// database that lives for the process lifetime.
const MemoryDSN = ":memory:"

// Store wraps the database handle. Every operation in the repo goes
// through an explicit *Store rather than ambient global state.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to the SQLite database behind dsn and creates the
// schema (all tables) if absent. Close releases the connection.
func Open(dsn string, log zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         newGormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", dsn, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access connection pool: %w", err)
	}
	// A second pooled connection to a :memory: DSN would see its own
	// empty database, so the pool is pinned to one connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(schema.Tables()...); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	log.Debug().Str("dsn", dsn).Msg("store ready")
	return &Store{db: db, log: log}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB exposes the handle for query composition. Writes should go through
// Transaction so constraint faults map onto the store taxonomy.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn inside one commit. Uniqueness and foreign-key
// violations come back as coded constraint faults; everything else
// passes through unchanged.
func (s *Store) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(fn)
	return translate(err)
}

// Trucks reads the truck base collection with the specialization entry
// and owned collections attached.
func (s *Store) Trucks(ctx context.Context) ([]schema.FoodTruck, error) {
	var trucks []schema.FoodTruck
	err := s.db.WithContext(ctx).
		Preload("TacoTruck").
		Preload("MenuItems").
		Preload("Employees").
		Find(&trucks).Error
	if err != nil {
		return nil, fmt.Errorf("read trucks: %w", err)
	}
	return trucks, nil
}

// People reads the person base collection. The discriminator, not the
// joined rows, decides which specialization payload each person keeps;
// a discriminator that promises a missing specialization row is an
// access fault.
func (s *Store) People(ctx context.Context) ([]schema.Person, error) {
	var people []schema.Person
	err := s.db.WithContext(ctx).
		Preload("Employee").
		Preload("Customer").
		Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("read people: %w", err)
	}

	for i := range people {
		switch people[i].Kind {
		case schema.KindEmployee:
			if people[i].Employee == nil {
				return nil, RelationshipAbsent(fmt.Sprintf("person %d: Employee", people[i].ID))
			}
			people[i].Customer = nil
		case schema.KindCustomer:
			if people[i].Customer == nil {
				return nil, RelationshipAbsent(fmt.Sprintf("person %d: Customer", people[i].ID))
			}
			people[i].Employee = nil
		default:
			people[i].Employee = nil
			people[i].Customer = nil
		}
	}
	return people, nil
}
