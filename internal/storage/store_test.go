package storage

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/audy/foodtruck/internal/schema"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(MemoryDSN, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpenMigratesSchema(t *testing.T) {
	st := openTestStore(t)

	tables := []string{
		"people", "food_trucks", "taco_trucks",
		"employees", "customers", "menu_items", "orders",
		"menu_item_orders",
	}
	for _, table := range tables {
		assert.True(t, st.DB().Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestUniqueTruckName(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first := schema.NewTacoTruck("Hell's Chariot", nil, nil)
	err := st.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(first).Error
	})
	require.NoError(t, err)

	dup := schema.NewFoodTruck("Hell's Chariot", nil, nil)
	err = st.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(dup).Error
	})
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err), "duplicate name should be a constraint fault, got %v", err)
}

func TestPeopleDispatchOnDiscriminator(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	emp := schema.NewEmployee("Danny", "Zuko")
	cust := schema.NewCustomer("Frenchy", "")
	err := st.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&emp).Error; err != nil {
			return err
		}
		return tx.Create(cust).Error
	})
	require.NoError(t, err)

	people, err := st.People(ctx)
	require.NoError(t, err)
	require.Len(t, people, 2)

	for _, p := range people {
		switch p.Kind {
		case schema.KindEmployee:
			assert.NotNil(t, p.Employee)
			assert.Nil(t, p.Customer)
		case schema.KindCustomer:
			assert.NotNil(t, p.Customer)
			assert.Nil(t, p.Employee)
		default:
			t.Fatalf("unexpected discriminator %q", p.Kind)
		}
	}
}

func TestPeopleMissingSpecializationIsAccessFault(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	// a bare base row claiming to be an employee, with no employee row
	stray := schema.Person{Kind: schema.KindEmployee}
	err := st.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(&stray).Error
	})
	require.NoError(t, err)

	_, err = st.People(ctx)
	require.Error(t, err)
	assert.True(t, IsRelationshipAbsent(err), "got %v", err)
}

func TestTrucksIncludeSpecializationAndCollections(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	truck := schema.NewTacoTruck("Hell's Chariot",
		[]schema.MenuItem{{Name: "Super Burrito", Price: 1000}},
		[]schema.Employee{schema.NewEmployee("Danny", "Zuko")},
	)
	err := st.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(truck).Error
	})
	require.NoError(t, err)

	trucks, err := st.Trucks(ctx)
	require.NoError(t, err)
	require.Len(t, trucks, 1)
	assert.Equal(t, schema.KindTacoTruck, trucks[0].Kind)
	require.NotNil(t, trucks[0].TacoTruck)
	assert.Equal(t, trucks[0].ID, trucks[0].TacoTruck.FoodTruckID, "specialization shares the base primary key")
	assert.Len(t, trucks[0].MenuItems, 1)
	assert.Len(t, trucks[0].Employees, 1)
}
