// Package fixture seeds the demo dataset. The dataset itself lives in
// an embedded YAML file; Build parses it and persists it in exactly
// three commits: the truck with its menu and staff, the customer, then
// the orders.
package fixture

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/audy/foodtruck/internal/schema"
	"github.com/audy/foodtruck/internal/storage"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed is the parsed form of the embedded dataset. Order entries
// reference menu items and staff by index into the truck's lists.
type Seed struct {
	Truck struct {
		Kind string `yaml:"kind"`
		Name string `yaml:"name"`
		Menu []struct {
			Name  string `yaml:"name"`
			Price int    `yaml:"price"`
		} `yaml:"menu"`
		Staff []NameParts `yaml:"staff"`
	} `yaml:"truck"`
	Customer NameParts `yaml:"customer"`
	Orders   []struct {
		Items []int `yaml:"items"`
		Staff int   `yaml:"staff"`
	} `yaml:"orders"`
}

// NameParts holds the optional name fields of a person entry.
type NameParts struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
}

// Dataset holds the persisted entities with their assigned identities,
// for callers that want to navigate the graph without re-reading it.
type Dataset struct {
	Truck    *schema.FoodTruck
	Customer *schema.Person
	Orders   []*schema.Order
}

// Load parses the embedded seed.
func Load() (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(seedYAML, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &seed, nil
}

// Build persists the seed into st. Constraint violations propagate
// untouched; there is no partial-result recovery.
func Build(ctx context.Context, st *storage.Store) (*Dataset, error) {
	seed, err := Load()
	if err != nil {
		return nil, err
	}
	return BuildSeed(ctx, st, seed)
}

// BuildSeed persists an already-parsed seed. Split out so tests can
// seed variations without editing the embedded file.
func BuildSeed(ctx context.Context, st *storage.Store, seed *Seed) (*Dataset, error) {
	truck, err := newTruck(seed)
	if err != nil {
		return nil, err
	}
	err = st.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(truck).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create truck: %w", err)
	}

	customer := schema.NewCustomer(seed.Customer.FirstName, seed.Customer.LastName)
	err = st.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(customer).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	orders, err := newOrders(seed, truck, customer)
	if err != nil {
		return nil, err
	}
	err = st.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(&orders).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create orders: %w", err)
	}

	return &Dataset{Truck: truck, Customer: customer, Orders: orders}, nil
}

func newTruck(seed *Seed) (*schema.FoodTruck, error) {
	menu := make([]schema.MenuItem, len(seed.Truck.Menu))
	for i, m := range seed.Truck.Menu {
		menu[i] = schema.MenuItem{Name: m.Name, Price: m.Price}
	}
	staff := make([]schema.Employee, len(seed.Truck.Staff))
	for i, s := range seed.Truck.Staff {
		staff[i] = schema.NewEmployee(s.FirstName, s.LastName)
	}

	switch seed.Truck.Kind {
	case schema.KindTacoTruck:
		return schema.NewTacoTruck(seed.Truck.Name, menu, staff), nil
	case schema.KindFoodTruck, "":
		return schema.NewFoodTruck(seed.Truck.Name, menu, staff), nil
	default:
		return nil, fmt.Errorf("unknown truck kind %q", seed.Truck.Kind)
	}
}

func newOrders(seed *Seed, truck *schema.FoodTruck, customer *schema.Person) ([]*schema.Order, error) {
	orders := make([]*schema.Order, 0, len(seed.Orders))
	for n, o := range seed.Orders {
		items := make([]schema.MenuItem, 0, len(o.Items))
		for _, idx := range o.Items {
			if idx < 0 || idx >= len(truck.MenuItems) {
				return nil, fmt.Errorf("order %d: menu index %d out of range", n, idx)
			}
			items = append(items, truck.MenuItems[idx])
		}
		if o.Staff < 0 || o.Staff >= len(truck.Employees) {
			return nil, fmt.Errorf("order %d: staff index %d out of range", n, o.Staff)
		}
		employeeID := truck.Employees[o.Staff].PersonID
		customerID := customer.ID
		orders = append(orders, &schema.Order{
			EmployeeID: &employeeID,
			CustomerID: &customerID,
			MenuItems:  items,
		})
	}
	return orders, nil
}
