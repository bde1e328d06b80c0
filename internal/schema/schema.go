// Package schema defines the food-truck entity graph: a polymorphic truck
// family, a polymorphic person family, menu items, and orders linked to
// menu items through a junction table.
//
// Both polymorphic families use joined-table inheritance. The base table
// carries the discriminator column and the shared fields; each
// specialization table shares the base primary key. Reading a base-typed
// collection dispatches on the discriminator to decide which
// specialization payload applies.
package schema

import "fmt"

// Discriminator values for the truck family.
const (
	KindFoodTruck = "food_truck"
	KindTacoTruck = "taco_truck"
)

// Discriminator values for the person family.
const (
	KindPerson   = "person"
	KindEmployee = "employee"
	KindCustomer = "customer"
)

// FoodTruck is the base row of the truck family. Name is unique across
// all trucks; violating that surfaces as a constraint violation at
// commit time, not here.
type FoodTruck struct {
	ID   uint   `gorm:"primaryKey"`
	Kind string `gorm:"column:type;size:50;index;not null"`
	Name string `gorm:"size:80;not null;uniqueIndex"`

	TacoTruck *TacoTruck `gorm:"foreignKey:FoodTruckID"`
	MenuItems []MenuItem `gorm:"foreignKey:FoodTruckID"`
	Employees []Employee `gorm:"foreignKey:FoodTruckID"`
}

// TacoTruck is the taco_truck specialization. It carries no payload of
// its own beyond the shared primary key.
type TacoTruck struct {
	FoodTruckID uint `gorm:"primaryKey;autoIncrement:false"`
}

// Person is the base row of the person family. Both name parts are
// optional; DisplayName fills the gaps.
type Person struct {
	ID        uint    `gorm:"primaryKey"`
	Kind      string  `gorm:"column:type;size:50;index;not null"`
	FirstName *string `gorm:"size:50"`
	LastName  *string `gorm:"size:50"`

	Employee *Employee `gorm:"foreignKey:PersonID"`
	Customer *Customer `gorm:"foreignKey:PersonID"`
}

// DisplayName derives the presentation name, "last, first", with "NA"
// standing in for either missing part. It is never stored.
func (p Person) DisplayName() string {
	return fmt.Sprintf("%s, %s", orNA(p.LastName), orNA(p.FirstName))
}

// Employee is the employee specialization. An employee is assigned to at
// most one truck and serves any number of orders.
type Employee struct {
	PersonID    uint    `gorm:"primaryKey;autoIncrement:false"`
	Person      *Person `gorm:"foreignKey:PersonID"`
	FoodTruckID *uint   `gorm:"index"`

	FoodTruck    *FoodTruck `gorm:"foreignKey:FoodTruckID"`
	OrdersServed []Order    `gorm:"foreignKey:EmployeeID"`
}

// Customer is the customer specialization.
type Customer struct {
	PersonID uint    `gorm:"primaryKey;autoIncrement:false"`
	Person   *Person `gorm:"foreignKey:PersonID"`

	OrdersRequested []Order `gorm:"foreignKey:CustomerID"`
}

// MenuItem belongs to exactly one truck. Price is in minor currency
// units (cents). Items are never shared between trucks, but nothing
// stops an order from mixing items across trucks.
type MenuItem struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:50"`
	Price       int    `gorm:"not null"`
	FoodTruckID uint   `gorm:"not null;index"`

	Orders []Order `gorm:"many2many:menu_item_orders"`
}

// Order references an optional serving employee, an optional requesting
// customer, and the menu items sold through the menu_item_orders
// junction table. The junction has no identity of its own.
type Order struct {
	ID         uint  `gorm:"primaryKey"`
	EmployeeID *uint `gorm:"index"`
	CustomerID *uint `gorm:"index"`

	Employee  *Employee  `gorm:"foreignKey:EmployeeID;references:PersonID"`
	Customer  *Customer  `gorm:"foreignKey:CustomerID;references:PersonID"`
	MenuItems []MenuItem `gorm:"many2many:menu_item_orders"`
}

// NewTacoTruck builds a taco_truck row with its menu and staff attached,
// ready to persist in one create.
func NewTacoTruck(name string, menu []MenuItem, staff []Employee) *FoodTruck {
	return &FoodTruck{
		Kind:      KindTacoTruck,
		Name:      name,
		TacoTruck: &TacoTruck{},
		MenuItems: menu,
		Employees: staff,
	}
}

// NewFoodTruck builds a plain food_truck row (no specialization table
// entry) with its menu and staff attached.
func NewFoodTruck(name string, menu []MenuItem, staff []Employee) *FoodTruck {
	return &FoodTruck{
		Kind:      KindFoodTruck,
		Name:      name,
		MenuItems: menu,
		Employees: staff,
	}
}

// NewEmployee builds an employee with its person base row. Empty name
// parts are stored as NULL.
func NewEmployee(first, last string) Employee {
	return Employee{
		Person: &Person{
			Kind:      KindEmployee,
			FirstName: opt(first),
			LastName:  opt(last),
		},
	}
}

// NewCustomer builds a customer with its person base row.
func NewCustomer(first, last string) *Person {
	return &Person{
		Kind:      KindCustomer,
		FirstName: opt(first),
		LastName:  opt(last),
		Customer:  &Customer{},
	}
}

// Tables lists every model for migration, bases before specializations
// so foreign keys resolve.
func Tables() []any {
	return []any{
		&Person{},
		&FoodTruck{},
		&TacoTruck{},
		&Employee{},
		&Customer{},
		&MenuItem{},
		&Order{},
	}
}

func opt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "NA"
	}
	return *s
}
