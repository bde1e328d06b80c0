// Package query composes the eagerly-fetched order query: orders that
// contain at least one menu item at an exact price, joined through the
// junction table and menu items to trucks.
//
// Join clauses and eager-fetch directives are kept independent. The
// joins restrict which orders are selected; the preloads only decide
// which relationships are materialized up front (as keyed lookups run
// alongside the primary statement) and carry no filtering of their own.
package query

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/audy/foodtruck/internal/schema"
	"github.com/audy/foodtruck/internal/storage"
)

// DefaultPrice is the filter the demo runs with: 700 cents, the
// California Burrito.
const DefaultPrice = 700

// eagerPaths lists every relationship the plan prefetches: the order's
// items, its customer, its employee, and the employee's truck.
var eagerPaths = []string{
	"MenuItems",
	"Customer",
	"Customer.Person",
	"Employee",
	"Employee.Person",
	"Employee.FoodTruck",
}

// Plan is a composed, not yet executed, order query. SQL renders the
// primary statement; Run executes it. Rebuilding the statement for each
// call keeps the plan reusable: running it twice against an unmodified
// store returns row-equivalent results.
type Plan struct {
	db    *gorm.DB
	price int
}

// Compose builds the plan for orders containing at least one menu item
// priced exactly at price (cents).
func Compose(st *storage.Store, price int) *Plan {
	return &Plan{db: st.DB(), price: price}
}

// Price returns the filter value the plan was composed with.
func (p *Plan) Price() int {
	return p.price
}

// build assembles the chained statement. DISTINCT keeps one row per
// order even when several of its items match the filter.
func (p *Plan) build() *gorm.DB {
	tx := p.db.
		Model(&schema.Order{}).
		Distinct("orders.*").
		Joins("JOIN menu_item_orders ON menu_item_orders.order_id = orders.id").
		Joins("JOIN menu_items ON menu_items.id = menu_item_orders.menu_item_id").
		Joins("JOIN food_trucks ON food_trucks.id = menu_items.food_truck_id").
		Where("menu_items.price = ?", p.price)
	for _, path := range eagerPaths {
		tx = tx.Preload(path)
	}
	return tx
}

// SQL renders the primary SELECT through a dry-run session, without
// touching the store. The eager-fetch lookups are separate keyed
// queries issued at execution time and are not part of this statement.
func (p *Plan) SQL() (string, error) {
	var orders []schema.Order
	stmt := p.build().Session(&gorm.Session{DryRun: true}).Find(&orders).Statement
	if stmt.Error != nil {
		return "", storage.QueryConstruction("render order query", stmt.Error)
	}
	return p.db.Dialector.Explain(stmt.SQL.String(), stmt.Vars...), nil
}

// Run executes the plan and returns the matching orders with every
// eager path populated, so callers navigate the graph without further
// round-trips.
func (p *Plan) Run(ctx context.Context) ([]schema.Order, error) {
	var orders []schema.Order
	if err := p.build().WithContext(ctx).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("run order query: %w", err)
	}
	return orders, nil
}
