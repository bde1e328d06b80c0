package query

import (
	"context"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audy/foodtruck/internal/fixture"
	"github.com/audy/foodtruck/internal/schema"
	"github.com/audy/foodtruck/internal/storage"
)

func seededStore(t *testing.T) (*storage.Store, *fixture.Dataset) {
	t.Helper()
	st, err := storage.Open(storage.MemoryDSN, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ds, err := fixture.Build(context.Background(), st)
	require.NoError(t, err)
	return st, ds
}

func orderIDs(orders []schema.Order) []uint {
	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}

func TestSQLShape(t *testing.T) {
	st, _ := seededStore(t)

	plan := Compose(st, DefaultPrice)
	sql, err := plan.SQL()
	require.NoError(t, err)

	assert.Contains(t, sql, "SELECT DISTINCT orders.*")
	assert.Contains(t, sql, "JOIN menu_item_orders ON menu_item_orders.order_id = orders.id")
	assert.Contains(t, sql, "JOIN menu_items ON menu_items.id = menu_item_orders.menu_item_id")
	assert.Contains(t, sql, "JOIN food_trucks ON food_trucks.id = menu_items.food_truck_id")
	assert.Contains(t, sql, "menu_items.price = 700")

	// the plan is reusable: rendering twice yields the same statement
	again, err := plan.SQL()
	require.NoError(t, err)
	assert.Equal(t, sql, again)
}

func TestRunMatchesBothOrders(t *testing.T) {
	st, _ := seededStore(t)

	orders, err := Compose(st, 700).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2, "both orders contain the California Burrito")

	for _, order := range orders {
		// every eager path is populated without further queries
		require.NotNil(t, order.Customer)
		require.NotNil(t, order.Customer.Person)
		assert.Equal(t, "NA, Frenchy", order.Customer.Person.DisplayName())

		require.NotNil(t, order.Employee)
		require.NotNil(t, order.Employee.Person)
		require.NotNil(t, order.Employee.FoodTruck)
		assert.Equal(t, "Hell's Chariot", order.Employee.FoodTruck.Name)
		assert.Equal(t, schema.KindTacoTruck, order.Employee.FoodTruck.Kind)

		assert.NotEmpty(t, order.MenuItems)
	}

	// prefetch is unfiltered: the first order keeps both of its items
	counts := []int{len(orders[0].MenuItems), len(orders[1].MenuItems)}
	sort.Ints(counts)
	assert.Equal(t, []int{1, 2}, counts)
}

func TestRunRoundTripIdentity(t *testing.T) {
	st, ds := seededStore(t)

	orders, err := Compose(st, 700).Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, orders)

	california := ds.Truck.MenuItems[1]
	for _, order := range orders {
		found := false
		for _, item := range order.MenuItems {
			if item.Price == 700 {
				assert.Equal(t, california.ID, item.ID, "same row whichever path reads it")
				assert.Equal(t, california.FoodTruckID, item.FoodTruckID)
				found = true
			}
		}
		assert.True(t, found, "order %d lacks the filtered item", order.ID)
	}
}

func TestRunNoMatches(t *testing.T) {
	st, _ := seededStore(t)

	orders, err := Compose(st, 9999).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestRunIsIdempotent(t *testing.T) {
	st, _ := seededStore(t)
	plan := Compose(st, 700)

	first, err := plan.Run(context.Background())
	require.NoError(t, err)
	second, err := plan.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, orderIDs(first), orderIDs(second))
	assert.Equal(t, len(first), len(second))
}

func TestPrice(t *testing.T) {
	st, _ := seededStore(t)
	assert.Equal(t, 800, Compose(st, 800).Price())
}
