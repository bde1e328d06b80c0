// Package render is the presentation boundary: it pretty-prints the
// composed SQL and flattens query results into projection lines. It has
// no effect on query semantics.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/fatih/color"

	"github.com/audy/foodtruck/internal/schema"
)

// placeholder stands in for any absent part of the employee/truck
// chain. An order served by nobody, or by an employee without a truck,
// still renders rather than failing.
const placeholder = "NA"

// Row is one projection line: an (order, menu item) pair flattened for
// display.
type Row struct {
	Customer  string `json:"customer"`
	Item      string `json:"item"`
	Price     int    `json:"price_cents"`
	Truck     string `json:"truck"`
	TruckKind string `json:"truck_kind"`
}

// Project flattens orders into rows, one per menu item per order, in
// store order. No sorting is applied.
func Project(orders []schema.Order) []Row {
	var rows []Row
	for _, order := range orders {
		customer := placeholder + ", " + placeholder
		if order.Customer != nil && order.Customer.Person != nil {
			customer = order.Customer.Person.DisplayName()
		}

		truckName, truckKind := placeholder, placeholder
		if order.Employee != nil && order.Employee.FoodTruck != nil {
			truckName = order.Employee.FoodTruck.Name
			truckKind = order.Employee.FoodTruck.Kind
		}

		for _, item := range order.MenuItems {
			rows = append(rows, Row{
				Customer:  customer,
				Item:      item.Name,
				Price:     item.Price,
				Truck:     truckName,
				TruckKind: truckKind,
			})
		}
	}
	return rows
}

// PrintResults writes one plain line per row.
func PrintResults(w io.Writer, rows []Row) {
	for _, r := range rows {
		fmt.Fprintf(w, "%s %s %d %s %s\n", r.Customer, r.Item, r.Price, r.Truck, r.TruckKind)
	}
}

// PrintQuery reindents the statement and writes it with SQL syntax
// colouring. Falls back to plain text if the highlighter refuses the
// terminal formatter.
func PrintQuery(w io.Writer, sql string) error {
	formatted := Reindent(sql)
	if err := quick.Highlight(w, formatted, "sql", "terminal256", "monokai"); err != nil {
		if _, werr := fmt.Fprint(w, formatted); werr != nil {
			return werr
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// Banner writes the dashed rule separating the echoed query from the
// projection lines.
func Banner(w io.Writer) {
	rule := strings.Repeat("-", 25)
	color.New(color.FgCyan).Fprintf(w, "%s STARTING %s\n", rule, rule)
}
