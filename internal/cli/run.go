package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audy/foodtruck/internal/fixture"
	"github.com/audy/foodtruck/internal/query"
	"github.com/audy/foodtruck/internal/render"
	"github.com/audy/foodtruck/internal/storage"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Price    int
	Format   string
}

// runReport is the JSON payload for --format json.
type runReport struct {
	Query string       `json:"query"`
	Rows  []render.Row `json:"rows"`
}

// NewRunCommand creates the run command: the whole pipeline, seed
// through render, in one shot.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Seed the store, run the order query, render the results",
		Long: `Seed the demo dataset into the store, compose the eagerly-fetched
order query for the given price filter, pretty-print the generated SQL,
then execute it and print one line per order and menu item.

Example:
  foodtruck run
  foodtruck run --price 800 --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return WrapExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats), nil)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "database", storage.MemoryDSN, "SQLite connection string")
	cmd.Flags().IntVar(&opts.Price, "price", query.DefaultPrice, "menu item price filter, in cents")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	return cmd
}

func runDemo(opts *RunOptions, cmd *cobra.Command) error {
	log := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	st, err := storage.Open(opts.Database, log)
	if err != nil {
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("closing store")
		}
	}()

	if _, err := fixture.Build(cmd.Context(), st); err != nil {
		return WrapExitError(ExitFailure, "seed fixture", err)
	}
	log.Debug().Msg("fixture seeded")

	plan := query.Compose(st, opts.Price)
	sql, err := plan.SQL()
	if err != nil {
		return WrapExitError(ExitFailure, "compose query", err)
	}

	orders, err := plan.Run(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "run query", err)
	}
	log.Debug().Int("orders", len(orders)).Int("price", opts.Price).Msg("query executed")

	rows := render.Project(orders)
	out := cmd.OutOrStdout()

	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(runReport{Query: sql, Rows: rows}); err != nil {
			return WrapExitError(ExitFailure, "encode results", err)
		}
		return nil
	}

	if err := render.PrintQuery(out, sql); err != nil {
		return WrapExitError(ExitFailure, "print query", err)
	}
	render.Banner(out)
	render.PrintResults(out, rows)
	return nil
}
