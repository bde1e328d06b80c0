package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audy/foodtruck/internal/query"
	"github.com/audy/foodtruck/internal/render"
	"github.com/audy/foodtruck/internal/storage"
)

// SQLOptions holds flags for the sql command.
type SQLOptions struct {
	*RootOptions
	Database string
	Price    int
	Plain    bool
}

// NewSQLCommand creates the sql command: print the composed query
// without executing it or seeding any data.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SQLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Print the composed order query without executing it",
		Long: `Compose the eagerly-fetched order query for the given price filter and
print the generated SQL. Nothing is seeded or executed; the statement is
rendered through a dry run.

Example:
  foodtruck sql
  foodtruck sql --price 800 --plain`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "database", storage.MemoryDSN, "SQLite connection string")
	cmd.Flags().IntVar(&opts.Price, "price", query.DefaultPrice, "menu item price filter, in cents")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "skip syntax colouring")

	return cmd
}

func runSQL(opts *SQLOptions, cmd *cobra.Command) error {
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

	sql, err := query.Compose(st, opts.Price).SQL()
	if err != nil {
		return WrapExitError(ExitFailure, "compose query", err)
	}

	out := cmd.OutOrStdout()
	if opts.Plain {
		_, err = fmt.Fprintln(out, render.Reindent(sql))
		return err
	}
	if err := render.PrintQuery(out, sql); err != nil {
		return WrapExitError(ExitFailure, "print query", err)
	}
	return nil
}
