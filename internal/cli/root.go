// Package cli wires the demo pipeline behind a cobra command tree.
package cli

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the foodtruck CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "foodtruck",
		Short: "Food-truck ORM demo",
		Long: `Seeds a polymorphic food-truck schema into a SQLite store, composes
an eagerly-fetched order query, pretty-prints the generated SQL, and
renders the matching orders.`,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "echo every SQL statement as it runs")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewSQLCommand(opts))

	return cmd
}

// newLogger builds the zerolog logger for a command invocation.
// Diagnostics go to stderr so they never corrupt command output.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}
