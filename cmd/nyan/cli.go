package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nyan-lang/nyan/internal/obslog"
	"github.com/nyan-lang/nyan/pkgs/database"
	"github.com/nyan-lang/nyan/pkgs/langerr"
)

// usageError marks a problem with the invocation itself (unreadable
// file, unknown object or member) rather than a language error —
// mapped to exit code 2 instead of 1. Cobra's own argument-count and
// flag errors are not wrapped in it but also map to exit code 2.
type usageError struct{ error }

func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if _, ok := err.(usageError); ok {
		return 2
	}
	if _, ok := err.(*langerr.LangError); ok {
		return 1
	}
	return 2
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "nyan",
		Short:         "Load and query nyan object graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	newDB := func() *database.Database {
		logger := obslog.Discard()
		if verbose {
			logger = obslog.NewText(-4) // slog.LevelDebug
		}
		return database.New(database.WithLogger(logger))
	}

	root.AddCommand(newLoadCmd(newDB))
	root.AddCommand(newGetCmd(newDB))
	root.AddCommand(newLinCmd(newDB))
	return root
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", usageError{fmt.Errorf("reading %s: %w", path, err)}
	}
	return string(data), nil
}
