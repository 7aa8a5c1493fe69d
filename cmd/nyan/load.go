package main

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/nyan-lang/nyan/pkgs/database"
)

func newLoadCmd(newDB func() *database.Database) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "load <file>...",
		Short: "Load one or more nyan source files and report the resulting object count",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db := newDB()
			if err := loadFiles(db, args); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d object(s)\n", len(db.All()))
			if !watch {
				return nil
			}
			return watchAndReload(cmd, db, args)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "re-load whenever any input file changes")
	return cmd
}

func loadFiles(db *database.Database, paths []string) error {
	for _, p := range paths {
		text, err := readFile(p)
		if err != nil {
			return err
		}
		if err := db.Load(p, text); err != nil {
			return err
		}
	}
	return nil
}

// watchAndReload is a convenience entirely outside the core: it
// re-runs loadFiles into a fresh Database on every write event, so a
// failed reload never corrupts the previously good one.
func watchAndReload(cmd *cobra.Command, db *database.Database, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return usageError{fmt.Errorf("starting watcher: %w", err)}
	}
	defer watcher.Close()

	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			return usageError{fmt.Errorf("watching %s: %w", p, err)}
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "watching for changes, press Ctrl-C to stop")
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fresh := database.New()
			if err := loadFiles(fresh, paths); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "reload failed: %s\n", err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reloaded, %d object(s)\n", len(fresh.All()))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "watch error: %s\n", err)
		}
	}
}
