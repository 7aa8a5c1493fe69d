package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nyan-lang/nyan/pkgs/database"
)

func newLinCmd(newDB func() *database.Database) *cobra.Command {
	return &cobra.Command{
		Use:   "lin <fqon> <file>...",
		Short: "Load the given files and print an object's C3 linearization",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fqon, files := args[0], args[1:]
			db := newDB()
			if err := loadFiles(db, files); err != nil {
				return err
			}
			obj, ok := db.Get(fqon)
			if !ok {
				return usageError{fmt.Errorf("no such object %q", fqon)}
			}
			lin, err := obj.Linearization()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lin, " -> "))
			return nil
		},
	}
}
