package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nyan-lang/nyan/pkgs/database"
)

func newGetCmd(newDB func() *database.Database) *cobra.Command {
	return &cobra.Command{
		Use:   "get <fqon> <member> <file>...",
		Short: "Load the given files and print a member's effective value",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fqon, member, files := args[0], args[1], args[2:]
			db := newDB()
			if err := loadFiles(db, files); err != nil {
				return err
			}
			obj, ok := db.Get(fqon)
			if !ok {
				return usageError{fmt.Errorf("no such object %q", fqon)}
			}
			v, ok := obj.EffectiveValue(member)
			if !ok {
				return usageError{fmt.Errorf("%q has no member %q", fqon, member)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.Display())
			return nil
		},
	}
}
