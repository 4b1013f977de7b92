package cmd

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored checklist templates",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		infos, err := e.store.TemplateRepo().List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(infos) == 0 {
			_, _ = faint.Fprintln(out, "No templates. Import one with: preflight import <file>")
			return nil
		}

		tbl := newTable("ID", "NAME", "AIRCRAFT", "AIRLINE", "ITEMS", "UPDATED")
		for _, info := range infos {
			tbl.AddRow(info.ID, info.Name, orDash(info.AircraftModel), orDash(info.Airline), info.ItemCount, formatTime(info.UpdatedAt))
		}
		tbl.RightAlign(4)
		printTable(out, tbl)
		return nil
	},
}
