package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/preflight/internal/playback"
)

var showCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Print the flattened item sequence of a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		tpl, err := resolveTemplate(cmd.Context(), e.store.TemplateRepo(), args[0])
		if err != nil {
			return err
		}
		flat := playback.Flatten(tpl)
		out := cmd.OutOrStdout()

		_, _ = title.Fprintln(out, tpl.Name)
		_, _ = faint.Fprintf(out, "%s  aircraft %s  airline %s  %d items in %d sections\n\n",
			tpl.ID, orDash(tpl.AircraftModel), orDash(tpl.Airline), flat.Total(), flat.SectionCount())

		tbl := newTable("#", "SECTION", "SUB-SECTION", "ITEM", "ACTION")
		for _, ref := range flat.Items {
			section := ""
			if flat.SectionStartsAt[ref.SectionIndex] == ref.GlobalIndex {
				section = flat.SectionTitles[ref.SectionIndex]
			}
			tbl.AddRow(ref.GlobalIndex+1, section, ref.Breadcrumb(), ref.Item().Title, ref.Item().Action)
		}
		tbl.RightAlign(0)
		printTable(out, tbl)

		_, _ = fmt.Fprintln(out)
		starts := newTable("SECTION", "STARTS AT", "ITEMS")
		for i, t := range flat.SectionTitles {
			start := "-"
			if n := flat.SectionEnd(i) - flat.SectionStartsAt[i]; n > 0 {
				start = fmt.Sprint(flat.SectionStartsAt[i] + 1)
			}
			starts.AddRow(t, start, flat.SectionEnd(i)-flat.SectionStartsAt[i])
		}
		printTable(out, starts)

		for _, id := range flat.Skipped {
			_, _ = warning.Fprintf(out, "skipped during playback: block %s\n", id)
		}
		return nil
	},
}
