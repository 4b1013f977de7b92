package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/preflight/internal/checklist"
	"github.com/abhisek/preflight/internal/playback"
	"github.com/abhisek/preflight/internal/store"
	"github.com/abhisek/preflight/internal/tracker"
)

var progressCmd = &cobra.Command{
	Use:   "progress [id|name]",
	Short: "Show saved progress for one or all templates",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			tpl, err := resolveTemplate(ctx, e.store.TemplateRepo(), args[0])
			if err != nil {
				return err
			}
			saved, err := e.store.ProgressRepo().Get(ctx, tpl.ID)
			if err != nil {
				return err
			}
			printProgressDetail(out, tpl, saved)
			return nil
		}
		return printProgressList(ctx, out, e.store)
	},
}

// replay restores saved progress into a throwaway player so the usual
// playback summaries apply.
func replay(tpl *checklist.Template, saved *store.Progress) *playback.State {
	p := playback.NewPlayer()
	p.Restore(tpl, tracker.Saved(saved))
	return p.State()
}

func printProgressDetail(out io.Writer, tpl *checklist.Template, saved *store.Progress) {
	_, _ = title.Fprintln(out, tpl.Name)
	if saved == nil {
		_, _ = faint.Fprintln(out, "No saved progress.")
		return
	}

	st := replay(tpl, saved)
	o := playback.Overall(st)
	_, _ = fmt.Fprintf(out, "%d/%d done, %d skipped, %d pending", o.Done, o.Total, o.Skipped, o.Pending)
	if saved.Paused {
		_, _ = warning.Fprint(out, "  (paused)")
	}
	_, _ = fmt.Fprintln(out)
	if ref, ok := st.Current(); ok {
		_, _ = faint.Fprintf(out, "at item %d: %s  (updated %s)\n\n", st.Cursor+1, ref.Item().Title, formatTime(saved.UpdatedAt))
	}

	tbl := newTable("SECTION", "DONE", "SKIPPED", "TOTAL")
	for _, s := range playback.SectionSummaries(st) {
		tbl.AddRow(s.Title, s.Done, s.Skipped, s.Total)
	}
	tbl.RightAlign(1)
	tbl.RightAlign(2)
	tbl.RightAlign(3)
	printTable(out, tbl)
}

func printProgressList(ctx context.Context, out io.Writer, st *store.Store) error {
	infos, err := st.TemplateRepo().List(ctx)
	if err != nil {
		return err
	}

	tbl := newTable("NAME", "DONE", "SKIPPED", "AT", "PAUSED", "UPDATED")
	rows := 0
	for _, info := range infos {
		saved, err := st.ProgressRepo().Get(ctx, info.ID)
		if err != nil {
			return err
		}
		if saved == nil {
			continue
		}
		tpl, err := st.TemplateRepo().Get(ctx, info.ID)
		if err != nil {
			return err
		}
		s := replay(tpl, saved)
		o := playback.Overall(s)
		paused := ""
		if saved.Paused {
			paused = "yes"
		}
		tbl.AddRow(info.Name, fmt.Sprintf("%d/%d", o.Done, o.Total), o.Skipped,
			fmt.Sprintf("%d/%d", s.Cursor+1, s.Total()), paused, formatTime(saved.UpdatedAt))
		rows++
	}

	if rows == 0 {
		_, _ = faint.Fprintln(out, "No saved progress.")
		return nil
	}
	printTable(out, tbl)
	return nil
}
