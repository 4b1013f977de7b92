package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/preflight/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history <id|name>",
	Short: "Show recorded sessions and status changes for a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		session, _ := cmd.Flags().GetString("session")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()

		tpl, err := resolveTemplate(ctx, e.store.TemplateRepo(), args[0])
		if err != nil {
			return err
		}

		opts := store.QueryOpts{TemplateID: tpl.ID, SessionID: session, Limit: limit}
		sessions, err := e.store.EventRepo().QuerySessionEvents(ctx, opts)
		if err != nil {
			return err
		}
		changes, err := e.store.EventRepo().QueryStatusEvents(ctx, opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		_, _ = title.Fprintln(out, tpl.Name)
		if len(sessions) == 0 && len(changes) == 0 {
			_, _ = faint.Fprintln(out, "No recorded activity.")
			return nil
		}
		printHistory(out, sessions, changes)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 50, "Maximum events of each kind to show (0 = all)")
	historyCmd.Flags().String("session", "", "Only show events from this session id")
}

// printHistory merges both event kinds by their shared sequence number.
func printHistory(out io.Writer, sessions []store.SessionEventRecord, changes []store.StatusEventRecord) {
	tbl := newTable("SEQ", "TIME", "SESSION", "EVENT", "DETAIL")
	i, j := 0, 0
	for i < len(sessions) || j < len(changes) {
		if j >= len(changes) || (i < len(sessions) && sessions[i].Sequence < changes[j].Sequence) {
			s := sessions[i]
			detail := fmt.Sprintf("%d done, %d skipped of %d", s.Done, s.Skipped, s.Total)
			tbl.AddRow(s.Sequence, formatTime(s.Timestamp), shortID(s.SessionID), bold.Sprint(s.Action), detail)
			i++
			continue
		}
		c := changes[j]
		tbl.AddRow(c.Sequence, formatTime(c.Timestamp), shortID(c.SessionID), c.Status, fmt.Sprintf("item %s (at %d)", shortID(c.ItemID), c.Cursor+1))
		j++
	}
	tbl.RightAlign(0)
	printTable(out, tbl)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
