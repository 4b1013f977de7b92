package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset [id|name]",
	Short: "Clear saved progress for a template, or for all with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if all == (len(args) == 1) {
			return errors.New("give a template id or name, or --all")
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if all {
			if err := e.store.ProgressRepo().DeleteAll(ctx); err != nil {
				return err
			}
			e.log.Info("progress cleared", "scope", "all")
			_, _ = success.Fprintln(out, "Cleared saved progress for all templates")
			return nil
		}

		tpl, err := resolveTemplate(ctx, e.store.TemplateRepo(), args[0])
		if err != nil {
			return err
		}
		if err := e.store.ProgressRepo().Delete(ctx, tpl.ID); err != nil {
			return err
		}
		e.log.Info("progress cleared", "id", tpl.ID)
		_, _ = success.Fprintf(out, "Cleared saved progress for %q\n", tpl.Name)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("all", false, "Clear saved progress for every template")
}
