package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/preflight/internal/store"
)

var renameCmd = &cobra.Command{
	Use:   "rename <id|name> <new-name>",
	Short: "Rename a stored template",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()

		repo := e.store.TemplateRepo()
		tpl, err := resolveTemplate(ctx, repo, args[0])
		if err != nil {
			return err
		}
		if err := repo.Rename(ctx, tpl.ID, args[1]); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fmt.Errorf("a template named %q already exists", args[1])
			}
			return err
		}
		e.log.Info("template renamed", "id", tpl.ID, "from", tpl.Name, "to", args[1])
		_, _ = success.Fprintf(cmd.OutOrStdout(), "Renamed %q to %q\n", tpl.Name, args[1])
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id|name>",
	Aliases: []string{"rm"},
	Short:   "Delete a stored template and its saved progress",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()

		repo := e.store.TemplateRepo()
		tpl, err := resolveTemplate(ctx, repo, args[0])
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, tpl.ID); err != nil {
			return err
		}
		e.log.Info("template deleted", "id", tpl.ID, "name", tpl.Name)
		_, _ = success.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", tpl.Name)
		return nil
	},
}
