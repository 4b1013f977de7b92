package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/preflight/internal/checklist"
	"github.com/abhisek/preflight/internal/playback"
	"github.com/abhisek/preflight/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a checklist template from a JSON or YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		force, _ := cmd.Flags().GetBool("force")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		tpl, err := checklist.Decode(data, checklist.DetectKind(args[0]))
		if err != nil {
			return err
		}

		problems := checklist.Validate(tpl)
		for _, p := range problems.Warnings() {
			_, _ = warning.Fprintln(out, p.String())
		}
		if err := problems.Err(); err != nil {
			for _, p := range problems.Errors() {
				_, _ = failure.Fprintln(out, p.String())
			}
			return fmt.Errorf("template %q has %d error(s); nothing imported", tpl.Name, len(problems.Errors()))
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if skipped := playback.Flatten(tpl).Skipped; len(skipped) > 0 {
			e.log.Warn("blocks will be skipped during playback", "template", tpl.ID, "blocks", skipped)
		}

		repo := e.store.TemplateRepo()
		if err := replaceable(cmd, repo, tpl, force); err != nil {
			return err
		}
		if err := repo.Save(ctx, tpl); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fmt.Errorf("a template named %q already exists (use --force to replace it)", tpl.Name)
			}
			return err
		}

		e.log.Info("template imported", "id", tpl.ID, "name", tpl.Name, "items", tpl.ItemCount())
		_, _ = success.Fprintf(out, "Imported %q", tpl.Name)
		_, _ = faint.Fprintf(out, " (%s, %d items)\n", tpl.ID, tpl.ItemCount())
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("force", false, "Replace an existing template with the same id or name")
}

// replaceable refuses to overwrite an existing template unless force is set.
// With force, a different template holding the same name is deleted first.
func replaceable(cmd *cobra.Command, repo store.TemplateRepo, tpl *checklist.Template, force bool) error {
	ctx := cmd.Context()

	if _, err := repo.Get(ctx, tpl.ID); err == nil {
		if !force {
			return fmt.Errorf("template %s already exists (use --force to replace it)", tpl.ID)
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	other, err := repo.FindByName(ctx, tpl.Name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return err
	case other.ID == tpl.ID:
		return nil
	case !force:
		return fmt.Errorf("a template named %q already exists (use --force to replace it)", tpl.Name)
	}
	return repo.Delete(ctx, other.ID)
}
