package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/preflight/internal/checklist"
)

var exportCmd = &cobra.Command{
	Use:   "export <id|name>",
	Short: "Write a stored template as JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		asYAML, _ := cmd.Flags().GetBool("yaml")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		tpl, err := resolveTemplate(cmd.Context(), e.store.TemplateRepo(), args[0])
		if err != nil {
			return err
		}

		kind := checklist.KindJSON
		if asYAML || (output != "" && checklist.DetectKind(output) == checklist.KindYAML) {
			kind = checklist.KindYAML
		}
		data, err := checklist.Encode(tpl, kind)
		if err != nil {
			return err
		}

		if output == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		e.log.Info("template exported", "id", tpl.ID, "path", output)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	exportCmd.Flags().Bool("yaml", false, "Encode as YAML")
}
