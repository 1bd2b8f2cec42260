package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

func newSchemaGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema-generate",
		Short: "Regenerate the JSON schemas for helpctl's config and command schema",
		Long:  "Runs 'go generate ./...', which invokes tools/schema-generator to write schema/helpctl.config.schema.json and schema/command.schema.json from the Go struct definitions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Info("running 'go generate ./...' to refresh schemas")

			execCmd := exec.Command("go", "generate", "./...")
			execCmd.Stdout = os.Stdout
			execCmd.Stderr = os.Stderr

			if err := execCmd.Run(); err != nil {
				return fmt.Errorf("go generate failed: %w", err)
			}

			log.Info("schema generation complete")
			return nil
		},
	}
	return cmd
}
