package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mattsolo1/helpctl/internal/scaffold"
)

func newInitCmd() *cobra.Command {
	var fixturesDir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new helpctl project in the current directory",
		Long:  "Writes a starter helpctl.config.yml and a directory of example recorded help-text fixtures, so there's something to run extract/batch against immediately.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return scaffold.InitWithOptions(scaffold.InitOptions{FixturesDir: fixturesDir}, getLogger())
		},
	}

	cmd.Flags().StringVar(&fixturesDir, "fixtures-dir", "", "directory to populate with example fixtures (default: fixtures)")

	return cmd
}
