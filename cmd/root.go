// Package cmd wires helpctl's cobra command tree.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "helpctl",
		Short:         "Extract structured command schemas from CLI --help output",
		Long:          "helpctl turns a tool's --help text (captured live or supplied as a file) into a structured CommandSchema: flags, subcommands, positional arguments, and value types, with a confidence-scored quality gate.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "enable debug logging")

	root.AddCommand(newExtractCmd())
	root.AddCommand(newProbeCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newSchemaGenerateCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
