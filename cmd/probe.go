package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/helpctl/pkg/config"
	"github.com/mattsolo1/helpctl/pkg/pipeline"
	"github.com/mattsolo1/helpctl/pkg/probe"
)

func newProbeCmd() *cobra.Command {
	var (
		asJSON     bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "probe <command>",
		Short: "Probe a live executable's --help output and extract its CommandSchema",
		Long:  "Resolves <command> on PATH and tries --help, -h, help, --help-all in order, stopping at the first accepted response, then runs the extraction pipeline over it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := args[0]

			cfg := config.Default()
			var err error
			if configPath != "" {
				cfg, err = config.LoadFromPath(configPath)
				if err != nil {
					return err
				}
			}
			if cfg.InstalledOnly {
				return fmt.Errorf("installed_only is set in config; probing a live executable is disabled")
			}

			opts := optionsFromConfig(cfg)
			driver := probe.New(getLogger(), opts.ProbeTimeout, nil)

			schema, rep := pipeline.ExtractLive(context.Background(), driver, command, opts)
			return emitExtraction(cmd, schema, rep, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the CommandSchema as JSON instead of a human-readable summary")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a helpctl.config.yml (default: built-in defaults)")

	return cmd
}
