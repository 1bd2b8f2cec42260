package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/helpctl/internal/prettyprint"
	"github.com/mattsolo1/helpctl/pkg/config"
	"github.com/mattsolo1/helpctl/pkg/pipeline"
	"github.com/mattsolo1/helpctl/pkg/quality"
)

func newExtractCmd() *cobra.Command {
	var (
		file       string
		command    string
		asJSON     bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a CommandSchema from pre-supplied help text",
		Long:  "Reads help text from --file (or stdin if omitted) and runs it through the classifier, format detector, parser strategies, merger, value-type classifier, and quality gate.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if command == "" {
				return fmt.Errorf("--command is required")
			}

			var text []byte
			var err error
			if file != "" {
				text, err = os.ReadFile(file)
			} else {
				text, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			cfg := config.Default()
			if configPath != "" {
				cfg, err = config.LoadFromPath(configPath)
				if err != nil {
					return err
				}
			}

			opts := optionsFromConfig(cfg)
			schema, rep := pipeline.Extract(command, string(text), opts)

			return emitExtraction(cmd, schema, rep, asJSON)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to a file containing captured help text (default: stdin)")
	cmd.Flags().StringVarP(&command, "command", "c", "", "the command name being extracted")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the CommandSchema as JSON instead of a human-readable summary")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a helpctl.config.yml (default: built-in defaults)")

	return cmd
}

// optionsFromConfig translates the on-disk Config into pipeline.Options.
func optionsFromConfig(cfg config.Config) pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Thresholds = quality.Thresholds{
		HighConfidence:   quality.DefaultThresholds.HighConfidence,
		MediumConfidence: quality.DefaultThresholds.MediumConfidence,
		MinConfidence:    cfg.MinConfidence,
		MinCoverage:      cfg.MinCoverage,
		AllowLowQuality:  cfg.AllowLowQuality,
	}
	if cfg.ProbeTimeoutMs > 0 {
		opts.ProbeTimeout = msToDuration(cfg.ProbeTimeoutMs)
	}
	opts.InstalledOnly = cfg.InstalledOnly
	opts.Jobs = cfg.Jobs
	opts.CacheEnabled = cfg.CacheEnabled
	return opts
}

func emitExtraction(cmd *cobra.Command, schema any, rep quality.ExtractionReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(schema)
	}
	fmt.Fprint(cmd.OutOrStdout(), prettyprint.Report(rep))
	return nil
}
