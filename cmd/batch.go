package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/helpctl/pkg/cache"
	"github.com/mattsolo1/helpctl/pkg/config"
	"github.com/mattsolo1/helpctl/pkg/pipeline"
	"github.com/mattsolo1/helpctl/pkg/probe"
)

// batchManifest lists the commands a batch run should extract. A command
// with a file entry is extracted from that recorded text; a command with
// no file is probed live (unless installed_only is set).
type batchManifest struct {
	Commands []batchManifestEntry `yaml:"commands"`
}

type batchManifestEntry struct {
	Command string `yaml:"command"`
	File    string `yaml:"file,omitempty"`
}

func newBatchCmd() *cobra.Command {
	var (
		manifestPath string
		fixturesDir  string
		outPath      string
		configPath   string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Extract CommandSchemas for many commands and save a report bundle",
		Long:  "Loads a manifest (--manifest) and/or a directory of recorded fixtures (--fixtures-dir), runs every command through the pipeline with bounded concurrency, and saves the resulting ExtractionReportBundle to --out.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if manifestPath == "" && fixturesDir == "" {
				return fmt.Errorf("at least one of --manifest or --fixtures-dir is required")
			}

			cfg := config.Default()
			var err error
			if configPath != "" {
				cfg, err = config.LoadFromPath(configPath)
				if err != nil {
					return err
				}
			}
			opts := optionsFromConfig(cfg)

			items, err := collectBatchItems(manifestPath, fixturesDir)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return fmt.Errorf("no commands found in manifest/fixtures-dir")
			}
			log.Infof("batch: extracting %d command(s)", len(items))

			var driver *probe.Driver
			if !opts.InstalledOnly {
				driver = probe.New(getLogger(), opts.ProbeTimeout, nil)
			}

			var store *cache.Store
			if opts.CacheEnabled {
				store, err = cache.Open(cfg.CachePath, true)
				if err != nil {
					log.Warnf("batch: cache unavailable, continuing without it: %v", err)
					store, _ = cache.Open("", false)
				}
			}

			results, err := pipeline.Batch(context.Background(), driver, items, store, opts)
			if err != nil {
				return fmt.Errorf("batch: %w", err)
			}

			if store != nil {
				if err := store.Save(); err != nil {
					log.Warnf("batch: failed to persist cache: %v", err)
				}
			}

			if err := partitionAndSaveReport(results, outPath); err != nil {
				return fmt.Errorf("batch: saving report bundle: %w", err)
			}
			log.Infof("batch: wrote report bundle to %s", outPath)

			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to a YAML manifest listing commands (and optional fixture files) to extract")
	cmd.Flags().StringVar(&fixturesDir, "fixtures-dir", "", "directory of recorded help-text files; each file's base name (without extension) is taken as the command name")
	cmd.Flags().StringVar(&outPath, "out", "helpctl-report.json", "path to write the ExtractionReportBundle")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a helpctl.config.yml (default: built-in defaults)")

	return cmd
}

// collectBatchItems merges a manifest's entries with any fixture files
// found under fixturesDir, skipping unreadable entries with a warning
// rather than aborting the whole run.
func collectBatchItems(manifestPath, fixturesDir string) ([]pipeline.BatchItem, error) {
	var items []pipeline.BatchItem
	seen := make(map[string]bool)

	if manifestPath != "" {
		data, err := os.ReadFile(manifestPath)
		if err != nil {
			return nil, fmt.Errorf("reading manifest %s: %w", manifestPath, err)
		}
		var m batchManifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing manifest %s: %w", manifestPath, err)
		}
		for _, entry := range m.Commands {
			if entry.Command == "" {
				log.Warnf("batch: skipping manifest entry with no command name")
				continue
			}
			item := pipeline.BatchItem{Command: entry.Command}
			if entry.File != "" {
				text, err := os.ReadFile(entry.File)
				if err != nil {
					log.Warnf("batch: skipping %s: could not read %s: %v", entry.Command, entry.File, err)
					continue
				}
				item.Text = string(text)
			}
			items = append(items, item)
			seen[entry.Command] = true
		}
	}

	if fixturesDir != "" {
		entries, err := os.ReadDir(fixturesDir)
		if err != nil {
			return nil, fmt.Errorf("reading fixtures dir %s: %w", fixturesDir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			command := strings.TrimSuffix(name, filepath.Ext(name))
			if seen[command] {
				continue
			}
			text, err := os.ReadFile(filepath.Join(fixturesDir, name))
			if err != nil {
				log.Warnf("batch: skipping %s: %v", name, err)
				continue
			}
			items = append(items, pipeline.BatchItem{Command: command, Text: string(text)})
			seen[command] = true
		}
	}

	return items, nil
}
