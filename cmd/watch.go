package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/helpctl/pkg/cache"
	"github.com/mattsolo1/helpctl/pkg/config"
	"github.com/mattsolo1/helpctl/pkg/pipeline"
	"github.com/mattsolo1/helpctl/pkg/probe"
	"github.com/mattsolo1/helpctl/pkg/watcher"
)

func newWatchCmd() *cobra.Command {
	var (
		fixturesDir string
		outPath     string
		configPath  string
		debounceMs  int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a fixtures directory and re-run batch extraction on change",
		Long:  "Watches --fixtures-dir recursively and, whenever a fixture file is created or written, re-runs the batch pipeline over the directory and rewrites the report bundle at --out. Runs until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fixturesDir == "" {
				return fmt.Errorf("--fixtures-dir is required")
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

			w, err := watcher.New()
			if err != nil {
				return fmt.Errorf("watch: creating watcher: %w", err)
			}
			defer w.Close()

			if err := w.AddRecursive(fixturesDir, fixturesDir); err != nil {
				return fmt.Errorf("watch: watching %s: %w", fixturesDir, err)
			}

			var driver *probe.Driver
			if !opts.InstalledOnly {
				driver = probe.New(getLogger(), opts.ProbeTimeout, nil)
			}
			var store *cache.Store
			if opts.CacheEnabled {
				store, _ = cache.Open(cfg.CachePath, true)
			}

			rebuild := func() {
				items, err := collectBatchItems("", fixturesDir)
				if err != nil {
					log.Warnf("watch: %v", err)
					return
				}
				results, err := pipeline.Batch(context.Background(), driver, items, store, opts)
				if err != nil {
					log.Warnf("watch: batch run failed: %v", err)
					return
				}
				if store != nil {
					if err := store.Save(); err != nil {
						log.Warnf("watch: failed to persist cache: %v", err)
					}
				}
				if err := partitionAndSaveReport(results, outPath); err != nil {
					log.Warnf("watch: saving report bundle: %v", err)
					return
				}
				log.Infof("watch: rebuilt %s (%d commands)", outPath, len(items))
			}

			log.Infof("watch: watching %s for changes (debounce %dms)", fixturesDir, debounceMs)
			rebuild()

			debounce := time.Duration(debounceMs) * time.Millisecond
			var mu sync.Mutex
			var timer *time.Timer

			for {
				select {
				case event, ok := <-w.Events:
					if !ok {
						return nil
					}
					if event.Has(fsnotify.Create) {
						w.HandleNewDirectory(event, fixturesDir)
					}
					if !watcher.IsFixtureFile(event.Name) {
						continue
					}
					mu.Lock()
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounce, rebuild)
					mu.Unlock()

				case err, ok := <-w.Errors:
					if !ok {
						return nil
					}
					log.Warnf("watch: watcher error: %v", err)
				}
			}
		},
	}

	cmd.Flags().StringVar(&fixturesDir, "fixtures-dir", "", "directory of recorded help-text fixtures to watch")
	cmd.Flags().StringVar(&outPath, "out", "helpctl-report.json", "path to rewrite the ExtractionReportBundle on every change")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a helpctl.config.yml (default: built-in defaults)")
	cmd.Flags().IntVar(&debounceMs, "debounce", 200, "debounce interval in milliseconds between a change and a rebuild")

	return cmd
}
