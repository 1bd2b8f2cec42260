package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/helpctl/pkg/cache"
	"github.com/mattsolo1/helpctl/pkg/config"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the fingerprint cache",
	}

	resolveCachePath := func() (string, error) {
		cfg := config.Default()
		if configPath != "" {
			var err error
			cfg, err = config.LoadFromPath(configPath)
			if err != nil {
				return "", err
			}
		}
		return cfg.CachePath, nil
	}

	inspect := &cobra.Command{
		Use:   "inspect",
		Short: "Print the number of entries in the fingerprint cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveCachePath()
			if err != nil {
				return err
			}
			store, err := cache.Open(path, true)
			if err != nil {
				return fmt.Errorf("opening cache %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries\n", path, store.Len())
			return nil
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Remove every entry from the fingerprint cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveCachePath()
			if err != nil {
				return err
			}
			store, err := cache.Open(path, true)
			if err != nil {
				return fmt.Errorf("opening cache %s: %w", path, err)
			}
			before := store.Len()
			store.Clear()
			if err := store.Save(); err != nil {
				return fmt.Errorf("clearing cache %s: %w", path, err)
			}
			log.Infof("cache: cleared %d entries from %s", before, path)
			return nil
		},
	}

	for _, sub := range []*cobra.Command{inspect, clear} {
		sub.Flags().StringVar(&configPath, "config", "", "path to a helpctl.config.yml (default: built-in defaults)")
		root.AddCommand(sub)
	}

	return root
}
