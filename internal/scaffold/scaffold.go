// Package scaffold creates a starter helpctl project layout: a config
// file and one example recorded help-text fixture, so a new user has a
// working extraction to run and inspect immediately.
package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

//go:embed all:templates
var templatesFS embed.FS

// InitOptions holds configuration options for the init command.
type InitOptions struct {
	FixturesDir string // defaults to "fixtures"
}

// Init scaffolds a new helpctl project in the current directory.
func Init(logger *logrus.Logger) error {
	return InitWithOptions(InitOptions{}, logger)
}

// InitWithOptions scaffolds a new helpctl project with custom options.
func InitWithOptions(opts InitOptions, logger *logrus.Logger) error {
	if opts.FixturesDir == "" {
		opts.FixturesDir = "fixtures"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current working directory: %w", err)
	}

	configDest := filepath.Join(cwd, "helpctl.config.yml")
	if _, err := os.Stat(configDest); err == nil {
		return fmt.Errorf("helpctl configuration already exists at %s", configDest)
	}

	if err := copyFileFromFS("templates/helpctl.config.yml", configDest); err != nil {
		return err
	}
	logger.Infof("created configuration file: %s", "helpctl.config.yml")

	fixturesDest := filepath.Join(cwd, opts.FixturesDir)
	if err := os.MkdirAll(fixturesDest, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", fixturesDest, err)
	}

	entries, err := templatesFS.ReadDir("templates/fixtures")
	if err != nil {
		return fmt.Errorf("failed to read embedded fixtures directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join("templates/fixtures", entry.Name())
		dest := filepath.Join(fixturesDest, entry.Name())
		if err := copyFileFromFS(src, dest); err != nil {
			return err
		}
		logger.Infof("created example fixture: %s", filepath.Join(opts.FixturesDir, entry.Name()))
	}

	logger.Info("helpctl project initialized")
	logger.Info("next: helpctl extract --file " + filepath.Join(opts.FixturesDir, "example-tool.txt") + " --command example-tool")
	return nil
}

func copyFileFromFS(src, dest string) error {
	content, err := templatesFS.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read embedded file %s: %w", src, err)
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", dest, err)
	}
	return nil
}
