package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// FindBinary locates the helpctl binary for end-to-end tests. It checks,
// in order: the HELPCTL_BINARY environment variable, common relative
// build output paths, then PATH.
func FindBinary() (string, error) {
	if binary := os.Getenv("HELPCTL_BINARY"); binary != "" {
		return binary, nil
	}

	candidates := []string{
		"./bin/helpctl",
		"../bin/helpctl",
		"../../bin/helpctl",
		"../../../bin/helpctl",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			absPath, err := filepath.Abs(candidate)
			if err != nil {
				return "", err
			}
			return absPath, nil
		}
	}

	if path, err := exec.LookPath("helpctl"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("could not find helpctl binary - set HELPCTL_BINARY or build it into ./bin/helpctl")
}
