package e2e

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixture = `Usage: widget [OPTIONS] <FILE>

Options:
  -o, --output <FILE>   Write output to FILE
  -v, --verbose          Enable verbose logging
  -h, --help             Show this help message
`

func TestExtractFromFile(t *testing.T) {
	binary, err := FindBinary()
	if err != nil {
		t.Skip("helpctl binary not available: " + err.Error())
	}

	dir := t.TempDir()
	fixturePath := filepath.Join(dir, "widget.txt")
	require.NoError(t, os.WriteFile(fixturePath, []byte(fixture), 0o644))

	cmd := exec.Command(binary, "extract", "--file", fixturePath, "--command", "widget", "--json")
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "output: %s", out)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(out, &schema))
	require.Equal(t, "widget", schema["Command"])
}
