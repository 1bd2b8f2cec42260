package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/helpctl/pkg/model"
	"github.com/mattsolo1/helpctl/pkg/quality"
)

func TestNewBundleSortsReportsAndFailuresByCommandName(t *testing.T) {
	extractions := []Extraction{
		{Schema: model.CommandSchema{Command: "zebra"}},
		{Schema: model.CommandSchema{Command: "alpha"}},
		{Schema: model.CommandSchema{Command: "mango"}},
	}
	failures := []quality.ExtractionReport{
		{Command: "yankee"},
		{Command: "bravo"},
	}

	b := NewBundle("1.2.3", time.Unix(0, 0), extractions, failures)

	require.Equal(t, []string{"alpha", "mango", "zebra"}, commandNames(b.Reports))
	require.Equal(t, []string{"bravo", "yankee"}, failureNames(b.Failures))
	require.Equal(t, SchemaVersion, b.SchemaVersion)
	require.Equal(t, "1.2.3", b.Version)
}

func TestNewBundleSortIsStableForEqualNames(t *testing.T) {
	extractions := []Extraction{
		{Schema: model.CommandSchema{Command: "widget", Version: "first"}},
		{Schema: model.CommandSchema{Command: "widget", Version: "second"}},
	}
	b := NewBundle("v", time.Unix(0, 0), extractions, nil)
	require.Equal(t, "first", b.Reports[0].Schema.Version)
	require.Equal(t, "second", b.Reports[1].Schema.Version)
}

func TestBundleSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "report.json")

	extractions := []Extraction{
		{Schema: model.CommandSchema{Command: "widget"}, Report: quality.ExtractionReport{Command: "widget", Success: true}},
	}
	b := NewBundle("1.0.0", time.Unix(1700000000, 0), extractions, nil)
	require.NoError(t, b.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, b.SchemaVersion, loaded.SchemaVersion)
	require.Equal(t, b.Version, loaded.Version)
	require.Len(t, loaded.Reports, 1)
	require.Equal(t, "widget", loaded.Reports[0].Schema.Command)
	require.True(t, loaded.GeneratedAt.Equal(b.GeneratedAt))
}

func commandNames(extractions []Extraction) []string {
	var out []string
	for _, e := range extractions {
		out = append(out, e.Schema.Command)
	}
	return out
}

func failureNames(failures []quality.ExtractionReport) []string {
	var out []string
	for _, f := range failures {
		out = append(out, f.Command)
	}
	return out
}
