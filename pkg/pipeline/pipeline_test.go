package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/helpctl/pkg/quality"
)

const gnuHelpText = "Usage: widget [OPTIONS] FILE\n\n" +
	"Options:\n" +
	"  -v, --verbose       enable verbose output\n" +
	"  -o, --output FILE   write to FILE. Conflicts with --verbose.\n" +
	"  -f, --format FMT    one of: json, yaml or text\n" +
	"\n" +
	"Commands:\n" +
	"  init    initialize a new project\n" +
	"  build   build the project\n"

func TestExtractEndToEndGNUDialect(t *testing.T) {
	schema, rep := Extract("widget", gnuHelpText, DefaultOptions())

	require.True(t, rep.Success)
	require.True(t, rep.AcceptedForSuggestions)
	require.Equal(t, "widget", schema.Command)
	require.Len(t, schema.GlobalFlags, 3)
	require.Len(t, schema.Subcommands, 2)

	var foundOutput, foundFormat bool
	for _, f := range schema.GlobalFlags {
		switch f.Long {
		case "output":
			foundOutput = true
			require.Contains(t, f.ConflictsWith, "--verbose")
		case "format":
			foundFormat = true
			require.Equal(t, "Choice", string(f.ValueType.Kind))
			require.ElementsMatch(t, []string{"json", "yaml", "text"}, f.ValueType.Choices)
		}
	}
	require.True(t, foundOutput)
	require.True(t, foundFormat)
}

func TestExtractEmptyTextIsParseFailed(t *testing.T) {
	_, rep := Extract("widget", "", DefaultOptions())
	require.False(t, rep.Success)
	require.Equal(t, quality.FailureParseFailed, rep.FailureCode)
}

func TestBatchReturnsResultsSortedByCommandName(t *testing.T) {
	items := []BatchItem{
		{Command: "zebra", Text: gnuHelpText},
		{Command: "alpha", Text: gnuHelpText},
		{Command: "mango", Text: gnuHelpText},
	}

	results, err := Batch(context.Background(), nil, items, nil, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, []string{"alpha", "mango", "zebra"}, []string{results[0].Command, results[1].Command, results[2].Command})
}

func TestBatchWithTextItemsSkipsProbingEntirely(t *testing.T) {
	items := []BatchItem{{Command: "widget", Text: gnuHelpText}}

	results, err := Batch(context.Background(), nil, items, nil, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Report.Success)
	require.Len(t, results[0].Schema.GlobalFlags, 3)
}

func TestBatchInstalledOnlyWithoutTextFailsToExtract(t *testing.T) {
	opts := DefaultOptions()
	opts.InstalledOnly = true
	items := []BatchItem{{Command: "nonexistent-tool"}}

	results, err := Batch(context.Background(), nil, items, nil, opts)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.False(t, results[0].Report.Success)
	require.Equal(t, quality.FailureParseFailed, results[0].Report.FailureCode)
}
