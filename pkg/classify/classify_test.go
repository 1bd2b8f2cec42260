package classify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeStripsANSIAndExpandsTabs(t *testing.T) {
	raw := "\x1b[1mUsage:\x1b[0m\tfoo\r\nbar\r"
	got := Normalize(raw)
	require.NotContains(t, got, "\x1b")
	require.NotContains(t, got, "\r")
	require.Contains(t, got, "Usage:")
}

func TestClassifyUsageLine(t *testing.T) {
	lines := Classify("Usage: widget [OPTIONS] FILE\n")
	require.Len(t, lines, 1)
	require.Equal(t, KindUsageLine, lines[0].Kind)
}

func TestClassifySectionHeaderAndFlagLines(t *testing.T) {
	text := "OPTIONS:\n  -v, --verbose    enable verbose output\n  -o FILE          write to FILE\n"
	lines := Classify(text)
	require.Equal(t, KindSectionHeader, lines[0].Kind)
	require.Equal(t, KindFlagLine, lines[1].Kind)
	require.Equal(t, "OPTIONS", lines[1].Section)
	require.Equal(t, KindFlagLine, lines[2].Kind)
}

func TestClassifySubcommandSection(t *testing.T) {
	text := "Commands:\n  init    initialize a new project\n  build   build the project\n"
	lines := Classify(text)
	require.Equal(t, KindSectionHeader, lines[0].Kind)
	require.Equal(t, KindSubcommand, lines[1].Kind)
	require.Equal(t, KindSubcommand, lines[2].Kind)
}

func TestClassifyBlankLineResetsContinuation(t *testing.T) {
	text := "OPTIONS:\n  -v, --verbose\n\n  this line is not a continuation\n"
	lines := Classify(text)
	require.Equal(t, KindBlank, lines[2].Kind)
	require.NotEqual(t, KindContinuation, lines[3].Kind)
}

func TestRelevantExcludesBlankAndOther(t *testing.T) {
	require.False(t, Relevant(KindBlank))
	require.False(t, Relevant(KindOther))
	require.True(t, Relevant(KindFlagLine))
	require.True(t, Relevant(KindUsageLine))
}
