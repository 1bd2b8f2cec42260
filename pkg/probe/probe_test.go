package probe

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLooksLikeHelpRecognizesUsageLine(t *testing.T) {
	require.True(t, looksLikeHelp("Usage: widget [OPTIONS]\n\nOptions:\n  -v  verbose\n"))
}

func TestLooksLikeHelpRecognizesSynopsis(t *testing.T) {
	require.True(t, looksLikeHelp("NAME\n  widget\n\nSYNOPSIS:\n  widget [OPTIONS]\n"))
}

func TestLooksLikeHelpRejectsEmptyOrUnrelatedText(t *testing.T) {
	require.False(t, looksLikeHelp(""))
	require.False(t, looksLikeHelp("   \n\n  "))
	require.False(t, looksLikeHelp("just some ordinary stdout with no help markers at all"))
}

func TestLooksLikeHelpOnlyScansFirstLines(t *testing.T) {
	var b strings.Builder
	for i := 0; i < helpScanLineLimit+50; i++ {
		b.WriteString("filler line\n")
	}
	b.WriteString("Usage: widget [OPTIONS]\n")
	require.False(t, looksLikeHelp(b.String()))
}

func TestStripANSIRemovesEscapeCodes(t *testing.T) {
	got := stripANSI("\x1b[1mUsage:\x1b[0m widget")
	require.Equal(t, "Usage: widget", got)
}

func TestScrubbedEnvRemovesInteractiveVarsAndSetsDeterministicOnes(t *testing.T) {
	env := scrubbedEnv()
	var hasColumns, hasTerm, hasNoColor bool
	for _, kv := range env {
		require.False(t, strings.HasPrefix(strings.ToUpper(kv), "PAGER="))
		require.False(t, strings.HasPrefix(strings.ToUpper(kv), "CLICOLOR="))
		switch kv {
		case "COLUMNS=80":
			hasColumns = true
		case "TERM=dumb":
			hasTerm = true
		case "NO_COLOR=1":
			hasNoColor = true
		}
	}
	require.True(t, hasColumns)
	require.True(t, hasTerm)
	require.True(t, hasNoColor)
}

func TestDefaultPermissionPredicate(t *testing.T) {
	require.False(t, DefaultPermissionPredicate(nil))
	require.True(t, DefaultPermissionPredicate(os.ErrPermission))
	require.True(t, DefaultPermissionPredicate(errors.New("exec: permission denied")))
	require.False(t, DefaultPermissionPredicate(errors.New("not found")))
}
