// Package probe implements the Probe Driver: it runs a live executable
// through a fixed sequence of help-invocation flags, capturing and
// sanitizing its output for the rest of the pipeline, per spec.md §4.8.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Mode is one help-invocation the driver tries, in order.
type Mode string

const (
	ModeHelpFlag    Mode = "--help"
	ModeShortHelp   Mode = "-h"
	ModeHelpWord    Mode = "help"
	ModeHelpAllFlag Mode = "--help-all"
)

// sequence is the strict, fixed probe order from spec.md §4.8: stop at
// the first accepted attempt.
var sequence = []Mode{ModeHelpFlag, ModeShortHelp, ModeHelpWord, ModeHelpAllFlag}

// maxOutputBytes caps each captured stream to guard against runaway
// output; anything beyond this is discarded with a truncation warning.
const maxOutputBytes = 1 << 20 // 1 MiB

// DefaultTimeout is the wall-clock budget for a single invocation.
const DefaultTimeout = 3 * time.Second

// ProbeAttemptReport records one invocation attempt for the ExtractionReport.
type ProbeAttemptReport struct {
	ID          string
	Mode        Mode
	ExitCode    int
	Accepted    bool
	Truncated   bool
	Source      string // "stdout" or "stderr": which stream the accepted text came from
	Duration    time.Duration
	Error       string
}

// Result is the outcome of probing one command.
type Result struct {
	Command  string
	Text     string
	Accepted bool
	Attempts []ProbeAttemptReport
	Warnings []string
}

// PermissionPredicate lets callers classify an exec error as a permission
// failure (e.g. wrapping os.IsPermission plus platform-specific checks)
// rather than a generic non-zero exit.
type PermissionPredicate func(err error) bool

// DefaultPermissionPredicate recognizes the standard library's permission
// and "not executable" error classes.
func DefaultPermissionPredicate(err error) bool {
	if err == nil {
		return false
	}
	return os.IsPermission(err) || strings.Contains(err.Error(), "permission denied")
}

// Driver runs probe attempts against resolved executables.
type Driver struct {
	logger     *logrus.Logger
	timeout    time.Duration
	permission PermissionPredicate
}

// New creates a Driver. A nil logger falls back to a discard logger so
// probing is safe to use without ambient logging configured.
func New(logger *logrus.Logger, timeout time.Duration, permission PermissionPredicate) *Driver {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if permission == nil {
		permission = DefaultPermissionPredicate
	}
	return &Driver{logger: logger, timeout: timeout, permission: permission}
}

// NotInstalledError is returned when the command cannot be resolved on PATH.
type NotInstalledError struct{ Command string }

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("%q not found on PATH", e.Command)
}

// Probe resolves command on PATH and tries each mode in sequence until one
// is accepted or the sequence is exhausted.
func (d *Driver) Probe(ctx context.Context, command string, args ...string) (Result, error) {
	path, err := exec.LookPath(command)
	if err != nil {
		return Result{Command: command}, &NotInstalledError{Command: command}
	}

	res := Result{Command: command}
	for _, mode := range sequence {
		attempt, text, _ := d.run(ctx, path, mode, args)
		res.Attempts = append(res.Attempts, attempt)
		if attempt.Truncated {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s output truncated at %d bytes", mode, maxOutputBytes))
		}
		if attempt.Accepted {
			res.Accepted = true
			res.Text = text
			return res, nil
		}
	}
	return res, nil
}

func (d *Driver) run(ctx context.Context, path string, mode Mode, extraArgs []string) (ProbeAttemptReport, string, string) {
	id := uuid.NewString()
	start := time.Now()

	cctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var cmdArgs []string
	cmdArgs = append(cmdArgs, extraArgs...)
	cmdArgs = append(cmdArgs, string(mode))

	cmd := exec.CommandContext(cctx, path, cmdArgs...)
	cmd.Env = scrubbedEnv()
	cmd.Stdin = nil

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &cappedWriter{buf: &stdout, limit: maxOutputBytes}
	cmd.Stderr = &cappedWriter{buf: &stderr, limit: maxOutputBytes}

	err := cmd.Run()
	duration := time.Since(start)

	report := ProbeAttemptReport{ID: id, Mode: mode, Duration: duration}

	if cctx.Err() == context.DeadlineExceeded {
		report.Error = "timed out"
		return report, "", ""
	}
	if err != nil && d.permission(err) {
		report.Error = "permission denied"
		return report, "", ""
	}

	exitCode := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		report.Error = err.Error()
		return report, "", ""
	}
	report.ExitCode = exitCode

	outText := stripANSI(stdout.String())
	errText := stripANSI(stderr.String())

	truncated := stdout.Len() >= maxOutputBytes || stderr.Len() >= maxOutputBytes
	report.Truncated = truncated

	if looksLikeHelp(outText) {
		report.Accepted = true
		report.Source = "stdout"
		return report, outText, "stdout"
	}
	if looksLikeHelp(errText) {
		report.Accepted = true
		report.Source = "stderr"
		return report, errText, "stderr"
	}
	if exitCode == 0 {
		report.Accepted = true
		report.Source = "stdout"
		return report, outText, "stdout"
	}
	return report, "", ""
}

// scrubbedEnv returns a fresh environment with interactive-session and
// pager/color variables removed, plus a fixed terminal width so wrapping
// is deterministic across machines.
func scrubbedEnv() []string {
	var out []string
	for _, kv := range os.Environ() {
		key := kv
		if i := strings.IndexByte(kv, '='); i >= 0 {
			key = kv[:i]
		}
		switch strings.ToUpper(key) {
		case "TERM", "COLORTERM", "PAGER", "CLICOLOR", "CLICOLOR_FORCE", "FORCE_COLOR", "NO_COLOR":
			continue
		}
		out = append(out, kv)
	}
	out = append(out, "COLUMNS=80", "TERM=dumb", "NO_COLOR=1")
	return out
}

var ansiRe = regexp.MustCompile("\x1b\\[[0-9;]*[a-zA-Z]")

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

// usageIndicatorRe recognizes the first 200 lines' worth of text as
// plausible help output: a usage line or an options-style header.
var usageIndicatorRe = regexp.MustCompile(`(?im)^\s*(usage|synopsis)\s*:|^\s*(options|commands|flags)\s*:?\s*$`)

const helpScanLineLimit = 200

// looksLikeHelp applies the accept heuristic from spec.md §4.8: a usage
// line or an options/commands header within the first 200 lines.
func looksLikeHelp(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	lines := strings.SplitN(text, "\n", helpScanLineLimit+1)
	if len(lines) > helpScanLineLimit {
		lines = lines[:helpScanLineLimit]
	}
	return usageIndicatorRe.MatchString(strings.Join(lines, "\n"))
}

// cappedWriter discards bytes beyond limit while reporting all writes as
// successful, so an over-eager child process doesn't block or fail.
type cappedWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *cappedWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		w.buf.Write(p[:remaining])
	} else {
		w.buf.Write(p)
	}
	return len(p), nil
}
