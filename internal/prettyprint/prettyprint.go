// Package prettyprint renders an ExtractionReport as human-readable
// terminal output: a tier badge, the confidence, a fixed-width coverage
// bar, and the selected format, in the CLI's default (non-JSON) output
// mode. Width reports the detected terminal width for other callers.
package prettyprint

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/mattsolo1/helpctl/pkg/quality"
)

const (
	maxWidth = 72
	minWidth = 40
)

var (
	green  = lipgloss.Color("42")
	yellow = lipgloss.Color("214")
	red    = lipgloss.Color("196")
	gray   = lipgloss.Color("244")
	cyan   = lipgloss.Color("44")

	bold = lipgloss.NewStyle().Bold(true)
	dim  = lipgloss.NewStyle().Foreground(gray)
)

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth {
		return maxWidth
	}
	if width > maxWidth {
		return maxWidth
	}
	return width
}

func tierStyle(t quality.Tier) lipgloss.Style {
	switch t {
	case quality.TierHigh:
		return lipgloss.NewStyle().Bold(true).Foreground(green)
	case quality.TierMedium:
		return lipgloss.NewStyle().Bold(true).Foreground(yellow)
	case quality.TierLow:
		return lipgloss.NewStyle().Bold(true).Foreground(red)
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(gray)
	}
}

// Report renders one ExtractionReport as a short, colored terminal
// summary: command name, tier badge, confidence/coverage bar, warnings.
func Report(rep quality.ExtractionReport) string {
	var b strings.Builder

	badge := tierStyle(rep.Tier).Render(fmt.Sprintf(" %s ", strings.ToUpper(string(rep.Tier))))
	fmt.Fprintf(&b, "%s %s\n", bold.Render(rep.Command), badge)

	if !rep.Success {
		fmt.Fprintf(&b, "  %s %s\n", dim.Render("failed:"), string(rep.FailureCode))
		if rep.FailureDetail != "" {
			fmt.Fprintf(&b, "  %s\n", dim.Render(rep.FailureDetail))
		}
		return b.String()
	}

	fmt.Fprintf(&b, "  confidence %s  coverage %s\n",
		lipgloss.NewStyle().Foreground(cyan).Render(fmt.Sprintf("%.2f", rep.Confidence)),
		bar(rep.Coverage, 20))

	if rep.SelectedFormat != "" {
		fmt.Fprintf(&b, "  %s %s\n", dim.Render("format:"), rep.SelectedFormat)
	}

	if len(rep.Warnings) > 0 {
		fmt.Fprintf(&b, "  %s %d\n", dim.Render("warnings:"), len(rep.Warnings))
	}
	if len(rep.ValidationErrors) > 0 {
		fmt.Fprintf(&b, "  %s %d\n", dim.Render("validation errors:"), len(rep.ValidationErrors))
	}

	return b.String()
}

// bar renders a fixed-width coverage/confidence bar, e.g. "[=======   ] 70%".
func bar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float64(width))
	style := lipgloss.NewStyle().Foreground(green)
	if fraction < 0.75 {
		style = lipgloss.NewStyle().Foreground(yellow)
	}
	if fraction < 0.45 {
		style = lipgloss.NewStyle().Foreground(red)
	}
	filledPart := style.Render(strings.Repeat("=", filled))
	emptyPart := dim.Render(strings.Repeat(" ", width-filled))
	return fmt.Sprintf("[%s%s] %d%%", filledPart, emptyPart, int(fraction*100))
}

// Width exposes the computed terminal width for callers that need to wrap
// other text (e.g. long descriptions) consistently with this package.
func Width() int {
	return terminalWidth()
}
