package strategy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/helpctl/pkg/classify"
	"github.com/mattsolo1/helpctl/pkg/detect"
	"github.com/mattsolo1/helpctl/pkg/model"
)

func TestGNUStrategyParsesFlagsAndSubcommands(t *testing.T) {
	text := "Usage: widget [OPTIONS] FILE\n\n" +
		"Options:\n" +
		"  -v, --verbose       enable verbose output\n" +
		"  -o, --output FILE   write to FILE. Conflicts with --verbose.\n" +
		"\n" +
		"Commands:\n" +
		"  init    initialize a new project\n" +
		"  build   build the project\n"

	lines := classify.Classify(text)
	p := gnuStrategy{}.Parse(lines)

	require.Len(t, p.Flags, 2)
	require.Len(t, p.Subcommands, 2)
	require.Equal(t, "init", p.Subcommands[0].Name)
	require.Equal(t, "build", p.Subcommands[1].Name)

	found := false
	for _, f := range p.Flags {
		if f.Long == "output" {
			found = true
			require.Contains(t, f.ConflictsWith, "--verbose")
			require.True(t, f.TakesValue)
			require.Equal(t, "FILE", f.Metavar)
		}
	}
	require.True(t, found)
}

func TestRegistryAndPriorityOf(t *testing.T) {
	require.Equal(t, detect.FormatManRaw, Registry[0].Format())
	require.Less(t, PriorityOf(detect.FormatManRaw), PriorityOf(detect.FormatGNU))
	require.Equal(t, len(Registry), PriorityOf(detect.Format("nonexistent")))
}

func TestParseFlagLineRecognizesChoiceMetavar(t *testing.T) {
	p := parseFlagLine("  --mode <auto|manual|off>   set the run mode")
	require.True(t, p.ok)
	require.Equal(t, "mode", p.long)
	require.Equal(t, []string{"auto", "manual", "off"}, p.choices)
	require.Equal(t, "set the run mode", p.description)
}

func TestGNUStrategyAssignsChoiceValueTypeForAlternationMetavar(t *testing.T) {
	text := "Usage: widget [OPTIONS]\n\n" +
		"Options:\n" +
		"  --mode <auto|manual|off>   set the run mode\n"

	lines := classify.Classify(text)
	p := gnuStrategy{}.Parse(lines)

	require.Len(t, p.Flags, 1)
	f := p.Flags[0]
	require.True(t, f.TakesValue)
	require.Equal(t, model.KindChoice, f.ValueType.Kind)
	require.ElementsMatch(t, []string{"auto", "manual", "off"}, f.ValueType.Choices)
}

func TestParseSubcommandLineAliasForms(t *testing.T) {
	sub, ok := parseSubcommandLine("build|b|compile  builds the project")
	require.True(t, ok)
	require.Equal(t, "build", sub.Name)
	require.Equal(t, []string{"b", "compile"}, sub.Aliases)

	sub, ok = parseSubcommandLine("build (b, compile)  builds the project")
	require.True(t, ok)
	require.Equal(t, "build", sub.Name)
	require.ElementsMatch(t, []string{"b", "compile"}, sub.Aliases)
}
