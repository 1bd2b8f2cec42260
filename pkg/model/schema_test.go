package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChoiceDedupesAndPreservesOrder(t *testing.T) {
	vt := Choice([]string{" json ", "yaml", "json", "", "toml"})
	require.Equal(t, KindChoice, vt.Kind)
	require.Equal(t, []string{"json", "yaml", "toml"}, vt.Choices)
}

func TestChoiceFallsBackToAnyBelowTwoAlternatives(t *testing.T) {
	require.Equal(t, Any(), Choice([]string{"only"}))
	require.Equal(t, Any(), Choice(nil))
}

func TestSpecificityOrdersChoiceAboveConcreteAboveAny(t *testing.T) {
	require.Less(t, Any().Specificity(), String().Specificity())
	require.Less(t, String().Specificity(), Choice([]string{"a", "b"}).Specificity())
}

func TestFlagSchemaValid(t *testing.T) {
	cases := []struct {
		name string
		f    FlagSchema
		want bool
	}{
		{"no forms", FlagSchema{ValueType: Bool()}, false},
		{"bool with value", FlagSchema{Long: "verbose", ValueType: Bool(), TakesValue: true}, false},
		{"non-bool without value", FlagSchema{Long: "file", ValueType: String(), TakesValue: false}, false},
		{"valid bool", FlagSchema{Long: "verbose", ValueType: Bool()}, true},
		{"valid string", FlagSchema{Long: "file", ValueType: String(), TakesValue: true}, true},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.f.Valid(), c.name)
	}
}

func TestFlagSchemaID(t *testing.T) {
	require.Equal(t, "--verbose", FlagSchema{Short: "v", Long: "verbose"}.ID())
	require.Equal(t, "-v", FlagSchema{Short: "v"}.ID())
	require.Equal(t, "", FlagSchema{}.ID())
}

func TestNormalizeSortsFlagsAndSubcommandsDeterministically(t *testing.T) {
	c := &CommandSchema{
		GlobalFlags: []FlagSchema{
			{Long: "verbose", Short: "v", ValueType: Bool()},
			{Long: "all", Short: "a", ValueType: Bool()},
		},
		Subcommands: []SubcommandSchema{
			{Name: "init", Aliases: []string{"i"}},
			{Name: "build", Aliases: []string{"b", "compile"}},
		},
	}
	c.Normalize()

	require.Equal(t, "all", c.GlobalFlags[0].Long)
	require.Equal(t, "verbose", c.GlobalFlags[1].Long)
	require.Equal(t, "build", c.Subcommands[0].Name)
	require.Equal(t, "init", c.Subcommands[1].Name)
	require.Equal(t, []string{"b", "compile"}, c.Subcommands[0].Aliases)
}

func TestValidateFlagsMissingBothForms(t *testing.T) {
	c := &CommandSchema{GlobalFlags: []FlagSchema{{ValueType: Bool()}}}
	errs := Validate(c)
	require.Len(t, errs, 1)
	require.Equal(t, "global", errs[0].Scope)
}

func TestValidateDuplicateLongForm(t *testing.T) {
	c := &CommandSchema{
		GlobalFlags: []FlagSchema{
			{Long: "verbose", ValueType: Bool()},
			{Long: "verbose", Short: "v", ValueType: Bool()},
		},
	}
	errs := Validate(c)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Reason, "duplicate long form")
}

func TestValidateConflictsWithReferencesUndeclaredFlag(t *testing.T) {
	c := &CommandSchema{
		GlobalFlags: []FlagSchema{
			{Long: "quiet", ValueType: Bool(), ConflictsWith: []string{"--verbose"}},
			{Long: "verbose", ValueType: Bool()},
		},
	}
	require.Empty(t, Validate(c))

	c.GlobalFlags[0].ConflictsWith = []string{"--nonexistent"}
	errs := Validate(c)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Reason, "conflicts_with")
}

func TestValidateSubcommandSeesInheritedGlobalFlags(t *testing.T) {
	c := &CommandSchema{
		GlobalFlags: []FlagSchema{{Long: "verbose", ValueType: Bool()}},
		Subcommands: []SubcommandSchema{
			{
				Name:  "build",
				Flags: []FlagSchema{{Long: "output", ValueType: String(), TakesValue: true, Requires: []string{"--verbose"}}},
			},
		},
	}
	require.Empty(t, Validate(c))
}

func TestDiscardRemovesInvalidFlagsRecursively(t *testing.T) {
	c := &CommandSchema{
		GlobalFlags: []FlagSchema{
			{Long: "verbose", ValueType: Bool()},
			{ValueType: Bool()}, // invalid: no forms
		},
		Subcommands: []SubcommandSchema{
			{
				Name: "build",
				Flags: []FlagSchema{
					{Long: "output", ValueType: String(), TakesValue: true},
					{Long: "bad", ValueType: Bool(), TakesValue: true},
				},
			},
		},
	}
	Discard(c)
	require.Len(t, c.GlobalFlags, 1)
	require.Equal(t, "verbose", c.GlobalFlags[0].Long)
	require.Len(t, c.Subcommands[0].Flags, 1)
	require.Equal(t, "output", c.Subcommands[0].Flags[0].Long)
}
