package merge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/helpctl/pkg/detect"
	"github.com/mattsolo1/helpctl/pkg/model"
	"github.com/mattsolo1/helpctl/pkg/strategy"
)

func TestMergeFlagPrefersDescriptionOverNoDescription(t *testing.T) {
	contributions := []Contribution{
		{
			Format:   detect.FormatGeneric,
			Priority: 10,
			Partial: strategy.PartialSchema{
				Flags: []model.FlagSchema{{Long: "verbose", ValueType: model.Bool()}},
			},
		},
		{
			Format:   detect.FormatGNU,
			Priority: 5,
			Partial: strategy.PartialSchema{
				Flags: []model.FlagSchema{{Long: "verbose", ValueType: model.Bool(), Description: "enable verbose output"}},
			},
		},
	}

	r := Merge(contributions)
	require.Len(t, r.Flags, 1)
	require.Equal(t, "enable verbose output", r.Flags[0].Description)
}

func TestMergeFlagPrefersMoreSpecificValueType(t *testing.T) {
	contributions := []Contribution{
		{
			Format:   detect.FormatGNU,
			Priority: 1,
			Partial: strategy.PartialSchema{
				Flags: []model.FlagSchema{{Long: "format", ValueType: model.String(), TakesValue: true}},
			},
		},
		{
			Format:   detect.FormatGeneric,
			Priority: 99,
			Partial: strategy.PartialSchema{
				Flags: []model.FlagSchema{{Long: "format", ValueType: model.Choice([]string{"json", "yaml"}), TakesValue: true}},
			},
		},
	}

	r := Merge(contributions)
	require.Len(t, r.Flags, 1)
	require.Equal(t, model.KindChoice, r.Flags[0].ValueType.Kind)
}

func TestMergeFlagFallsBackToHigherPriorityOnTie(t *testing.T) {
	contributions := []Contribution{
		{
			Format:   detect.FormatGeneric,
			Priority: 10,
			Partial: strategy.PartialSchema{
				Flags: []model.FlagSchema{{Long: "format", Short: "", ValueType: model.String(), TakesValue: true}},
			},
		},
		{
			Format:   detect.FormatGNU,
			Priority: 1,
			Partial: strategy.PartialSchema{
				Flags: []model.FlagSchema{{Long: "format", Short: "f", ValueType: model.String(), TakesValue: true}},
			},
		},
	}

	r := Merge(contributions)
	require.Len(t, r.Flags, 1)
	require.Equal(t, "f", r.Flags[0].Short)
}

func TestMergeFlagUnionsConflictsWithAndRequires(t *testing.T) {
	contributions := []Contribution{
		{
			Format:   detect.FormatGeneric,
			Priority: 10,
			Partial: strategy.PartialSchema{
				Flags: []model.FlagSchema{{Long: "output", ValueType: model.String(), TakesValue: true, ConflictsWith: []string{"--quiet"}}},
			},
		},
		{
			Format:   detect.FormatGNU,
			Priority: 1,
			Partial: strategy.PartialSchema{
				Flags: []model.FlagSchema{{Long: "output", ValueType: model.String(), TakesValue: true, Description: "write output", Requires: []string{"--verbose"}}},
			},
		},
	}

	r := Merge(contributions)
	require.Len(t, r.Flags, 1)
	require.Contains(t, r.Flags[0].ConflictsWith, "--quiet")
	require.Contains(t, r.Flags[0].Requires, "--verbose")
	require.Equal(t, "write output", r.Flags[0].Description)
}

func TestMergeSubcommandsMatchByNameAndAlias(t *testing.T) {
	contributions := []Contribution{
		{
			Format:   detect.FormatGNU,
			Priority: 1,
			Partial: strategy.PartialSchema{
				Subcommands: []model.SubcommandSchema{
					{Name: "build", Aliases: []string{"b"}},
				},
			},
		},
		{
			Format:   detect.FormatGeneric,
			Priority: 10,
			Partial: strategy.PartialSchema{
				Subcommands: []model.SubcommandSchema{
					{Name: "b", Description: "builds the project"},
					{Name: "init"},
				},
			},
		},
	}

	r := Merge(contributions)
	require.Len(t, r.Subcommands, 2)
	require.Equal(t, "build", r.Subcommands[0].Name)
	require.Equal(t, "builds the project", r.Subcommands[0].Description)
	require.Equal(t, "init", r.Subcommands[1].Name)
}

func TestMergeTracksContributorsAndManRawFlag(t *testing.T) {
	contributions := []Contribution{
		{
			Format:   detect.FormatManRaw,
			Priority: 0,
			Partial: strategy.PartialSchema{
				Flags: []model.FlagSchema{{Long: "verbose", ValueType: model.Bool()}},
			},
		},
		{
			Format:   detect.FormatGNU,
			Priority: 1,
			Partial:  strategy.PartialSchema{},
		},
	}

	r := Merge(contributions)
	require.True(t, r.ManRawContributed)
	require.Contains(t, r.Contributors, detect.FormatManRaw)
	require.NotContains(t, r.Contributors, detect.FormatGNU)
}

func TestMergeDescriptionTakesFirstNonEmptyInPriorityOrder(t *testing.T) {
	contributions := []Contribution{
		{
			Format:   detect.FormatGeneric,
			Priority: 10,
			Partial:  strategy.PartialSchema{Description: "from generic"},
		},
		{
			Format:   detect.FormatGNU,
			Priority: 1,
			Partial:  strategy.PartialSchema{Description: "from gnu"},
		},
	}

	r := Merge(contributions)
	require.Equal(t, "from gnu", r.Description)
}
