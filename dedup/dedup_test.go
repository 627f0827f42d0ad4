package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kunstquiz/config"
	"kunstquiz/types"
)

func rec(artist, title, url string) types.Record {
	return types.Record{"artist": artist, "title": title, "url": url}
}

func TestGroupByURL(t *testing.T) {
	records := []types.Record{
		rec("Munch", "Skrik", "http://x/a.jpg"),
		rec("Munch", "The Scream", "http://x/a.jpg"),
		rec("Dahl", "Bjerk i storm", "http://x/b.jpg"),
	}

	groups, err := Group(records, config.StrategyURL)
	require.NoError(t, err)

	assert.Len(t, groups, 2)
	assert.Len(t, groups["http://x/a.jpg"], 2)
	assert.Len(t, groups["http://x/b.jpg"], 1)
}

func TestGroupByURLSkipsEmptyURLs(t *testing.T) {
	records := []types.Record{
		rec("Munch", "Skrik", ""),
		rec("Dahl", "Stalheim", ""),
	}

	groups, err := Group(records, config.StrategyURL)
	require.NoError(t, err)

	// Empty urls are never treated as duplicates of each other.
	assert.Empty(t, groups)
}

func TestGroupByTitleNormalizes(t *testing.T) {
	records := []types.Record{
		rec("Munch", "  The Scream ", "http://x/a.jpg"),
		rec("Munch", "the scream", "http://x/b.jpg"),
	}

	groups, err := Group(records, config.StrategyTitle)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Len(t, groups["the scream"], 2)
}

func TestGroupByExactIsCaseSensitive(t *testing.T) {
	records := []types.Record{
		rec("Munch", "The Scream", "http://x/a.jpg"),
		rec("Munch", "the scream", "http://x/a.jpg"),
	}

	groups, err := Group(records, config.StrategyExact)
	require.NoError(t, err)

	// Different case means different keys under the exact strategy.
	assert.Len(t, groups, 2)
}

func TestGroupUnknownStrategy(t *testing.T) {
	_, err := Group([]types.Record{rec("a", "b", "c")}, "fuzzy")
	assert.Error(t, err)
}

func TestDeduplicateKeepsFirstInSourceOrder(t *testing.T) {
	records := []types.Record{
		rec("Munch", "Skrik", "http://x/a.jpg"),
		rec("Munch", "The Scream", "http://x/a.jpg"),
		rec("Dahl", "Stalheim", "http://x/b.jpg"),
	}

	result, err := Deduplicate(records, Options{Strategy: config.StrategyURL})
	require.NoError(t, err)

	require.Len(t, result.Survivors, 2)
	assert.Equal(t, "Skrik", result.Survivors[0].Title())
	assert.Equal(t, "Stalheim", result.Survivors[1].Title())
	require.Len(t, result.Removed, 1)
	assert.Equal(t, "The Scream", result.Removed[0].Title())
	assert.Len(t, result.Groups, 1)
}

func TestDeduplicateEmptyURLAlwaysSurvives(t *testing.T) {
	records := []types.Record{
		rec("Munch", "Untitled I", ""),
		rec("Munch", "Untitled II", ""),
	}

	result, err := Deduplicate(records, Options{Strategy: config.StrategyURL})
	require.NoError(t, err)

	assert.Len(t, result.Survivors, 2)
	assert.Empty(t, result.Removed)
}

func TestDeduplicateSelfPortraitExemption(t *testing.T) {
	// Three records in one title group: two self-portraits and one
	// ordinary portrait. Both self-portraits plus the first other
	// record survive.
	records := []types.Record{
		rec("Edvard Munch", "Self-Portrait with Cigarette", "http://x/a.jpg"),
		rec("Christian Krohg", "Self-Portrait with Cigarette", "http://x/b.jpg"),
		rec("Anon", "Self-Portrait with Cigarette", "http://x/c.jpg"),
	}
	classifier := func(r types.Record) bool {
		return r.Artist() != "Anon"
	}

	result, err := Deduplicate(records, Options{
		Strategy:          config.StrategyTitle,
		KeepSelfPortraits: true,
		Classifier:        classifier,
	})
	require.NoError(t, err)

	assert.Len(t, result.Survivors, 3)
	assert.Empty(t, result.Removed)
}

func TestDeduplicateSelfPortraitKeepsOnlyFirstNonPortrait(t *testing.T) {
	records := []types.Record{
		rec("Edvard Munch", "Portrait", "http://x/a.jpg"),
		rec("Anon One", "Portrait", "http://x/b.jpg"),
		rec("Anon Two", "Portrait", "http://x/c.jpg"),
	}
	classifier := func(r types.Record) bool {
		return r.Artist() == "Edvard Munch"
	}

	result, err := Deduplicate(records, Options{
		Strategy:          config.StrategyTitle,
		KeepSelfPortraits: true,
		Classifier:        classifier,
	})
	require.NoError(t, err)

	require.Len(t, result.Survivors, 2)
	assert.Equal(t, "Edvard Munch", result.Survivors[0].Artist())
	assert.Equal(t, "Anon One", result.Survivors[1].Artist())
	require.Len(t, result.Removed, 1)
	assert.Equal(t, "Anon Two", result.Removed[0].Artist())
}

func TestRemoveArtist(t *testing.T) {
	records := []types.Record{
		rec("Edvard Munch", "Skrik", "http://x/a.jpg"),
		rec("  edvard munch ", "Madonna", "http://x/b.jpg"),
		rec("J.C. Dahl", "Stalheim", "http://x/c.jpg"),
	}

	kept, removed := RemoveArtist(records, "Edvard Munch")
	assert.Len(t, kept, 1)
	assert.Len(t, removed, 2)
}

func TestRemoveURLs(t *testing.T) {
	records := []types.Record{
		rec("Munch", "Skrik", "http://x/a.jpg"),
		rec("Munch", "Madonna", "http://x/b.TIF"),
		rec("Dahl", "Stalheim", "http://x/c.jpg"),
	}

	kept, removed := RemoveURLs(records, []string{"http://x/a.jpg"})
	// Listed url plus the TIF file.
	assert.Len(t, removed, 2)
	require.Len(t, kept, 1)
	assert.Equal(t, "Stalheim", kept[0].Title())
}

func TestCheckDuplicates(t *testing.T) {
	records := []types.Record{
		rec("Munch", "Skrik", "http://x/a.jpg"),
		rec("Munch", "Skrik", "http://x/a.jpg"),
		rec("Munch", "Skrik", "http://x/b.jpg"),
		rec("Dahl", "Stalheim", ""),
	}

	stats := CheckDuplicates(records)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.UniqueExactKeys)
	assert.Equal(t, 1, stats.ExactDuplicates)
	assert.Equal(t, map[string]int{"http://x/a.jpg": 2}, stats.URLDuplicates)
	assert.Equal(t, map[string]int{"Skrik": 3}, stats.TitleDuplicates)
}
