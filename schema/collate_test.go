package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustField(t *testing.T, name string, ix Indexing) FieldSpec {
	t.Helper()
	spec, err := ParseField(name, ix)
	require.NoError(t, err)
	return spec
}

func paths(g IndexGroup) []string {
	out := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		out = append(out, m.Path())
	}
	return out
}

func TestCollate_IndependentFields(t *testing.T) {
	groups := collate([]FieldSpec{
		mustField(t, "a", Indexing{}),
		mustField(t, "b", Indexing{Unique: true}),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"a"}, paths(groups[0]))
	assert.False(t, groups[0].Unique)
	assert.Equal(t, []string{"b"}, paths(groups[1]))
	assert.True(t, groups[1].Unique)
}

func TestCollate_LinkedFields(t *testing.T) {
	t.Run("ordered by link order", func(t *testing.T) {
		groups := collate([]FieldSpec{
			mustField(t, "city", Indexing{Link: "place", Order: 1}),
			mustField(t, "country", Indexing{Link: "place", Order: 0}),
		})
		require.Len(t, groups, 1)
		assert.Equal(t, []string{"country", "city"}, paths(groups[0]))
		assert.Equal(t, "place", groups[0].Link)
	})

	t.Run("ties keep declaration order", func(t *testing.T) {
		groups := collate([]FieldSpec{
			mustField(t, "x", Indexing{Link: "l", Order: 1}),
			mustField(t, "b", Indexing{Link: "l"}),
			mustField(t, "a", Indexing{Link: "l"}),
			mustField(t, "y", Indexing{Link: "l", Order: 1}),
		})
		require.Len(t, groups, 1)
		assert.Equal(t, []string{"b", "a", "x", "y"}, paths(groups[0]))
	})

	t.Run("first occurrence opens a group", func(t *testing.T) {
		groups := collate([]FieldSpec{
			mustField(t, "solo", Indexing{Link: "only"}),
		})
		require.Len(t, groups, 1)
		assert.Equal(t, []string{"solo"}, paths(groups[0]))
	})

	t.Run("unique is or-ed", func(t *testing.T) {
		groups := collate([]FieldSpec{
			mustField(t, "a", Indexing{Link: "l"}),
			mustField(t, "b", Indexing{Link: "l", Unique: true}),
			mustField(t, "c", Indexing{Link: "l"}),
		})
		require.Len(t, groups, 1)
		assert.True(t, groups[0].Unique)
	})

	t.Run("last declared options win", func(t *testing.T) {
		groups := collate([]FieldSpec{
			mustField(t, "a", Indexing{Link: "l", Name: "first", ICaseLocale: "fr", ICaseStrength: ptr(1)}),
			mustField(t, "b", Indexing{Link: "l", Order: 2, Name: "second"}),
			mustField(t, "c", Indexing{Link: "l", Order: 1, ICaseLocale: "de"}),
		})
		require.Len(t, groups, 1)
		assert.Equal(t, "second", groups[0].Name)
		assert.Equal(t, &CaseInsensitivity{Locale: "fr", Strength: CollationPrimary}, groups[0].CaseInsensitivity)
	})

	t.Run("filter and geo are overwritten", func(t *testing.T) {
		groups := collate([]FieldSpec{
			mustField(t, "a", Indexing{Link: "l", PFE: `{"a": 1}`, TwoD: TwoDCartesian}),
			mustField(t, "b", Indexing{Link: "l", Order: 1, PFE: `{"b": 1}`, TwoD: TwoDSpherical}),
		})
		require.Len(t, groups, 1)
		assert.Equal(t, "b", groups[0].Filter[0].Key)
		assert.Equal(t, GeoSpherical, groups[0].Geo.Kind)
	})
}

func TestCollate_GroupOrder(t *testing.T) {
	groups := collate([]FieldSpec{
		mustField(t, "country", Indexing{Link: "place"}),
		mustField(t, "username", Indexing{}),
		mustField(t, "city", Indexing{Link: "place", Order: 1}),
		mustField(t, "title", Indexing{Link: "search", TextWeight: ptr(uint32(2))}),
	})

	require.Len(t, groups, 3)
	assert.Equal(t, []string{"country", "city"}, paths(groups[0]))
	assert.Equal(t, []string{"username"}, paths(groups[1]))
	assert.Equal(t, []string{"title"}, paths(groups[2]))
}
