package search

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jd-116/fooddb/types"
)

func bootstrapFoods() []types.Food {
	names := []string{"Sugar", "splenda", "food"}
	foods := make([]types.Food, len(names))
	for i, name := range names {
		foods[i] = types.NewFood(types.FoodID(i))
		foods[i].Name = name
	}
	return foods
}

func newIndex(foods []types.Food) *Index {
	index := New(zerolog.Nop())
	index.Reindex(foods)
	return index
}

func TestSearchExactMatchFirst(t *testing.T) {
	index := newIndex(bootstrapFoods())

	results := index.Search("Sugar", 0)
	require.Len(t, results, 2)
	assert.Equal(t, types.FoodSearchResult{ID: 0, Name: "Sugar", Relevance: 1.0}, results[0])
	// The exact match is not removed from the prefix matches
	assert.Equal(t, types.FoodSearchResult{ID: 0, Name: "Sugar", Relevance: 0.0}, results[1])
}

func TestSearchIsCaseSensitiveForExactMatch(t *testing.T) {
	index := newIndex(bootstrapFoods())

	results := index.Search("sugar", 0)
	require.Len(t, results, 1)
	assert.Equal(t, types.RelevancePrefix, results[0].Relevance)
	assert.Equal(t, "Sugar", results[0].Name)
}

func TestSearchPrefix(t *testing.T) {
	index := newIndex(bootstrapFoods())

	results := index.Search("s", 0)
	names := []string{}
	for _, result := range results {
		assert.Equal(t, types.RelevancePrefix, result.Relevance)
		names = append(names, result.Name)
	}
	assert.ElementsMatch(t, []string{"Sugar", "splenda"}, names)

	assert.Empty(t, index.Search("xyz", 0))
}

func TestReindexIsIdempotent(t *testing.T) {
	foods := bootstrapFoods()
	index := newIndex(foods)

	queries := []string{"", "s", "Sugar", "food", "sp", "nothing"}
	before := map[string][]types.FoodSearchResult{}
	for _, query := range queries {
		before[query] = index.Search(query, 0)
	}

	index.Reindex(foods)
	for _, query := range queries {
		assert.Equal(t, before[query], index.Search(query, 0), query)
	}
}

func TestReindexReplacesPreviousContents(t *testing.T) {
	index := newIndex(bootstrapFoods())

	other := types.NewFood(0)
	other.Name = "Oats"
	index.Reindex([]types.Food{other})

	_, ok := index.Lookup("Sugar")
	assert.False(t, ok)
	id, ok := index.Lookup("Oats")
	assert.True(t, ok)
	assert.Equal(t, types.FoodID(0), id)
	assert.Equal(t, 1, index.Len())
}

func TestSearchSkipsStaleWords(t *testing.T) {
	index := newIndex(bootstrapFoods())
	delete(index.exact, "splenda")

	results := index.Search("s", 0)
	require.Len(t, results, 1)
	assert.Equal(t, "Sugar", results[0].Name)
}

func TestDuplicateNamesKeepLastExactEntry(t *testing.T) {
	foods := bootstrapFoods()
	dup := types.NewFood(3)
	dup.Name = "food"
	foods = append(foods, dup)
	index := newIndex(foods)

	id, ok := index.Lookup("food")
	require.True(t, ok)
	assert.Equal(t, types.FoodID(3), id)
	assert.Len(t, index.Suggestions("food", 0), 2)
}
