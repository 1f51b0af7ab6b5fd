// Package search resolves food names to ids through an exact-match map
// and serves autocomplete suggestions from a prefix trie.
// The index is a projection of the store's foods and is always rebuilt whole.
package search

import (
	"github.com/rs/zerolog"

	"github.com/jd-116/fooddb/types"
)

// DefaultMaxResults is used when a search does not give a positive bound
const DefaultMaxResults = 10

// Index bundles the exact-match and autocomplete indexes
type Index struct {
	logger zerolog.Logger
	exact  map[string]types.FoodID
	trie   *PrefixTree
}

// New creates an empty index
func New(logger zerolog.Logger) *Index {
	return &Index{
		logger: logger,
		exact:  make(map[string]types.FoodID),
		trie:   NewPrefixTree(),
	}
}

// Reindex discards both indexes and rebuilds them from the given foods.
// When names collide, the exact-match entry keeps the last food.
func (i *Index) Reindex(foods []types.Food) {
	exact := make(map[string]types.FoodID, len(foods))
	trie := NewPrefixTree()
	for _, food := range foods {
		exact[food.Name] = food.ID
		trie.AddWord(food.Name)
	}

	i.exact = exact
	i.trie = trie
	i.logger.Debug().Int("food_count", len(foods)).Msg("rebuilt food search index")
}

// Lookup resolves an exact, case-sensitive name
func (i *Index) Lookup(name string) (types.FoodID, bool) {
	id, ok := i.exact[name]
	return id, ok
}

// Suggestions returns the autocomplete words for a prefix
func (i *Index) Suggestions(prefix string, maxResults int) []string {
	return i.trie.FuzzyMatches(prefix, boundOrDefault(maxResults))
}

// Search returns the exact match (relevance 1) first, if any,
// followed by every prefix match (relevance 0) in trie order.
// The exact match also appears among the prefix matches.
func (i *Index) Search(name string, maxResults int) []types.FoodSearchResult {
	results := []types.FoodSearchResult{}

	if id, ok := i.exact[name]; ok {
		results = append(results, types.FoodSearchResult{
			ID:        id,
			Name:      name,
			Relevance: types.RelevanceExact,
		})
	}

	for _, word := range i.trie.FuzzyMatches(name, boundOrDefault(maxResults)) {
		id, ok := i.exact[word]
		if !ok {
			i.logger.Warn().Str("word", word).Msg("autocomplete word has no exact-match entry; skipping")
			continue
		}

		results = append(results, types.FoodSearchResult{
			ID:        id,
			Name:      word,
			Relevance: types.RelevancePrefix,
		})
	}

	return results
}

// Len is the number of indexed names
func (i *Index) Len() int {
	return i.trie.Len()
}

func boundOrDefault(maxResults int) int {
	if maxResults <= 0 {
		return DefaultMaxResults
	}
	return maxResults
}
