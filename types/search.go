package types

// Relevance values attached to search results
const (
	RelevanceExact  float32 = 1.0
	RelevancePrefix float32 = 0.0
)

// FoodSearchResult is a single match returned from a food search
type FoodSearchResult struct {
	ID        FoodID  `json:"id"`
	Name      string  `json:"name"`
	Relevance float32 `json:"relevance"`
}
