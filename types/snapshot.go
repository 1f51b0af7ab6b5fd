package types

// Snapshot is the flat structure exchanged with persistence providers.
// The search index is never part of it.
type Snapshot struct {
	Foods []Food `json:"foods" bson:"foods"`
	Meals []Meal `json:"meals" bson:"meals"`
}
