package types

import "strings"

// FoodID is the position of a food in the store
type FoodID int

// DefaultFoodMass is the canonical basis nutrition values are expressed against
const DefaultFoodMass = 100

// Ingredient is one (food, quantity) entry,
// used for recipe ingredients and meal logs
type Ingredient struct {
	FoodID   FoodID   `json:"food_id" bson:"food_id"`
	Quantity Quantity `json:"quantity" bson:"quantity"`
}

// Food is a catalog entry. Nutrition is always measured per
// 100 canonical units; Mass, VolumePer100 and ServingsPer100
// give that basis in each supported unit (zero when unknown).
type Food struct {
	ID           FoodID `json:"id" bson:"id"`
	Name         string `json:"name" bson:"name"`
	Manufacturer string `json:"manufacturer" bson:"manufacturer"`
	// Pipe-delimited, order is irrelevant
	Tags string `json:"tags" bson:"tags"`

	Nutrition      Nutrients `json:"nutrition" bson:"nutrition"`
	Mass           float64   `json:"mass" bson:"mass"`
	VolumePer100   float64   `json:"volume_per_100" bson:"volume_per_100"`
	ServingsPer100 float64   `json:"servings_per_100" bson:"servings_per_100"`

	UserDefined bool         `json:"user_defined" bson:"user_defined"`
	Ingredients []Ingredient `json:"ingredients" bson:"ingredients"`
}

// NewFood creates a food with the default 100 gram basis
func NewFood(id FoodID) Food {
	return Food{
		ID:          id,
		Mass:        DefaultFoodMass,
		Ingredients: []Ingredient{},
	}
}

// Clone copies the food, including its ingredient list
func (f Food) Clone() Food {
	clone := f
	clone.Ingredients = append([]Ingredient{}, f.Ingredients...)
	return clone
}

// TagList splits the tags on '|', dropping empty entries
func (f Food) TagList() []string {
	return splitTags(f.Tags)
}

// HasTag reports whether the food carries the given tag (case-insensitive)
func (f Food) HasTag(tag string) bool {
	for _, t := range f.TagList() {
		if strings.EqualFold(t, strings.TrimSpace(tag)) {
			return true
		}
	}
	return false
}

func splitTags(tags string) []string {
	result := []string{}
	for _, tag := range strings.Split(tags, "|") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			result = append(result, tag)
		}
	}
	return result
}
