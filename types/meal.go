package types

import "time"

// MealID is the position of a meal in the store
type MealID int

// Meal is a logged meal. Nutrients is a running total that only grows
// as foods are added; it is not recomputed from Foods, which records
// what was added at the time.
type Meal struct {
	ID        MealID    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	Tags      string    `json:"tags" bson:"tags"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	// Breakfast, lunch, dinner, etc.
	MealName string `json:"meal_name" bson:"meal_name"`

	Nutrients Nutrients    `json:"nutrients" bson:"nutrients"`
	Foods     []Ingredient `json:"foods" bson:"foods"`
}

// NewMeal creates an empty meal stamped with the given time
func NewMeal(id MealID, now time.Time) Meal {
	return Meal{
		ID:        id,
		Timestamp: now.UTC(),
		Foods:     []Ingredient{},
	}
}

// Clone copies the meal, including its food log
func (m Meal) Clone() Meal {
	clone := m
	clone.Foods = append([]Ingredient{}, m.Foods...)
	return clone
}

// TagList splits the tags on '|', dropping empty entries
func (m Meal) TagList() []string {
	return splitTags(m.Tags)
}

// OnDate reports whether the meal's UTC timestamp falls on the given day
func (m Meal) OnDate(year int, month time.Month, day int) bool {
	y, mo, d := m.Timestamp.UTC().Date()
	return y == year && mo == month && d == day
}
