// Package store holds the authoritative food and meal collections.
// Ids are positions: a record's id always equals its index in its collection,
// and records are never removed or reordered.
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog"

	"github.com/jd-116/fooddb/search"
	"github.com/jd-116/fooddb/types"
)

// Observer receives notifications about store activity,
// such as a metrics recorder
type Observer interface {
	Reindexed(duration time.Duration, foodCount int)
	Searched()
	MealFoodAdded(result string)
}

// Results reported to Observer.MealFoodAdded
const (
	ResultAdded       = "added"
	ResultMissingFood = "missing_food"
	ResultMissingMeal = "missing_meal"
	ResultConversion  = "conversion_error"
)

type nopObserver struct{}

func (nopObserver) Reindexed(time.Duration, int) {}
func (nopObserver) Searched()                    {}
func (nopObserver) MealFoodAdded(string)         {}

// Option configures a Store
type Option func(*Store)

// WithClock replaces the clock used to stamp new meals
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithObserver attaches an activity observer
func WithObserver(observer Observer) Option {
	return func(s *Store) {
		s.observer = observer
	}
}

// WithMaxResults sets the bound used by Autocomplete
func WithMaxResults(maxResults int) Option {
	return func(s *Store) {
		s.maxResults = maxResults
	}
}

// Store owns the food and meal collections and the search index built over
// the foods. The lock covers both, so a reader never sees a food mutation
// without the index rebuilt to match.
type Store struct {
	mu         sync.RWMutex
	logger     zerolog.Logger
	now        func() time.Time
	observer   Observer
	maxResults int

	foods []types.Food
	meals []types.Meal
	index *search.Index
}

// New creates an empty store
func New(logger zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		logger:     logger,
		now:        time.Now,
		observer:   nopObserver{},
		maxResults: search.DefaultMaxResults,
		foods:      []types.Food{},
		meals:      []types.Meal{},
		index:      search.New(logger),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateFood appends a new user-defined food at the next id,
// lets populate fill it in place, and rebuilds the search index.
// populate may be nil; any change it makes to the id is discarded.
func (s *Store) CreateFood(populate func(*types.Food)) types.FoodID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := types.FoodID(len(s.foods))
	food := types.NewFood(id)
	food.UserDefined = true
	if populate != nil {
		populate(&food)
	}
	food.ID = id
	if food.Ingredients == nil {
		food.Ingredients = []types.Ingredient{}
	}

	s.foods = append(s.foods, food)
	s.reindexLocked()
	return id
}

// CreateFoods appends copies of the given foods at the next ids, keeping
// their provenance flags, and rebuilds the search index once for the batch.
// Any ids the foods carry are replaced.
func (s *Store) CreateFoods(foods []types.Food) []types.FoodID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]types.FoodID, 0, len(foods))
	for _, food := range foods {
		id := types.FoodID(len(s.foods))
		food = food.Clone()
		food.ID = id
		s.foods = append(s.foods, food)
		ids = append(ids, id)
	}

	if len(ids) > 0 {
		s.reindexLocked()
	}
	return ids
}

// UpdateFood edits an existing food in place and rebuilds the search index.
// edit may be nil.
func (s *Store) UpdateFood(id types.FoodID, edit func(*types.Food)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	food, ok := s.foodAt(id)
	if !ok {
		return NewNotFoundError("food", int(id))
	}

	if edit != nil {
		edit(food)
	}
	food.ID = id
	s.reindexLocked()
	return nil
}

// CreateMeal appends a new, empty meal at the next id stamped with the
// current time. populate may set the descriptive fields and the timestamp;
// the running totals and food log always start empty.
func (s *Store) CreateMeal(populate func(*types.Meal)) types.MealID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := types.MealID(len(s.meals))
	meal := types.NewMeal(id, s.now())
	if populate != nil {
		populate(&meal)
	}
	meal.ID = id
	meal.Timestamp = meal.Timestamp.UTC()
	meal.Nutrients = types.Nutrients{}
	meal.Foods = []types.Ingredient{}

	s.meals = append(s.meals, meal)
	return id
}

// GetFood returns a copy of the food with the given id
func (s *Store) GetFood(id types.FoodID) (types.Food, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	food, ok := s.foodAt(id)
	if !ok {
		return types.Food{}, false
	}
	return food.Clone(), true
}

// GetMeal returns a copy of the meal with the given id
func (s *Store) GetMeal(id types.MealID) (types.Meal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meal, ok := s.mealAt(id)
	if !ok {
		return types.Meal{}, false
	}
	return meal.Clone(), true
}

// MealsOn lists the meals whose UTC timestamp falls on the given date,
// in ascending id order
func (s *Store) MealsOn(year int, month time.Month, day int) []types.MealID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Brute-force scan; meals are not indexed by date
	ids := []types.MealID{}
	for _, meal := range s.meals {
		if meal.OnDate(year, month, day) {
			ids = append(ids, meal.ID)
		}
	}
	return ids
}

// FindMeals lists the meals whose name, slot or tags fuzzily match the query.
// An empty query matches every meal.
func (s *Store) FindMeals(query string) []types.MealID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	ids := []types.MealID{}
	for _, meal := range s.meals {
		if query == "" || mealMatches(query, meal) {
			ids = append(ids, meal.ID)
		}
	}
	return ids
}

func mealMatches(query string, meal types.Meal) bool {
	candidates := append([]string{meal.Name, meal.MealName}, meal.TagList()...)
	for _, candidate := range candidates {
		if candidate != "" && fuzzy.MatchNormalized(query, strings.ToLower(candidate)) {
			return true
		}
	}
	return false
}

// Search runs a food search against the current index
func (s *Store) Search(name string, maxResults int) []types.FoodSearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.observer.Searched()
	return s.index.Search(name, maxResults)
}

// Autocomplete runs a food search with the store's configured bound
func (s *Store) Autocomplete(prefix string) []types.FoodSearchResult {
	return s.Search(prefix, s.maxResults)
}

// Lookup resolves an exact food name to its id
func (s *Store) Lookup(name string) (types.FoodID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.index.Lookup(name)
}

// Reindex rebuilds the search index from the current foods
func (s *Store) Reindex() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reindexLocked()
}

// Foods returns a copy of every food in id order
func (s *Store) Foods() []types.Food {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneFoods(s.foods)
}

// Meals returns a copy of every meal in id order
func (s *Store) Meals() []types.Meal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneMeals(s.meals)
}

// FoodCount is the number of foods in the store
func (s *Store) FoodCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.foods)
}

// MealCount is the number of meals in the store
func (s *Store) MealCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.meals)
}

// Snapshot exports a copy of both collections for persistence
func (s *Store) Snapshot() types.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return types.Snapshot{
		Foods: cloneFoods(s.foods),
		Meals: cloneMeals(s.meals),
	}
}

// Restore replaces both collections with the snapshot's contents
// and rebuilds the search index. The snapshot is rejected, leaving
// the store untouched, if any record's id differs from its position.
func (s *Store) Restore(snapshot types.Snapshot) error {
	for position, food := range snapshot.Foods {
		if int(food.ID) != position {
			return NewInconsistentIDError("food", position, int(food.ID))
		}
	}
	for position, meal := range snapshot.Meals {
		if int(meal.ID) != position {
			return NewInconsistentIDError("meal", position, int(meal.ID))
		}
	}

	foods := cloneFoods(snapshot.Foods)
	meals := cloneMeals(snapshot.Meals)
	for i := range meals {
		meals[i].Timestamp = meals[i].Timestamp.UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.foods = foods
	s.meals = meals
	s.reindexLocked()

	s.logger.Info().
		Int("food_count", len(foods)).
		Int("meal_count", len(meals)).
		Msg("restored store from snapshot")
	return nil
}

func (s *Store) reindexLocked() {
	start := time.Now()
	s.index.Reindex(s.foods)
	s.observer.Reindexed(time.Since(start), len(s.foods))
}

// foodAt resolves a food by position; the caller must hold the lock.
// A record whose id disagrees with its position is reported and treated as absent.
func (s *Store) foodAt(id types.FoodID) (*types.Food, bool) {
	if id < 0 || int(id) >= len(s.foods) {
		return nil, false
	}

	food := &s.foods[id]
	if food.ID != id {
		s.logger.Error().
			Int("food_id", int(id)).
			Int("stored_id", int(food.ID)).
			Str("name", food.Name).
			Msg("food not found at its id position")
		return nil, false
	}
	return food, true
}

// mealAt resolves a meal by position; the caller must hold the lock
func (s *Store) mealAt(id types.MealID) (*types.Meal, bool) {
	if id < 0 || int(id) >= len(s.meals) {
		return nil, false
	}

	meal := &s.meals[id]
	if meal.ID != id {
		s.logger.Error().
			Int("meal_id", int(id)).
			Int("stored_id", int(meal.ID)).
			Str("name", meal.Name).
			Msg("meal not found at its id position")
		return nil, false
	}
	return meal, true
}

func cloneFoods(foods []types.Food) []types.Food {
	result := make([]types.Food, len(foods))
	for i, food := range foods {
		result[i] = food.Clone()
	}
	return result
}

func cloneMeals(meals []types.Meal) []types.Meal {
	result := make([]types.Meal, len(meals))
	for i, meal := range meals {
		result[i] = meal.Clone()
	}
	return result
}
