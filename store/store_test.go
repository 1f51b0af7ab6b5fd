package store

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jd-116/fooddb/conversion"
	"github.com/jd-116/fooddb/types"
)

var fixedNow = time.Date(2024, time.March, 9, 12, 30, 0, 0, time.UTC)

func newStore(opts ...Option) *Store {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(zerolog.Nop(), opts...)
}

func named(name string) func(*types.Food) {
	return func(f *types.Food) {
		f.Name = name
	}
}

func TestCreateFoodAssignsPositionalIDs(t *testing.T) {
	s := newStore()

	first := s.CreateFood(named("Sugar"))
	second := s.CreateFood(func(f *types.Food) {
		f.Name = "splenda"
		f.ID = 42
	})

	assert.Equal(t, types.FoodID(0), first)
	assert.Equal(t, types.FoodID(1), second)

	food, ok := s.GetFood(second)
	require.True(t, ok)
	assert.Equal(t, types.FoodID(1), food.ID)
	assert.Equal(t, "splenda", food.Name)
	assert.True(t, food.UserDefined)
	assert.Equal(t, float64(types.DefaultFoodMass), food.Mass)
}

func TestCreateFoodReindexes(t *testing.T) {
	s := newStore()
	s.CreateFood(named("Sugar"))

	id, ok := s.Lookup("Sugar")
	require.True(t, ok)
	assert.Equal(t, types.FoodID(0), id)

	results := s.Search("Sugar", 0)
	require.NotEmpty(t, results)
	assert.Equal(t, types.RelevanceExact, results[0].Relevance)
}

func TestCreateFoodNilPopulate(t *testing.T) {
	s := newStore()
	id := s.CreateFood(nil)

	food, ok := s.GetFood(id)
	require.True(t, ok)
	assert.Equal(t, "", food.Name)
	assert.NotNil(t, food.Ingredients)
}

func TestUpdateFoodRenamesInIndex(t *testing.T) {
	s := newStore()
	id := s.CreateFood(named("Suger"))

	err := s.UpdateFood(id, named("Sugar"))
	require.NoError(t, err)

	_, ok := s.Lookup("Suger")
	assert.False(t, ok)
	found, ok := s.Lookup("Sugar")
	assert.True(t, ok)
	assert.Equal(t, id, found)

	err = s.UpdateFood(7, named("x"))
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestUpdateFoodNilEdit(t *testing.T) {
	s := newStore()
	id := s.CreateFood(named("Sugar"))

	require.NoError(t, s.UpdateFood(id, nil))
	food, ok := s.GetFood(id)
	require.True(t, ok)
	assert.Equal(t, "Sugar", food.Name)
}

func TestCreateFoodsReindexesOnce(t *testing.T) {
	observer := &recordingObserver{}
	s := newStore(WithObserver(observer))
	s.CreateFood(named("Honey"))

	imported := types.NewFood(99)
	imported.Name = "Sugar"
	imported.UserDefined = false
	ids := s.CreateFoods([]types.Food{imported, {Name: "splenda", Mass: 100}})

	assert.Equal(t, []types.FoodID{1, 2}, ids)
	assert.Equal(t, 2, observer.reindexes)

	sugar, ok := s.GetFood(1)
	require.True(t, ok)
	assert.Equal(t, types.FoodID(1), sugar.ID)
	assert.False(t, sugar.UserDefined)

	splenda, ok := s.GetFood(2)
	require.True(t, ok)
	assert.NotNil(t, splenda.Ingredients)

	found, ok := s.Lookup("splenda")
	require.True(t, ok)
	assert.Equal(t, types.FoodID(2), found)

	assert.Empty(t, s.CreateFoods(nil))
	assert.Equal(t, 2, observer.reindexes)
}

func TestGetFoodReturnsCopy(t *testing.T) {
	s := newStore()
	id := s.CreateFood(func(f *types.Food) {
		f.Name = "Cake"
		f.Ingredients = []types.Ingredient{{FoodID: 0, Quantity: types.Mass(10)}}
	})

	food, _ := s.GetFood(id)
	food.Name = "changed"
	food.Ingredients[0].Quantity = types.Mass(99)

	stored, _ := s.GetFood(id)
	assert.Equal(t, "Cake", stored.Name)
	assert.Equal(t, types.Mass(10), stored.Ingredients[0].Quantity)
}

func TestLookupsOutOfRange(t *testing.T) {
	s := newStore()
	s.CreateFood(named("Sugar"))
	s.CreateMeal(nil)

	_, ok := s.GetFood(1)
	assert.False(t, ok)
	_, ok = s.GetFood(-1)
	assert.False(t, ok)
	_, ok = s.GetMeal(1)
	assert.False(t, ok)
	_, ok = s.GetMeal(-3)
	assert.False(t, ok)
}

func TestLookupWithMismatchedIDIsAbsent(t *testing.T) {
	s := newStore()
	s.CreateFood(named("Sugar"))
	s.CreateMeal(nil)

	// Corrupt the positions directly
	s.foods[0].ID = 5
	s.meals[0].ID = 5

	_, ok := s.GetFood(0)
	assert.False(t, ok)
	_, ok = s.GetMeal(0)
	assert.False(t, ok)
}

func TestCreateMealDefaults(t *testing.T) {
	s := newStore()
	id := s.CreateMeal(func(m *types.Meal) {
		m.Name = "Pancakes"
		m.MealName = "breakfast"
		m.Nutrients = types.Nutrients{Calories: 500}
		m.Foods = []types.Ingredient{{FoodID: 1}}
	})

	meal, ok := s.GetMeal(id)
	require.True(t, ok)
	assert.Equal(t, types.MealID(0), meal.ID)
	assert.Equal(t, "Pancakes", meal.Name)
	assert.Equal(t, "breakfast", meal.MealName)
	assert.Equal(t, fixedNow, meal.Timestamp)
	assert.True(t, meal.Nutrients.IsZero())
	assert.Empty(t, meal.Foods)
}

func TestMealsOn(t *testing.T) {
	s := newStore()
	s.CreateMeal(nil)
	s.CreateMeal(func(m *types.Meal) {
		m.Timestamp = fixedNow.AddDate(0, 0, 1)
	})
	s.CreateMeal(func(m *types.Meal) {
		// Same instant, expressed in another zone
		m.Timestamp = fixedNow.In(time.FixedZone("UTC+10", 10*60*60))
	})

	assert.Equal(t, []types.MealID{0, 2}, s.MealsOn(2024, time.March, 9))
	assert.Equal(t, []types.MealID{1}, s.MealsOn(2024, time.March, 10))
	assert.Empty(t, s.MealsOn(2023, time.March, 9))
}

func TestFindMeals(t *testing.T) {
	s := newStore()
	s.CreateMeal(func(m *types.Meal) {
		m.Name = "Oatmeal with berries"
		m.MealName = "Breakfast"
	})
	s.CreateMeal(func(m *types.Meal) {
		m.Name = "Chicken salad"
		m.MealName = "Lunch"
		m.Tags = "work|quick"
	})

	assert.Equal(t, []types.MealID{0}, s.FindMeals("oatberries"))
	assert.Equal(t, []types.MealID{0}, s.FindMeals("BREAK"))
	assert.Equal(t, []types.MealID{1}, s.FindMeals("quick"))
	assert.Equal(t, []types.MealID{0, 1}, s.FindMeals(""))
	assert.Empty(t, s.FindMeals("pizza"))
}

func TestSnapshotRestoreRebuildsIndex(t *testing.T) {
	s := newStore()
	s.CreateFood(named("Sugar"))
	s.CreateFood(named("splenda"))
	mealID := s.CreateMeal(nil)
	_, err := s.AddFoodToMeal(mealID, 0, types.Mass(50))
	require.NoError(t, err)

	snapshot := s.Snapshot()

	restored := newStore()
	require.NoError(t, restored.Restore(snapshot))

	assert.Equal(t, s.Foods(), restored.Foods())
	assert.Equal(t, s.Meals(), restored.Meals())
	assert.Equal(t, s.Search("s", 0), restored.Search("s", 0))
	assert.Equal(t, 2, restored.FoodCount())
	assert.Equal(t, 1, restored.MealCount())
}

func TestRestoreRejectsInconsistentIDs(t *testing.T) {
	s := newStore()
	s.CreateFood(named("Sugar"))

	food := types.NewFood(3)
	err := s.Restore(types.Snapshot{Foods: []types.Food{food}})

	var inconsistent *InconsistentIDError
	require.True(t, errors.As(err, &inconsistent))
	assert.Equal(t, "food", inconsistent.Kind)
	assert.Equal(t, 0, inconsistent.Position)

	// The store was left untouched
	assert.Equal(t, 1, s.FoodCount())
	_, ok := s.Lookup("Sugar")
	assert.True(t, ok)
}

func TestSnapshotIsDetached(t *testing.T) {
	s := newStore()
	s.CreateFood(named("Sugar"))

	snapshot := s.Snapshot()
	snapshot.Foods[0].Name = "changed"

	food, _ := s.GetFood(0)
	assert.Equal(t, "Sugar", food.Name)
	assert.Equal(t, types.Snapshot{Foods: []types.Food{food}, Meals: []types.Meal{}}, s.Snapshot())
}

type recordingObserver struct {
	reindexes int
	searches  int
	results   []string
}

func (r *recordingObserver) Reindexed(time.Duration, int) { r.reindexes++ }
func (r *recordingObserver) Searched()                    { r.searches++ }
func (r *recordingObserver) MealFoodAdded(result string)  { r.results = append(r.results, result) }

func TestObserverNotified(t *testing.T) {
	observer := &recordingObserver{}
	s := newStore(WithObserver(observer), WithMaxResults(3))

	s.CreateFood(named("Sugar"))
	s.Reindex()
	s.Autocomplete("s")
	meal := s.CreateMeal(nil)
	_, _ = s.AddFoodToMeal(meal, 0, types.Mass(1))
	_, _ = s.AddFoodToMeal(meal, 9, types.Mass(1))

	assert.Equal(t, 2, observer.reindexes)
	assert.Equal(t, 1, observer.searches)
	assert.Equal(t, []string{ResultAdded, ResultMissingFood}, observer.results)
}

func TestConversionErrorType(t *testing.T) {
	s := newStore()
	food := s.CreateFood(named("Sugar"))
	meal := s.CreateMeal(nil)

	ok, err := s.AddFoodToMeal(meal, food, types.Serving(1))
	assert.False(t, ok)
	var unsupported *conversion.UnsupportedUnitError
	assert.True(t, errors.As(err, &unsupported))
}
