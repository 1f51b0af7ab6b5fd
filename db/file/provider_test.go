package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jd-116/fooddb/db"
	"github.com/jd-116/fooddb/types"
)

func sampleSnapshot() types.Snapshot {
	food := types.NewFood(0)
	food.Name = "Tasty Food"
	food.Nutrition = types.Nutrients{Calories: 260, Fat: 20, Carbohydrate: 60, Protein: 20}

	meal := types.NewMeal(0, time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC))
	meal.MealName = "breakfast"
	meal.Nutrients = food.Nutrition
	meal.Foods = []types.Ingredient{{FoodID: 0, Quantity: types.Mass(100)}}

	return types.Snapshot{Foods: []types.Food{food}, Meals: []types.Meal{meal}}
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "fooddb.json")
	provider := New(path, 1<<20, zerolog.Nop())
	require.NoError(t, provider.Connect(ctx))

	snapshot := sampleSnapshot()
	require.NoError(t, provider.Save(ctx, snapshot))

	loaded, err := provider.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot, *loaded)

	// No temporary files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadMissingFile(t *testing.T) {
	provider := New(filepath.Join(t.TempDir(), "absent.json"), 1<<20, zerolog.Nop())

	_, err := provider.Load(context.Background())
	assert.True(t, db.IsNoSnapshot(err))
}

func TestLoadRejectsOversizedSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fooddb.json")
	require.NoError(t, New(path, 1<<20, zerolog.Nop()).Save(ctx, sampleSnapshot()))

	_, err := New(path, 16, zerolog.Nop()).Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "larger than")
}

func TestLoadCompressedSnapshot(t *testing.T) {
	ctx := context.Background()
	provider := New(filepath.Join("testdata", "single_food.json.bz2"), 1<<20, zerolog.Nop())

	snapshot, err := provider.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.Foods, 1)
	assert.Equal(t, "Tasty Food", snapshot.Foods[0].Name)
	assert.Equal(t, uint32(260), snapshot.Foods[0].Nutrition.Calories)
	assert.Empty(t, snapshot.Meals)

	assert.Error(t, provider.Save(ctx, *snapshot))
}

func TestLoadCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fooddb.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := New(path, 1<<20, zerolog.Nop()).Load(context.Background())
	require.Error(t, err)
	assert.False(t, db.IsNoSnapshot(err))
}
