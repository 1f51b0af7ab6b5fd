package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jd-116/fooddb/store"
	"github.com/jd-116/fooddb/types"
)

func TestRecorderObservesStore(t *testing.T) {
	recorder := NewRecorder()
	s := store.New(zerolog.Nop(), store.WithObserver(recorder))

	sugar := s.CreateFood(func(f *types.Food) { f.Name = "Sugar" })
	s.CreateFood(func(f *types.Food) { f.Name = "Splenda" })
	meal := s.CreateMeal(nil)

	s.Search("Su", 0)
	s.Autocomplete("Sp")

	_, err := s.AddFoodToMeal(meal, sugar, types.Mass(10))
	require.NoError(t, err)
	_, err = s.AddFoodToMeal(meal, 99, types.Mass(10))
	require.NoError(t, err)
	_, err = s.AddFoodToMeal(meal, sugar, types.Volume(10))
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.reindexes))
	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.searches))
	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.foods))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.mealAdditions.WithLabelValues(store.ResultAdded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.mealAdditions.WithLabelValues(store.ResultMissingFood)))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.mealAdditions.WithLabelValues(store.ResultConversion)))
	assert.Equal(t, 1, testutil.CollectAndCount(recorder.reindexDuration))
}

func TestRecorderSetCounts(t *testing.T) {
	recorder := NewRecorder()
	recorder.SetCounts(12, 3)

	assert.Equal(t, 12.0, testutil.ToFloat64(recorder.foods))
	assert.Equal(t, 3.0, testutil.ToFloat64(recorder.meals))
}

func TestWriteTextfile(t *testing.T) {
	recorder := NewRecorder()
	recorder.Reindexed(3*time.Millisecond, 7)
	recorder.SetCounts(7, 2)

	path := filepath.Join(t.TempDir(), "fooddb.prom")
	require.NoError(t, recorder.WriteTextfile(path))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(contents)
	assert.True(t, strings.Contains(text, "fooddb_reindex_total 1"))
	assert.True(t, strings.Contains(text, "fooddb_foods 7"))
	assert.True(t, strings.Contains(text, "fooddb_meals 2"))
	assert.True(t, strings.Contains(text, "fooddb_reindex_duration_seconds_count 1"))
}
