// Package metrics records store activity in a private Prometheus registry.
// Nothing is served over the network; the registry is written to a
// node_exporter textfile when the application shuts down.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jd-116/fooddb/store"
)

const namespace = "fooddb"

// Recorder implements store.Observer
type Recorder struct {
	registry *prometheus.Registry

	reindexes       prometheus.Counter
	reindexDuration prometheus.Histogram
	searches        prometheus.Counter
	mealAdditions   *prometheus.CounterVec
	foods           prometheus.Gauge
	meals           prometheus.Gauge
}

var _ store.Observer = (*Recorder)(nil)

// NewRecorder creates a recorder with all of its collectors registered
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		reindexes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reindex_total",
			Help:      "Number of search index rebuilds.",
		}),
		reindexDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reindex_duration_seconds",
			Help:      "Time spent rebuilding the search index.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_total",
			Help:      "Number of food searches.",
		}),
		mealAdditions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meal_additions_total",
			Help:      "Attempts to add a food to a meal, by result.",
		}, []string{"result"}),
		foods: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "foods",
			Help:      "Number of foods in the store.",
		}),
		meals: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "meals",
			Help:      "Number of meals in the store.",
		}),
	}

	r.registry.MustRegister(
		r.reindexes,
		r.reindexDuration,
		r.searches,
		r.mealAdditions,
		r.foods,
		r.meals,
	)
	return r
}

// Reindexed records one index rebuild
func (r *Recorder) Reindexed(duration time.Duration, foodCount int) {
	r.reindexes.Inc()
	r.reindexDuration.Observe(duration.Seconds())
	r.foods.Set(float64(foodCount))
}

// Searched records one food search
func (r *Recorder) Searched() {
	r.searches.Inc()
}

// MealFoodAdded records the result of one attempt to add a food to a meal
func (r *Recorder) MealFoodAdded(result string) {
	r.mealAdditions.WithLabelValues(result).Inc()
}

// SetCounts updates the collection size gauges
func (r *Recorder) SetCounts(foods int, meals int) {
	r.foods.Set(float64(foods))
	r.meals.Set(float64(meals))
}

// WriteTextfile atomically writes every metric to the given path
// in the text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
