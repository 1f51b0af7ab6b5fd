package types

import "math"

// Nutrients is the macronutrient vector tracked for foods and meals.
// Calories are whole units; the rest are grams.
type Nutrients struct {
	Calories     uint32  `json:"calories" bson:"calories"`
	Fat          float64 `json:"fat" bson:"fat"`
	Carbohydrate float64 `json:"carbohydrate" bson:"carbohydrate"`
	Protein      float64 `json:"protein" bson:"protein"`
}

// MaxCalories is the largest calorie count a Nutrients value can hold;
// arithmetic saturates there instead of wrapping
const MaxCalories = math.MaxUint32

// CaloriesFromFloat converts to whole calories, rounding to the nearest
// unit and saturating at zero and MaxCalories
func CaloriesFromFloat(calories float64) uint32 {
	rounded := math.Round(calories)
	switch {
	case math.IsNaN(rounded) || rounded <= 0:
		return 0
	case rounded >= MaxCalories:
		return MaxCalories
	default:
		return uint32(rounded)
	}
}

// Scale multiplies every field by the given factor,
// rounding calories to the nearest whole unit
func (n Nutrients) Scale(factor float64) Nutrients {
	return Nutrients{
		Calories:     CaloriesFromFloat(float64(n.Calories) * factor),
		Fat:          n.Fat * factor,
		Carbohydrate: n.Carbohydrate * factor,
		Protein:      n.Protein * factor,
	}
}

// Add returns the field-wise sum of both vectors.
// Calories saturate at MaxCalories.
func (n Nutrients) Add(other Nutrients) Nutrients {
	return Nutrients{
		Calories:     addCalories(n.Calories, other.Calories),
		Fat:          n.Fat + other.Fat,
		Carbohydrate: n.Carbohydrate + other.Carbohydrate,
		Protein:      n.Protein + other.Protein,
	}
}

// IsZero reports whether all fields are zero
func (n Nutrients) IsZero() bool {
	return n == Nutrients{}
}

func addCalories(a uint32, b uint32) uint32 {
	if a > MaxCalories-b {
		return MaxCalories
	}
	return a + b
}
