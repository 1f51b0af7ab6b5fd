// Package conversion rescales a food's per-100-unit nutrition
// to an arbitrary quantity in grams, millilitres or servings.
package conversion

import (
	"math"

	"github.com/jd-116/fooddb/types"
)

// Convert computes the nutrients contained in the given quantity of the food.
// The food is taken by value and never modified.
func Convert(food types.Food, quantity types.Quantity) (types.Nutrients, error) {
	factor, err := Factor(food, quantity)
	if err != nil {
		return types.Nutrients{}, err
	}

	return food.Nutrition.Scale(factor), nil
}

// Factor computes the dimensionless multiplier that takes the food's
// 100-unit basis to the requested quantity
func Factor(food types.Food, quantity types.Quantity) (float64, error) {
	if err := quantity.Validate(); err != nil {
		return 0, NewInvalidQuantityError(quantity, err)
	}

	denominator, ok := basis(food, quantity.Unit)
	if !ok {
		return 0, NewUnsupportedUnitError(food, quantity.Unit)
	}

	return quantity.Amount / denominator, nil
}

// SupportedUnits lists the units the food can be measured in
func SupportedUnits(food types.Food) []types.Unit {
	units := []types.Unit{}
	for _, unit := range types.Units {
		if _, ok := basis(food, unit); ok {
			units = append(units, unit)
		}
	}
	return units
}

// basis returns the amount of the unit equivalent to the food's
// 100-unit basis, or false if it was never populated
func basis(food types.Food, unit types.Unit) (float64, bool) {
	var value float64
	switch unit {
	case types.UnitMass:
		value = food.Mass
	case types.UnitVolume:
		value = food.VolumePer100
	case types.UnitServing:
		value = food.ServingsPer100
	default:
		return 0, false
	}

	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}
