package store

import (
	"github.com/jd-116/fooddb/conversion"
	"github.com/jd-116/fooddb/types"
)

// AddFoodToMeal converts the quantity of the food to nutrients, adds them to
// the meal's running total and appends the entry to the meal's food log.
// This is the only way a meal's totals change.
//
// A missing food or meal returns false with no error. A conversion failure
// returns false with the error. In both cases the meal is left untouched.
func (s *Store) AddFoodToMeal(mealID types.MealID, foodID types.FoodID, quantity types.Quantity) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	food, ok := s.foodAt(foodID)
	if !ok {
		s.observer.MealFoodAdded(ResultMissingFood)
		return false, nil
	}

	// Check the meal before converting
	meal, ok := s.mealAt(mealID)
	if !ok {
		s.observer.MealFoodAdded(ResultMissingMeal)
		return false, nil
	}

	nutrients, err := conversion.Convert(*food, quantity)
	if err != nil {
		s.observer.MealFoodAdded(ResultConversion)
		return false, err
	}

	meal.Nutrients = meal.Nutrients.Add(nutrients)
	meal.Foods = append(meal.Foods, types.Ingredient{
		FoodID:   foodID,
		Quantity: quantity,
	})
	s.observer.MealFoodAdded(ResultAdded)

	s.logger.Debug().
		Int("meal_id", int(mealID)).
		Int("food_id", int(foodID)).
		Str("quantity", quantity.String()).
		Uint32("calories", nutrients.Calories).
		Msg("added food to meal")
	return true, nil
}
