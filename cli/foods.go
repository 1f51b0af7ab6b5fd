package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jd-116/fooddb/conversion"
	"github.com/jd-116/fooddb/types"
)

func (s *Session) newFood(ctx context.Context) error {
	name, err := s.ask(ctx, "Name:")
	if err != nil {
		return err
	}
	if name == "" {
		s.println("A food needs a name.")
		return nil
	}

	manufacturer, err := s.ask(ctx, "Manufacturer:")
	if err != nil {
		return err
	}
	tags, err := s.ask(ctx, "Tags (separated by |):")
	if err != nil {
		return err
	}

	// Everything below is per 100 g
	var nutrition types.Nutrients
	calories, err := s.askNumber(ctx, "Calories in 100 g:", 0)
	if err != nil {
		return err
	}
	nutrition.Calories = types.CaloriesFromFloat(calories)
	if nutrition.Fat, err = s.askNumber(ctx, "Fat in 100 g (g):", 0); err != nil {
		return err
	}
	if nutrition.Carbohydrate, err = s.askNumber(ctx, "Carbohydrate in 100 g (g):", 0); err != nil {
		return err
	}
	if nutrition.Protein, err = s.askNumber(ctx, "Protein in 100 g (g):", 0); err != nil {
		return err
	}
	volume, err := s.askNumber(ctx, "Volume of 100 g in mL (blank if unknown):", 0)
	if err != nil {
		return err
	}
	servings, err := s.askNumber(ctx, "Servings in 100 g (blank if unknown):", 0)
	if err != nil {
		return err
	}

	id := s.Store.CreateFood(func(f *types.Food) {
		f.Name = name
		f.Manufacturer = manufacturer
		f.Tags = tags
		f.Nutrition = nutrition
		f.VolumePer100 = volume
		f.ServingsPer100 = servings
	})
	s.printf("Created food %d: %s\n", id, name)
	return nil
}

func (s *Session) searchFoods(ctx context.Context) error {
	query, err := s.ask(ctx, "Search:")
	if err != nil {
		return err
	}

	results := s.Store.Autocomplete(query)
	if len(results) == 0 {
		s.println("No foods found.")
		return nil
	}
	for _, result := range results {
		marker := ""
		if result.Relevance == types.RelevanceExact {
			marker = " (exact)"
		}
		s.printf("  [%d] %s%s\n", result.ID, result.Name, marker)
	}
	return nil
}

// askFood resolves a food by exact name or id, printing suggestions
// when nothing matches
func (s *Session) askFood(ctx context.Context) (types.Food, bool, error) {
	answer, err := s.ask(ctx, "Food name or id:")
	if err != nil {
		return types.Food{}, false, err
	}

	if id, ok := s.Store.Lookup(answer); ok {
		food, ok := s.Store.GetFood(id)
		return food, ok, nil
	}
	if id, err := strconv.Atoi(answer); err == nil {
		food, ok := s.Store.GetFood(types.FoodID(id))
		if ok {
			return food, true, nil
		}
	}

	s.printf("No food named '%s'.\n", answer)
	if suggestions := s.Store.Autocomplete(answer); len(suggestions) > 0 && answer != "" {
		s.println("Did you mean:")
		for _, suggestion := range suggestions {
			s.printf("  [%d] %s\n", suggestion.ID, suggestion.Name)
		}
	}
	return types.Food{}, false, nil
}

// askQuantity re-prompts until it reads a unit the food has an
// equivalence for, then reads the amount
func (s *Session) askQuantity(ctx context.Context, food types.Food) (types.Quantity, bool, error) {
	units := conversion.SupportedUnits(food)
	if len(units) == 0 {
		s.printf("%s has no unit to measure it in.\n", food.Name)
		return types.Quantity{}, false, nil
	}

	symbols := make([]string, 0, len(units))
	for _, unit := range units {
		symbols = append(symbols, unit.Symbol())
	}
	prompt := fmt.Sprintf("Unit (%s):", strings.Join(symbols, ", "))

	var unit types.Unit
	for unit == "" {
		answer, err := s.ask(ctx, prompt)
		if err != nil {
			return types.Quantity{}, false, err
		}

		parsed, err := types.ParseUnit(answer)
		switch {
		case err != nil:
			s.printf("Sorry, '%s' is not a unit.\n", answer)
		case !supports(units, parsed):
			s.printf("Sorry, %s cannot be measured by %s.\n", food.Name, parsed)
		default:
			unit = parsed
		}
	}

	amount, err := s.askNumber(ctx, "Amount ("+unit.Symbol()+"):", 0)
	if err != nil {
		return types.Quantity{}, false, err
	}
	return types.Quantity{Unit: unit, Amount: amount}, true, nil
}

func supports(units []types.Unit, unit types.Unit) bool {
	for _, u := range units {
		if u == unit {
			return true
		}
	}
	return false
}
