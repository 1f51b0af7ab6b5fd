package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hako/durafmt"

	"github.com/jd-116/fooddb/conversion"
	"github.com/jd-116/fooddb/types"
)

const dateLayout = "2006-01-02"

func (s *Session) newMeal(ctx context.Context) error {
	name, err := s.ask(ctx, "Name:")
	if err != nil {
		return err
	}
	mealName, err := s.ask(ctx, "Meal (breakfast, lunch, dinner, snack):")
	if err != nil {
		return err
	}
	tags, err := s.ask(ctx, "Tags (separated by |):")
	if err != nil {
		return err
	}

	id := s.Store.CreateMeal(func(m *types.Meal) {
		m.Name = name
		m.MealName = mealName
		m.Tags = tags
		m.Timestamp = s.now()
	})
	s.printf("Created meal %d\n", id)
	return nil
}

func (s *Session) addFoodToMeal(ctx context.Context) error {
	count := s.Store.MealCount()
	if count == 0 {
		s.println("There are no meals yet.")
		return nil
	}

	answer, err := s.ask(ctx, fmt.Sprintf("Meal id (blank for %d):", count-1))
	if err != nil {
		return err
	}
	mealID := types.MealID(count - 1)
	if answer != "" {
		id, err := strconv.Atoi(answer)
		if err != nil {
			s.printf("Sorry, '%s' is not a meal id.\n", answer)
			return nil
		}
		mealID = types.MealID(id)
	}

	food, ok, err := s.askFood(ctx)
	if err != nil || !ok {
		return err
	}
	quantity, ok, err := s.askQuantity(ctx, food)
	if err != nil || !ok {
		return err
	}

	added, err := s.Store.AddFoodToMeal(mealID, food.ID, quantity)
	var unsupported *conversion.UnsupportedUnitError
	switch {
	case errors.As(err, &unsupported):
		s.printf("Sorry, %s cannot be measured in %s.\n", food.Name, unsupported.Unit)
	case err != nil:
		s.printf("Sorry, %s.\n", err)
	case !added:
		s.printf("There is no meal %d.\n", mealID)
	default:
		meal, _ := s.Store.GetMeal(mealID)
		s.printf("Added %s of %s. Meal total: %s\n", quantity, food.Name, formatNutrients(meal.Nutrients))
	}
	return nil
}

func (s *Session) showDay(ctx context.Context) error {
	answer, err := s.ask(ctx, "Date (YYYY-MM-DD, blank for today):")
	if err != nil {
		return err
	}

	now := s.now().UTC()
	day := now
	if answer != "" {
		day, err = time.Parse(dateLayout, answer)
		if err != nil {
			s.printf("Sorry, '%s' is not a date.\n", answer)
			return nil
		}
	}

	year, month, date := day.Date()
	ids := s.Store.MealsOn(year, month, date)
	s.println(s.heading.Render("Meals on " + day.Format(dateLayout)))
	if len(ids) == 0 {
		s.println("No meals.")
		return nil
	}

	var total types.Nutrients
	for _, id := range ids {
		meal, ok := s.Store.GetMeal(id)
		if !ok {
			continue
		}
		total = total.Add(meal.Nutrients)
		s.printf("  [%d] %s: %s (%s ago)\n",
			meal.ID, mealTitle(meal), formatNutrients(meal.Nutrients), age(now, meal.Timestamp))
		for _, entry := range meal.Foods {
			name := fmt.Sprintf("food %d", entry.FoodID)
			if food, ok := s.Store.GetFood(entry.FoodID); ok {
				name = food.Name
			}
			s.printf("      %s of %s\n", entry.Quantity, name)
		}
	}
	s.println(s.heading.Render("Total"))
	s.printf("  %s\n", formatNutrients(total))
	return nil
}

func (s *Session) findMeals(ctx context.Context) error {
	query, err := s.ask(ctx, "Find meals:")
	if err != nil {
		return err
	}

	ids := s.Store.FindMeals(query)
	if len(ids) == 0 {
		s.println("No meals found.")
		return nil
	}
	for _, id := range ids {
		meal, ok := s.Store.GetMeal(id)
		if !ok {
			continue
		}
		s.printf("  [%d] %s on %s: %s\n",
			meal.ID, mealTitle(meal), meal.Timestamp.Format(dateLayout), formatNutrients(meal.Nutrients))
	}
	return nil
}

func (s *Session) save(ctx context.Context) error {
	if s.Saver == nil {
		s.println("No storage is configured.")
		return nil
	}

	snapshot := s.Store.Snapshot()
	if err := s.Saver.Save(ctx, snapshot); err != nil {
		s.logger.Error().Err(err).Msg("could not save snapshot from menu")
		s.printf("Sorry, saving failed: %s\n", err)
		return nil
	}
	s.printf("Saved %d foods and %d meals.\n", len(snapshot.Foods), len(snapshot.Meals))
	return nil
}

func mealTitle(meal types.Meal) string {
	parts := []string{}
	if meal.Name != "" {
		parts = append(parts, meal.Name)
	}
	if meal.MealName != "" {
		parts = append(parts, "("+meal.MealName+")")
	}
	if len(parts) == 0 {
		return "Unnamed meal"
	}
	return strings.Join(parts, " ")
}

func formatNutrients(n types.Nutrients) string {
	return fmt.Sprintf("%d kcal, %.1f g fat, %.1f g carbohydrate, %.1f g protein",
		n.Calories, n.Fat, n.Carbohydrate, n.Protein)
}

func age(now time.Time, then time.Time) string {
	elapsed := now.Sub(then).Truncate(time.Minute)
	if elapsed < time.Minute {
		return "less than a minute"
	}
	return durafmt.Parse(elapsed).LimitFirstN(2).String()
}
