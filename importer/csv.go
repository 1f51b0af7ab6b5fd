// Package importer builds food catalogs from external lists,
// such as the MyFoodData nutrition spreadsheet or a YAML file of custom foods.
package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jd-116/fooddb/store"
	"github.com/jd-116/fooddb/types"
)

// Column names used by the MyFoodData spreadsheet export.
// All nutrition values are per 100 grams.
const (
	ColumnID            = "ID"
	ColumnName          = "Name"
	ColumnCalories      = "Calories"
	ColumnFat           = "Fat (g)"
	ColumnCarbohydrate  = "Carbohydrate (g)"
	ColumnProtein       = "Protein (g)"
	ColumnServingWeight = "Serving Weight 2 (g)"
)

var requiredColumns = []string{ColumnName, ColumnCalories, ColumnFat, ColumnCarbohydrate, ColumnProtein}

// starterVolumePer100 is the volume every imported food is given;
// the spreadsheet carries no densities
const starterVolumePer100 = 1

// ReadMyFoodDataCSV parses the spreadsheet into foods. The returned foods
// are not user-defined and carry no ids; ids are assigned when they are
// added to a store.
func ReadMyFoodDataCSV(r io.Reader) ([]types.Food, error) {
	// Spreadsheet exports start with a UTF-8 byte order mark
	buffered := bufio.NewReader(r)
	if first, _, err := buffered.ReadRune(); err == nil && first != '\ufeff' {
		_ = buffered.UnreadRune()
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []types.Food{}, nil
		}
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, NewRowError(1, name, errors.New("missing required column"))
		}
	}

	foods := []types.Food{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, NewRowError(line, "", err)
		}

		food, err := parseRecord(line, record, columns)
		if err != nil {
			return nil, err
		}
		foods = append(foods, food)
	}

	return foods, nil
}

func parseRecord(line int, record []string, columns map[string]int) (types.Food, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	number := func(name string) (float64, error) {
		value, err := strconv.ParseFloat(field(name), 64)
		if err != nil || value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			return 0, NewRowError(line, name, fmt.Errorf("'%s' is not a non-negative number", field(name)))
		}
		return value, nil
	}

	food := types.NewFood(0)
	food.Name = field(ColumnName)
	if food.Name == "" {
		return types.Food{}, NewRowError(line, ColumnName, errors.New("name is empty"))
	}

	calories, err := number(ColumnCalories)
	if err != nil {
		return types.Food{}, err
	}
	if food.Nutrition.Fat, err = number(ColumnFat); err != nil {
		return types.Food{}, err
	}
	if food.Nutrition.Carbohydrate, err = number(ColumnCarbohydrate); err != nil {
		return types.Food{}, err
	}
	if food.Nutrition.Protein, err = number(ColumnProtein); err != nil {
		return types.Food{}, err
	}
	// Calories are truncated like the spreadsheet's whole-unit column
	food.Nutrition.Calories = types.CaloriesFromFloat(math.Trunc(calories))

	food.VolumePer100 = starterVolumePer100
	food.ServingsPer100 = servingsPer100(field(ColumnServingWeight))
	food.UserDefined = false
	return food, nil
}

// servingsPer100 derives how many servings 100 grams is from the
// serving weight; a missing or invalid weight counts as one 100 gram serving,
// and weights under a gram are treated as a gram
func servingsPer100(weight string) float64 {
	grams, err := strconv.ParseFloat(weight, 64)
	if err != nil || math.IsNaN(grams) || math.IsInf(grams, 0) {
		grams = 100
	}
	return 100 / math.Max(1, grams)
}

// Into adds the foods to the store as new records, keeping each food's
// provenance flag, and returns the assigned ids in order
func Into(s *store.Store, foods []types.Food) []types.FoodID {
	return s.CreateFoods(foods)
}
