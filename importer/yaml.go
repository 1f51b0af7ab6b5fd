package importer

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jd-116/fooddb/types"
)

type yamlNutrition struct {
	Calories     uint32  `yaml:"calories"`
	Fat          float64 `yaml:"fat"`
	Carbohydrate float64 `yaml:"carbohydrate"`
	Protein      float64 `yaml:"protein"`
}

// yamlFood is the shape of one entry in a custom food list
type yamlFood struct {
	Name           string        `yaml:"name"`
	Manufacturer   string        `yaml:"manufacturer"`
	Tags           []string      `yaml:"tags"`
	Nutrition      yamlNutrition `yaml:"nutrition"`
	Mass           *float64      `yaml:"mass"`
	VolumePer100   float64       `yaml:"volume_per_100"`
	ServingsPer100 float64       `yaml:"servings_per_100"`
}

type yamlFoodList struct {
	Foods []yamlFood `yaml:"foods"`
}

// ReadYAML parses a list of custom foods, such as:
//
//	foods:
//	  - name: Protein shake
//	    tags: [drink, gym]
//	    nutrition: {calories: 120, fat: 1.5, carbohydrate: 3, protein: 24}
//	    volume_per_100: 100
//
// Foods read from YAML are user-defined; mass defaults to 100 grams.
func ReadYAML(r io.Reader) ([]types.Food, error) {
	var list yamlFoodList
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&list); err != nil {
		if errors.Is(err, io.EOF) {
			return []types.Food{}, nil
		}
		return nil, err
	}

	foods := make([]types.Food, 0, len(list.Foods))
	for i, entry := range list.Foods {
		if entry.Name == "" {
			return nil, fmt.Errorf("food %d: name is empty", i+1)
		}

		food := types.NewFood(0)
		food.Name = entry.Name
		food.Manufacturer = entry.Manufacturer
		food.Tags = joinTags(entry.Tags)
		food.Nutrition = types.Nutrients{
			Calories:     entry.Nutrition.Calories,
			Fat:          entry.Nutrition.Fat,
			Carbohydrate: entry.Nutrition.Carbohydrate,
			Protein:      entry.Nutrition.Protein,
		}
		if entry.Mass != nil {
			food.Mass = *entry.Mass
		}
		food.VolumePer100 = entry.VolumePer100
		food.ServingsPer100 = entry.ServingsPer100
		food.UserDefined = true

		if food.Mass < 0 || food.VolumePer100 < 0 || food.ServingsPer100 < 0 {
			return nil, fmt.Errorf("food '%s': equivalences cannot be negative", food.Name)
		}
		foods = append(foods, food)
	}

	return foods, nil
}

func joinTags(tags []string) string {
	result := ""
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if result != "" {
			result += "|"
		}
		result += tag
	}
	return result
}
