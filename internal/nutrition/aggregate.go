package nutrition

import (
	"strconv"
	"strings"
)

// Totals are summed over every resolved reference of a recipe.
type Totals struct {
	Weight        float64 `json:"total_weight_grams"`
	Protein       float64 `json:"total_protein_grams"`
	Calories      float64 `json:"total_calories_kcal"`
	Fat           float64 `json:"total_fat_grams"`
	Carbohydrates float64 `json:"total_carbohydrates_grams"`
}

// Aggregated is the derived nutrition of one recipe. It is never persisted by
// this package.
type Aggregated struct {
	Totals
	ProteinPer100       float64  `json:"protein_per_100g"`
	CaloriesPer100      float64  `json:"calories_per_100g"`
	FatPer100           float64  `json:"fat_per_100g"`
	CarbohydratesPer100 float64  `json:"carbohydrates_per_100g"`
	Ingredients         []string `json:"human_readable_ingredients"`
	Unresolved          []string `json:"unresolved,omitempty"`
}

// Aggregate computes totals, per-100 values, and a human readable listing for
// recipe. References whose key is absent from the catalog are skipped
// entirely and listed in Unresolved.
func Aggregate(recipe Recipe, catalog *Catalog) Aggregated {
	var out Aggregated
	out.Ingredients = make([]string, 0, len(recipe.Ingredients))

	for _, ref := range recipe.Ingredients {
		ingredient, ok := catalog.Get(ref.Key())
		if !ok {
			out.Unresolved = append(out.Unresolved, ref.Name)
			continue
		}

		mass := EffectiveMass(ref, ingredient)
		out.Weight += mass
		out.Protein += contribution(mass, ingredient, ComponentProtein)
		out.Calories += contribution(mass, ingredient, ComponentCalories)
		out.Fat += contribution(mass, ingredient, ComponentFat)
		out.Carbohydrates += contribution(mass, ingredient, ComponentCarbohydrates)
		out.Ingredients = append(out.Ingredients, DisplayLine(ref, ingredient))
	}

	out.ProteinPer100 = per100(out.Protein, out.Weight)
	out.CaloriesPer100 = per100(out.Calories, out.Weight)
	out.FatPer100 = per100(out.Fat, out.Weight)
	out.CarbohydratesPer100 = per100(out.Carbohydrates, out.Weight)
	return out
}

// EffectiveMass is the grams or millilitres a reference contributes after
// unit conversion.
func EffectiveMass(ref Reference, ingredient Ingredient) float64 {
	if ingredient.WeightPerUnit > 0 {
		return ref.Quantity * ingredient.WeightPerUnit
	}
	return ref.Quantity
}

// DisplayLine renders a reference for shopping lists, e.g. "2 stuks ei" or
// "200g kipfilet".
func DisplayLine(ref Reference, ingredient Ingredient) string {
	name := ingredient.Name
	if name == "" {
		name = ref.Name
	}
	unit := strings.TrimSpace(ingredient.MeasurementUnit)
	if ingredient.Discrete() {
		count := ref.Quantity
		if ref.Pieces != nil {
			count = *ref.Pieces
		}
		return formatNumber(count) + " " + unit + " " + name
	}
	return formatNumber(ref.Quantity) + unit + " " + name
}

func contribution(mass float64, ingredient Ingredient, component string) float64 {
	per100, ok := ingredient.Component(component)
	if !ok {
		return 0
	}
	return mass * per100 / 100
}

func per100(total, weight float64) float64 {
	if weight <= 0 {
		return 0
	}
	return total * 100 / weight
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
