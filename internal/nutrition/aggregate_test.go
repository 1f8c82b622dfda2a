package nutrition

import (
	"math"
	"reflect"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func mustCatalog(t *testing.T, records ...Ingredient) *Catalog {
	t.Helper()
	catalog, err := BuildCatalog(records)
	if err != nil {
		t.Fatalf("BuildCatalog: %v", err)
	}
	return catalog
}

func kipfilet() Ingredient {
	return NewIngredient("kipfilet", "g", 0,
		Component{Name: ComponentProtein, QuantityPer100: 23},
		Component{Name: ComponentCalories, QuantityPer100: 110},
	)
}

func TestAggregateBaseUnitRecipe(t *testing.T) {
	catalog := mustCatalog(t, kipfilet())
	recipe := Recipe{Name: "kip", Ingredients: []Reference{NewReference("kipfilet", 200)}}

	got := Aggregate(recipe, catalog)

	if !approxEqual(got.Protein, 46) {
		t.Errorf("Protein = %v, want 46", got.Protein)
	}
	if !approxEqual(got.Calories, 220) {
		t.Errorf("Calories = %v, want 220", got.Calories)
	}
	if !approxEqual(got.ProteinPer100, 23) {
		t.Errorf("ProteinPer100 = %v, want 23", got.ProteinPer100)
	}
	if !approxEqual(got.CaloriesPer100, 110) {
		t.Errorf("CaloriesPer100 = %v, want 110", got.CaloriesPer100)
	}
	if want := []string{"200g kipfilet"}; !reflect.DeepEqual(got.Ingredients, want) {
		t.Errorf("Ingredients = %v, want %v", got.Ingredients, want)
	}
	if len(got.Unresolved) != 0 {
		t.Errorf("Unresolved = %v, want none", got.Unresolved)
	}
}

func TestAggregateDiscreteUnitConversion(t *testing.T) {
	appel := NewIngredient("appel", "stuks", 150,
		Component{Name: ComponentProtein, QuantityPer100: 10},
	)
	catalog := mustCatalog(t, appel)
	recipe := Recipe{Ingredients: []Reference{NewReference("appel", 2)}}

	got := Aggregate(recipe, catalog)

	if !approxEqual(got.Weight, 300) {
		t.Errorf("Weight = %v, want 300", got.Weight)
	}
	if !approxEqual(got.Protein, 30) {
		t.Errorf("Protein = %v, want 30", got.Protein)
	}
	if want := []string{"2 stuks appel"}; !reflect.DeepEqual(got.Ingredients, want) {
		t.Errorf("Ingredients = %v, want %v", got.Ingredients, want)
	}
}

func TestAggregatePiecesOverrideDisplayOnly(t *testing.T) {
	ei := NewIngredient("ei", "stuks", 60, Component{Name: ComponentProtein, QuantityPer100: 12.5})
	catalog := mustCatalog(t, ei)
	pieces := 3.0
	ref := NewReference("ei", 2)
	ref.Pieces = &pieces

	got := Aggregate(Recipe{Ingredients: []Reference{ref}}, catalog)

	if !approxEqual(got.Weight, 120) {
		t.Errorf("Weight = %v, want 120", got.Weight)
	}
	if got.Ingredients[0] != "3 stuks ei" {
		t.Errorf("display = %q, want %q", got.Ingredients[0], "3 stuks ei")
	}
}

func TestAggregateWeightIsLinearInQuantity(t *testing.T) {
	catalog := mustCatalog(t, kipfilet())
	split := Aggregate(Recipe{Ingredients: []Reference{
		NewReference("kipfilet", 120),
		NewReference("kipfilet", 80),
	}}, catalog)
	merged := Aggregate(Recipe{Ingredients: []Reference{NewReference("kipfilet", 200)}}, catalog)

	if !approxEqual(split.Weight, merged.Weight) {
		t.Fatalf("split weight %v != merged weight %v", split.Weight, merged.Weight)
	}
	if !approxEqual(split.Protein, merged.Protein) {
		t.Fatalf("split protein %v != merged protein %v", split.Protein, merged.Protein)
	}
}

func TestAggregateZeroWeightIsSafe(t *testing.T) {
	catalog := mustCatalog(t, kipfilet())
	tests := []struct {
		name   string
		recipe Recipe
	}{
		{"empty recipe", Recipe{}},
		{"zero quantity", Recipe{Ingredients: []Reference{NewReference("kipfilet", 0)}}},
		{"only unresolved", Recipe{Ingredients: []Reference{NewReference("onbekend", 100)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.recipe, catalog)
			if got.ProteinPer100 != 0 || got.CaloriesPer100 != 0 {
				t.Fatalf("per-100 values = %v/%v, want 0/0", got.ProteinPer100, got.CaloriesPer100)
			}
		})
	}
}

func TestAggregateSkipsUnresolvedReferences(t *testing.T) {
	catalog := mustCatalog(t, kipfilet())
	recipe := Recipe{Ingredients: []Reference{
		NewReference("Onbekend", 500),
		NewReference("kipfilet", 100),
	}}

	got := Aggregate(recipe, catalog)

	if !approxEqual(got.Weight, 100) {
		t.Errorf("Weight = %v, want 100 (unresolved contributes nothing)", got.Weight)
	}
	if want := []string{"Onbekend"}; !reflect.DeepEqual(got.Unresolved, want) {
		t.Errorf("Unresolved = %v, want %v", got.Unresolved, want)
	}
	if len(got.Ingredients) != 1 {
		t.Errorf("Ingredients = %v, want a single line", got.Ingredients)
	}
}

func TestAggregateMissingComponentsContributeZero(t *testing.T) {
	water := NewIngredient("water", "ml", 0)
	catalog := mustCatalog(t, water, kipfilet())
	recipe := Recipe{Ingredients: []Reference{
		NewReference("water", 100),
		NewReference("kipfilet", 100),
	}}

	got := Aggregate(recipe, catalog)

	if !approxEqual(got.Weight, 200) {
		t.Errorf("Weight = %v, want 200", got.Weight)
	}
	if !approxEqual(got.Protein, 23) {
		t.Errorf("Protein = %v, want 23", got.Protein)
	}
	if !approxEqual(got.ProteinPer100, 11.5) {
		t.Errorf("ProteinPer100 = %v, want 11.5", got.ProteinPer100)
	}
}

func TestAggregateIgnoresAlcoholPercentage(t *testing.T) {
	bier := NewIngredient("bier", "ml", 0,
		Component{Name: ComponentCalories, QuantityPer100: 43},
		Component{Name: ComponentAlcohol, QuantityPer100: 5},
	)
	catalog := mustCatalog(t, bier)

	got := Aggregate(Recipe{Name: "stoof", Ingredients: []Reference{NewReference("bier", 330)}}, catalog)
	if !approxEqual(got.Weight, 330) || !approxEqual(got.Calories, 141.9) {
		t.Fatalf("totals = %+v", got.Totals)
	}

	_, err := BuildCatalog([]Ingredient{NewIngredient("spiritus", "ml", 0, Component{Name: ComponentAlcohol, QuantityPer100: 150})})
	if err == nil {
		t.Fatal("expected alcohol percentage above 100 to be rejected")
	}
}

func TestAggregateFatAndCarbohydrates(t *testing.T) {
	rijst := NewIngredient("rijst", "g", 0,
		Component{Name: ComponentFat, QuantityPer100: 1},
		Component{Name: ComponentCarbohydrates, QuantityPer100: 78},
	)
	catalog := mustCatalog(t, rijst)

	got := Aggregate(Recipe{Ingredients: []Reference{NewReference("rijst", 50)}}, catalog)

	if !approxEqual(got.Fat, 0.5) || !approxEqual(got.Carbohydrates, 39) {
		t.Fatalf("fat/carbs = %v/%v, want 0.5/39", got.Fat, got.Carbohydrates)
	}
	if !approxEqual(got.CarbohydratesPer100, 78) {
		t.Fatalf("CarbohydratesPer100 = %v, want 78", got.CarbohydratesPer100)
	}
}

func TestAggregateIsPure(t *testing.T) {
	catalog := mustCatalog(t, kipfilet())
	recipe := Recipe{Ingredients: []Reference{NewReference("kipfilet", 150), NewReference("x", 1)}}

	first := Aggregate(recipe, catalog)
	second := Aggregate(recipe, catalog)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated Aggregate differs:\n%#v\n%#v", first, second)
	}
}
