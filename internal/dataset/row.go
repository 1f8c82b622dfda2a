package dataset

import (
	"strings"

	"mealprep/internal/nutrition"
	"mealprep/internal/textutil"
)

// CSV column names, in file order.
const (
	ColumnName              = "name"
	ColumnMeasurementUnit   = "measurement_unit"
	ColumnWeightPerUnit     = "weight_per_unit"
	ColumnProtein           = "protein_per_100g"
	ColumnCalories          = "calories_per_100g"
	ColumnFat               = "fat_per_100g"
	ColumnCarbohydrates     = "carbohydrates_per_100g"
	ColumnAlcoholPercentage = "alcohol_percentage"
)

// Columns is the header written by WriteTable and expected by ValidateTable.
var Columns = []string{
	ColumnName,
	ColumnMeasurementUnit,
	ColumnWeightPerUnit,
	ColumnProtein,
	ColumnCalories,
	ColumnFat,
	ColumnCarbohydrates,
	ColumnAlcoholPercentage,
}

// ExternalRow is one record of an ingredient table. A zero WeightPerUnit is
// written back as an empty cell.
type ExternalRow struct {
	Name              string  `json:"name"`
	MeasurementUnit   string  `json:"measurement_unit"`
	WeightPerUnit     float64 `json:"weight_per_unit,omitempty"`
	Protein           float64 `json:"protein_per_100g"`
	Calories          float64 `json:"calories_per_100g"`
	Fat               float64 `json:"fat_per_100g"`
	Carbohydrates     float64 `json:"carbohydrates_per_100g"`
	AlcoholPercentage float64 `json:"alcohol_percentage"`
}

// Key returns the canonical name used for matching and indexing.
func (r ExternalRow) Key() string {
	return textutil.CanonicalName(r.Name)
}

// Unit returns the trimmed measurement unit.
func (r ExternalRow) Unit() string {
	return strings.TrimSpace(r.MeasurementUnit)
}

// Ingredient converts the row into a catalog record.
func (r ExternalRow) Ingredient() nutrition.Ingredient {
	return nutrition.NewIngredient(r.Name, r.MeasurementUnit, r.WeightPerUnit,
		nutrition.Component{Name: nutrition.ComponentProtein, QuantityPer100: r.Protein},
		nutrition.Component{Name: nutrition.ComponentCalories, QuantityPer100: r.Calories},
		nutrition.Component{Name: nutrition.ComponentFat, QuantityPer100: r.Fat},
		nutrition.Component{Name: nutrition.ComponentCarbohydrates, QuantityPer100: r.Carbohydrates},
		nutrition.Component{Name: nutrition.ComponentAlcohol, QuantityPer100: r.AlcoholPercentage},
	)
}

// RowFromIngredient flattens a catalog record into table form. Components the
// table has no column for are dropped.
func RowFromIngredient(ing nutrition.Ingredient) ExternalRow {
	value := func(name string) float64 {
		v, _ := ing.Component(name)
		return v
	}
	return ExternalRow{
		Name:              ing.Name,
		MeasurementUnit:   ing.MeasurementUnit,
		WeightPerUnit:     ing.WeightPerUnit,
		Protein:           value(nutrition.ComponentProtein),
		Calories:          value(nutrition.ComponentCalories),
		Fat:               value(nutrition.ComponentFat),
		Carbohydrates:     value(nutrition.ComponentCarbohydrates),
		AlcoholPercentage: value(nutrition.ComponentAlcohol),
	}
}

// ToIngredients converts every row.
func ToIngredients(rows []ExternalRow) []nutrition.Ingredient {
	out := make([]nutrition.Ingredient, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Ingredient())
	}
	return out
}
