package nutrition

import (
	"strings"

	"mealprep/internal/textutil"
)

// Component names understood by the aggregator.
const (
	ComponentProtein       = "protein"
	ComponentCalories      = "calories"
	ComponentFat           = "fat"
	ComponentCarbohydrates = "carbohydrates"
)

// ComponentAlcohol holds alcohol by volume in percent, not an amount per
// 100 units. It is carried for display and never aggregated.
const ComponentAlcohol = "alcohol"

// Component is the amount of one nutrient per 100 grams or millilitres.
// ComponentAlcohol is the exception.
type Component struct {
	Name           string  `json:"name" yaml:"name"`
	QuantityPer100 float64 `json:"quantity_per_100" yaml:"quantity_per_100_g"`
}

// Ingredient is a catalog entry.
type Ingredient struct {
	Name            string      `json:"name"`
	MeasurementUnit string      `json:"measurement_unit"`
	WeightPerUnit   float64     `json:"weight_per_unit,omitempty"`
	Components      []Component `json:"components"`
}

// NewIngredient builds an Ingredient with trimmed name and unit.
func NewIngredient(name, unit string, weightPerUnit float64, components ...Component) Ingredient {
	return Ingredient{
		Name:            strings.TrimSpace(name),
		MeasurementUnit: strings.TrimSpace(unit),
		WeightPerUnit:   weightPerUnit,
		Components:      components,
	}
}

// Key is the canonical catalog key of the ingredient name.
func (i Ingredient) Key() string {
	return textutil.CanonicalName(i.Name)
}

// Component returns the per-100 quantity of the named component.
func (i Ingredient) Component(name string) (float64, bool) {
	for _, c := range i.Components {
		if c.Name == name {
			return c.QuantityPer100, true
		}
	}
	return 0, false
}

// Discrete reports whether the ingredient is counted in units rather than
// measured in grams or millilitres.
func (i Ingredient) Discrete() bool {
	return !IsBaseUnit(i.MeasurementUnit)
}

// IsBaseUnit reports whether unit is directly comparable to per-100 figures.
// "g/ml" is accepted as a legacy spelling.
func IsBaseUnit(unit string) bool {
	switch strings.TrimSpace(unit) {
	case "g", "ml", "g/ml":
		return true
	default:
		return false
	}
}

// Reference is one line of a recipe.
type Reference struct {
	Name     string   `json:"name"`
	Quantity float64  `json:"quantity"`
	Pieces   *float64 `json:"pieces,omitempty"`
}

// NewReference builds a Reference with a trimmed name.
func NewReference(name string, quantity float64) Reference {
	return Reference{
		Name:     strings.TrimSpace(name),
		Quantity: quantity,
	}
}

// Key is the canonical catalog key the reference resolves against.
func (r Reference) Key() string {
	return textutil.CanonicalName(r.Name)
}

// Recipe is an ordered list of ingredient references plus display metadata.
type Recipe struct {
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	Ingredients   []Reference `json:"ingredients"`
	Steps         []string    `json:"steps,omitempty"`
	Rating        float64     `json:"rating,omitempty"`
	DietaryLabels []string    `json:"dietary_labels,omitempty"`
}
