package offfetch

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"mealprep/internal/dataset"
)

// ethanolDensity converts grams of alcohol per 100g into an ABV percentage,
// assuming the product itself weighs about 1 g/ml.
const ethanolDensity = 0.789

// SearchResponse is one page of the search API.
type SearchResponse struct {
	Count    *int      `json:"count"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	Products []Product `json:"products"`
}

// Product holds the fields requested from the search API.
type Product struct {
	ProductName   string     `json:"product_name"`
	ProductNameNL string     `json:"product_name_nl"`
	Quantity      string     `json:"quantity"`
	Nutriments    Nutriments `json:"nutriments"`
}

// Nutriments are the per-100g values. A nil field was absent or unreadable.
type Nutriments struct {
	EnergyKcal    *Number `json:"energy-kcal_100g"`
	Proteins      *Number `json:"proteins_100g"`
	Fat           *Number `json:"fat_100g"`
	Carbohydrates *Number `json:"carbohydrates_100g"`
	Alcohol       *Number `json:"alcohol_100g"`
}

// Number accepts JSON numbers and numeric strings.
type Number float64

// UnmarshalJSON implements json.Unmarshaler. Unparseable values decode to 0
// so one odd product never fails a whole page.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*n = 0
		return nil
	}
	*n = Number(v)
	return nil
}

func (n *Number) value() (float64, bool) {
	if n == nil {
		return 0, false
	}
	return float64(*n), true
}

// ExtractRow converts a product into a table row. ok is false when the
// product has no name or lacks any of calories, protein, fat and
// carbohydrates.
func ExtractRow(p Product) (dataset.ExternalRow, bool) {
	calories, okCalories := p.Nutriments.EnergyKcal.value()
	protein, okProtein := p.Nutriments.Proteins.value()
	fat, okFat := p.Nutriments.Fat.value()
	carbs, okCarbs := p.Nutriments.Carbohydrates.value()
	if !okCalories || !okProtein || !okFat || !okCarbs {
		return dataset.ExternalRow{}, false
	}

	name := strings.TrimSpace(p.ProductNameNL)
	if name == "" {
		name = strings.TrimSpace(p.ProductName)
	}
	name = strings.ToLower(name)
	if name == "" {
		return dataset.ExternalRow{}, false
	}

	var abv float64
	if alcohol, ok := p.Nutriments.Alcohol.value(); ok && alcohol > 0 {
		abv = round1(alcohol / ethanolDensity)
	}

	return dataset.ExternalRow{
		Name:              name,
		MeasurementUnit:   GuessUnit(p.Quantity),
		Protein:           round1(protein),
		Calories:          round1(calories),
		Fat:               round1(fat),
		Carbohydrates:     round1(carbs),
		AlcoholPercentage: abv,
	}, true
}

var volumeMarkers = []string{"ml", " l", "cl", "dl", "liter", "litre"}

// GuessUnit returns "ml" when the quantity string names a volume and "g"
// otherwise.
func GuessUnit(quantity string) string {
	q := strings.ToLower(quantity)
	for _, marker := range volumeMarkers {
		if strings.Contains(q, marker) {
			return "ml"
		}
	}
	return "g"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
