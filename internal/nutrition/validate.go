package nutrition

import (
	"math"
	"strings"
)

// Validate checks the structural invariants of an ingredient record.
func (i Ingredient) Validate() error {
	if i.Key() == "" {
		return &ValidationError{Name: i.Name, Field: "name", Reason: "must be set"}
	}
	if strings.TrimSpace(i.MeasurementUnit) == "" {
		return &ValidationError{Name: i.Name, Field: "measurement_unit", Reason: "must be set"}
	}
	if badNumber(i.WeightPerUnit) || i.WeightPerUnit < 0 {
		return &ValidationError{Name: i.Name, Field: "weight_per_unit", Reason: "must be a non-negative number"}
	}
	if i.Discrete() && i.WeightPerUnit <= 0 {
		return &ValidationError{
			Name:   i.Name,
			Field:  "weight_per_unit",
			Reason: "required and positive for unit " + quote(i.MeasurementUnit),
		}
	}
	seen := make(map[string]struct{}, len(i.Components))
	for _, c := range i.Components {
		if c.Name == "" {
			return &ValidationError{Name: i.Name, Field: "components", Reason: "component without a name"}
		}
		if _, dup := seen[c.Name]; dup {
			return &ValidationError{Name: i.Name, Field: "components", Reason: "duplicate component " + quote(c.Name)}
		}
		seen[c.Name] = struct{}{}
		if badNumber(c.QuantityPer100) || c.QuantityPer100 < 0 {
			return &ValidationError{Name: i.Name, Field: "components", Reason: "negative or invalid quantity for " + quote(c.Name)}
		}
		if c.Name == ComponentAlcohol && c.QuantityPer100 > 100 {
			return &ValidationError{Name: i.Name, Field: "components", Reason: "alcohol percentage above 100"}
		}
	}
	return nil
}

func badNumber(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

func quote(s string) string {
	return "\"" + s + "\""
}
