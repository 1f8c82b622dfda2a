package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"mealprep/internal/nutrition"
	"mealprep/internal/textutil"
)

// Issue is one problem found while checking a table or a recipe.
type Issue struct {
	Path    string `json:"path"`
	Line    int    `json:"line,omitempty"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	var b strings.Builder
	b.WriteString(i.Path)
	if i.Line > 0 {
		b.WriteString(":" + strconv.Itoa(i.Line))
	}
	if i.Column != "" {
		b.WriteString(" [" + i.Column + "]")
	}
	b.WriteString(": ")
	b.WriteString(i.Message)
	return b.String()
}

var optionalColumns = map[string]bool{
	ColumnWeightPerUnit: true,
}

var numericColumns = map[string]bool{
	ColumnWeightPerUnit:     true,
	ColumnProtein:           true,
	ColumnCalories:          true,
	ColumnFat:               true,
	ColumnCarbohydrates:     true,
	ColumnAlcoholPercentage: true,
}

// ValidateTable checks the CSV at path against the table layout. The error
// is reserved for files that cannot be read at all.
func ValidateTable(path string) ([]Issue, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer file.Close()
	return ValidateRecords(file, path)
}

// ValidateRecords checks CSV content read from r.
func ValidateRecords(r io.Reader, path string) ([]Issue, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []Issue{{Path: path, Message: "table is empty"}}, nil
	}
	if err != nil {
		return nil, &ParseError{Path: path, Line: 1, Err: err}
	}

	var issues []Issue
	add := func(line int, column, format string, args ...any) {
		issues = append(issues, Issue{Path: path, Line: line, Column: column, Message: fmt.Sprintf(format, args...)})
	}

	index := headerIndex(header)
	for _, column := range Columns {
		if _, ok := index[column]; !ok {
			add(1, column, "missing required column")
		}
	}
	known := make(map[string]bool, len(Columns))
	for _, column := range Columns {
		known[column] = true
	}
	var unexpected []string
	for column := range index {
		if !known[column] {
			unexpected = append(unexpected, column)
		}
	}
	sort.Strings(unexpected)
	for _, column := range unexpected {
		add(1, column, "unexpected column")
	}

	firstSeen := make(map[string]int)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				add(csvErr.Line, "", "malformed row: %v", csvErr.Err)
				continue
			}
			return nil, &ParseError{Path: path, Err: err}
		}
		if blankRecord(record) {
			continue
		}
		line, _ := reader.FieldPos(0)

		cell := func(column string) (string, bool) {
			i, ok := index[column]
			if !ok {
				return "", false
			}
			if i >= len(record) {
				return "", true
			}
			return strings.TrimSpace(record[i]), true
		}

		name, _ := cell(ColumnName)
		label := name
		if label == "" {
			label = "?"
		}

		for _, column := range Columns {
			value, present := cell(column)
			if !present {
				continue
			}
			if value == "" {
				if !optionalColumns[column] {
					add(line, column, "missing value (ingredient %q)", label)
				}
				continue
			}
			if !numericColumns[column] {
				continue
			}
			number, err := strconv.ParseFloat(value, 64)
			if err != nil {
				add(line, column, "non-numeric value %q (ingredient %q)", value, label)
				continue
			}
			if number < 0 {
				add(line, column, "negative value %s (ingredient %q)", value, label)
			}
		}

		unit, hasUnit := cell(ColumnMeasurementUnit)
		weight, _ := cell(ColumnWeightPerUnit)
		if hasUnit && unit != "" && !nutrition.IsBaseUnit(unit) && weight == "" {
			add(line, ColumnWeightPerUnit,
				"ingredient %q uses %q but has no weight_per_unit; use g or ml or add a conversion", label, unit)
		}

		if key := textutil.CanonicalName(name); key != "" {
			if first, dup := firstSeen[key]; dup {
				add(line, ColumnName, "duplicate ingredient %q (first seen on line %d)", name, first)
			} else {
				firstSeen[key] = line
			}
		}
	}
	return issues, nil
}

// CheckReferences reports every recipe reference that names no ingredient in
// catalog.
func CheckReferences(catalog *nutrition.Catalog, recipes []RecipeFile) []Issue {
	var issues []Issue
	for _, file := range recipes {
		for _, ref := range file.Recipe.Ingredients {
			if _, ok := catalog.Get(ref.Key()); ok {
				continue
			}
			issues = append(issues, Issue{
				Path:    file.Path,
				Message: fmt.Sprintf("ingredient %q not found in catalog", ref.Name),
			})
		}
	}
	return issues
}
