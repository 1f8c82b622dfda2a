package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"mealprep/internal/nutrition"
)

const sampleTable = `name,measurement_unit,weight_per_unit,protein_per_100g,calories_per_100g,fat_per_100g,carbohydrates_per_100g,alcohol_percentage
kipfilet,g,,23,110,1.5,0,0
ei,stuks,60,12.5,143,9.5,0.7,0

bier,ml,,0.5,43,0,3.6,5
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingredients.csv")
	writeFile(t, path, sampleTable)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("rows = %d, want 3 (blank line skipped)", table.Len())
	}
	ei := table.Rows[1]
	if ei.Name != "ei" || ei.MeasurementUnit != "stuks" || ei.WeightPerUnit != 60 || ei.Protein != 12.5 {
		t.Fatalf("unexpected ei row: %#v", ei)
	}
	if table.Rows[2].AlcoholPercentage != 5 {
		t.Fatalf("alcohol = %v, want 5", table.Rows[2].AlcoholPercentage)
	}
}

func TestReadRowsLocatesColumnsByHeader(t *testing.T) {
	input := "measurement_unit,Name,calories_per_100g\ng,Rijst,350\n"
	rows, err := ReadRows(strings.NewReader(input), "inline.csv")
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	want := []ExternalRow{{Name: "Rijst", MeasurementUnit: "g", Calories: 350}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %#v, want %#v", rows, want)
	}
}

func TestReadRowsReportsCellErrors(t *testing.T) {
	input := "name,measurement_unit,protein_per_100g\nkaas,g,25\nmelk,ml,veel\n"
	_, err := ReadRows(strings.NewReader(input), "bad.csv")

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Line != 3 || perr.Column != ColumnProtein || perr.Path != "bad.csv" {
		t.Fatalf("unexpected error location: %+v", perr)
	}
}

func TestReadRowsRequiresNameColumn(t *testing.T) {
	_, err := ReadRows(strings.NewReader("measurement_unit\ng\n"), "x.csv")
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Column != ColumnName {
		t.Fatalf("expected missing name column error, got %v", err)
	}
}

func TestWriteTableThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "off", "products.csv")
	rows := []ExternalRow{
		{Name: "olijfolie extra vergine", MeasurementUnit: "ml", Protein: 0, Calories: 824, Fat: 91.6},
		{Name: "appel", MeasurementUnit: "stuks", WeightPerUnit: 150, Calories: 52, Carbohydrates: 14},
	}

	if err := WriteTable(path, rows); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != strings.Join(Columns, ",") {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "olijfolie extra vergine,ml,,0,824,91.6,0,0" {
		t.Fatalf("first row = %q", lines[1])
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if !reflect.DeepEqual(table.Rows, rows) {
		t.Fatalf("rows = %#v, want %#v", table.Rows, rows)
	}
}

func TestRowIngredientConversion(t *testing.T) {
	row := ExternalRow{Name: " Ei ", MeasurementUnit: "stuks", WeightPerUnit: 60, Protein: 12.5, Calories: 143}
	ing := row.Ingredient()

	if ing.Key() != "ei" || ing.Name != "Ei" {
		t.Fatalf("unexpected identity: %#v", ing)
	}
	if protein, ok := ing.Component(nutrition.ComponentProtein); !ok || protein != 12.5 {
		t.Fatalf("protein = %v, %v", protein, ok)
	}
	back := RowFromIngredient(ing)
	if back.Protein != 12.5 || back.Calories != 143 || back.WeightPerUnit != 60 {
		t.Fatalf("unexpected flattened row: %#v", back)
	}
}
