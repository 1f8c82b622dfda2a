package dataset

import (
	"strings"
	"testing"

	"mealprep/internal/nutrition"
)

func issueMessages(issues []Issue) string {
	var b strings.Builder
	for _, issue := range issues {
		b.WriteString(issue.String())
		b.WriteString("\n")
	}
	return b.String()
}

func TestValidateRecordsCleanTable(t *testing.T) {
	issues, err := ValidateRecords(strings.NewReader(sampleTable), "ingredients.csv")
	if err != nil {
		t.Fatalf("ValidateRecords: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got:\n%s", issueMessages(issues))
	}
}

func TestValidateRecordsFindsProblems(t *testing.T) {
	input := `name,measurement_unit,weight_per_unit,protein_per_100g,calories_per_100g,fat_per_100g,carbohydrates_per_100g,alcohol_percentage,notes
kaas,g,,25,400,30,0,0,
appel,stuks,,0.3,52,0.2,14,0,
melk,ml,,veel,64,3.6,4.7,0,
,g,,1,1,1,1,0,
boter,g,,-1,717,81,0.1,0,
Kaas,g,,25,400,30,0,0,
`
	issues, err := ValidateRecords(strings.NewReader(input), "ingredients.csv")
	if err != nil {
		t.Fatalf("ValidateRecords: %v", err)
	}
	report := issueMessages(issues)

	expectations := []string{
		"ingredients.csv:1 [notes]: unexpected column",
		"ingredients.csv:3 [weight_per_unit]: ingredient \"appel\" uses \"stuks\"",
		"ingredients.csv:4 [protein_per_100g]: non-numeric value \"veel\"",
		"ingredients.csv:5 [name]: missing value",
		"ingredients.csv:6 [protein_per_100g]: negative value -1",
		"ingredients.csv:7 [name]: duplicate ingredient \"Kaas\" (first seen on line 2)",
	}
	for _, want := range expectations {
		if !strings.Contains(report, want) {
			t.Errorf("missing issue %q in:\n%s", want, report)
		}
	}
}

func TestValidateRecordsMissingColumns(t *testing.T) {
	issues, err := ValidateRecords(strings.NewReader("name,measurement_unit\nkaas,g\n"), "x.csv")
	if err != nil {
		t.Fatalf("ValidateRecords: %v", err)
	}
	missing := 0
	for _, issue := range issues {
		if issue.Message == "missing required column" {
			missing++
		}
	}
	if missing != len(Columns)-2 {
		t.Fatalf("missing column issues = %d, want %d", missing, len(Columns)-2)
	}
}

func TestCheckReferences(t *testing.T) {
	catalog, err := nutrition.BuildCatalog([]nutrition.Ingredient{nutrition.NewIngredient("kipfilet", "g", 0)})
	if err != nil {
		t.Fatal(err)
	}
	files := []RecipeFile{{
		Path: "kip.yaml",
		Recipe: nutrition.Recipe{Ingredients: []nutrition.Reference{
			nutrition.NewReference("Kipfilet", 200),
			nutrition.NewReference("saffraan", 1),
		}},
	}}

	issues := CheckReferences(catalog, files)
	if len(issues) != 1 || !strings.Contains(issues[0].Message, "saffraan") {
		t.Fatalf("unexpected issues: %v", issues)
	}
}
