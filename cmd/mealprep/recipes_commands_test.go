package main

import (
	"encoding/json"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"mealprep/internal/cookbook"
	"mealprep/internal/testsupport"
	"mealprep/internal/web"
)

func TestRecipesList(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, nil, "recipes", "list")
	if err != nil {
		t.Fatalf("recipes list: %v", err)
	}
	requireContains(t, out, "Kip met rijst", "kip_rijst", "Hoofdgerechten", "570", "Omelet *", "2 recipes")
	if strings.Index(out, "Kip met rijst") > strings.Index(out, "Omelet") {
		t.Fatalf("expected Hoofdgerechten before Ontbijt\n%s", out)
	}
}

func TestRecipesListFiltersByCategory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, nil, "recipes", "list", "--category", "ontbijt")
	if err != nil {
		t.Fatalf("recipes list: %v", err)
	}
	requireContains(t, out, "Omelet", "1 recipe")
	requireNotContains(t, out, "Kip met rijst")

	out, _, err = runCLI(t, env, nil, "recipes", "list", "--category", "nagerecht")
	if err != nil {
		t.Fatalf("recipes list: %v", err)
	}
	requireContains(t, out, "No recipes found")
}

func TestRecipesListJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, nil, "recipes", "list", "--json")
	if err != nil {
		t.Fatalf("recipes list --json: %v", err)
	}
	var summaries []web.RecipeSummary
	if err := json.Unmarshal([]byte(out), &summaries); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(summaries) != 2 {
		t.Fatalf("summaries = %d, want 2", len(summaries))
	}
	kip := summaries[0]
	if kip.Slug != "kip_rijst" || math.Abs(kip.TotalCalories-570) > 1e-9 || math.Abs(kip.TotalWeight-300) > 1e-9 {
		t.Fatalf("unexpected first summary: %+v", kip)
	}
	if summaries[1].UnresolvedReference != 1 {
		t.Fatalf("omelet unresolved = %d, want 1", summaries[1].UnresolvedReference)
	}
}

func TestRecipesShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, nil, "recipes", "show", "kip_rijst")
	if err != nil {
		t.Fatalf("recipes show: %v", err)
	}
	requireContains(t, out,
		"Kip met rijst",
		"Category: Hoofdgerechten",
		"Rating: 4/5",
		"Simpel en eiwitrijk.",
		"200g kipfilet",
		"100g rijst",
		"53.0",
		"1. Kook de rijst.",
		"2. Bak de kip.",
	)

	out, _, err = runCLI(t, env, nil, "recipes", "show", "omelet")
	if err != nil {
		t.Fatalf("recipes show omelet: %v", err)
	}
	requireContains(t, out, "3 stuks ei", "10ml olijfolie", "! bieslook (not in catalog")
}

func TestRecipesShowJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, nil, "recipes", "show", "omelet", "--json")
	if err != nil {
		t.Fatalf("recipes show --json: %v", err)
	}
	var entry cookbook.Entry
	if err := json.Unmarshal([]byte(out), &entry); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if entry.Recipe.Name != "Omelet" || math.Abs(entry.Nutrition.Weight-190) > 1e-9 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestRecipesShowUnknownSlug(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, nil, "recipes", "show", "pannenkoek")
	if err == nil || !strings.Contains(err.Error(), `recipe "pannenkoek" not found`) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestValidateReportsUnresolvedReferences(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, nil, "validate")
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if exitCode(err) != 2 {
		t.Fatalf("exit code = %d, want 2 (%v)", exitCode(err), err)
	}
	requireContains(t, out, "omelet.yaml", `ingredient "bieslook" not found in catalog`)
	requireContains(t, err.Error(), "validation found 1 issue")
}

func TestValidateCleanTree(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.RecipesDir, "ontbijt", "omelet.yaml"), `recipe_name: Omelet
ingredients:
  - name: ei
    quantity: 2
`)

	out, _, err := runCLI(t, env, nil, "validate")
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	requireContains(t, out, "Validated 4 ingredients and 2 recipes: no issues found")
}

func TestValidateReportsTableProblems(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, env.cfg.Paths.IngredientsFile, testsupport.IngredientsCSV+"kipfilet,g,,24,112,1.5,0,0\n")

	out, _, err := runCLI(t, env, nil, "validate", "--json")
	if err == nil {
		t.Fatal("expected validation failure")
	}
	var result validationResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(result.Issues) != 1 || !strings.Contains(result.Issues[0].Message, "duplicate ingredient") {
		t.Fatalf("issues = %+v", result.Issues)
	}
}
