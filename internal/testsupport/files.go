package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// IngredientsCSV is a small curated ingredient table covering continuous,
// discrete, and liquid units.
const IngredientsCSV = `name,measurement_unit,weight_per_unit,protein_per_100g,calories_per_100g,fat_per_100g,carbohydrates_per_100g,alcohol_percentage
kipfilet,g,,23,110,1.5,0,0
rijst,g,,7,350,0.6,78,0
ei,stuks,60,13,143,9.5,0.7,0
olijfolie,ml,,0,884,100,0,0
`

// KipRijstRecipe references two continuous ingredients.
const KipRijstRecipe = `recipe_name: Kip met rijst
description: Simpel en eiwitrijk.
rating: 4
ingredients:
  - name: Kipfilet
    quantity: 200
  - name: rijst
    quantity: 100
steps:
  - Kook de rijst.
  - Bak de kip.
`

// OmeletRecipe references a discrete ingredient and one missing ingredient.
const OmeletRecipe = `recipe_name: Omelet
ingredients:
  - name: ei
    quantity: 3
  - name: olijfolie
    quantity: 10
  - name: bieslook
    quantity: 5
`

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Tree is a recipes directory populated with fixtures.
type Tree struct {
	RecipesDir      string
	IngredientsFile string
}

// NewTree writes IngredientsCSV plus two categorized recipes below a temp
// directory:
//
//	configuration/ingredients.csv
//	configuration/hoofdgerechten/kip_rijst.yaml
//	configuration/ontbijt/omelet.yaml
func NewTree(t testing.TB) Tree {
	t.Helper()

	root := filepath.Join(t.TempDir(), "configuration")
	tree := Tree{
		RecipesDir:      root,
		IngredientsFile: filepath.Join(root, "ingredients.csv"),
	}
	WriteFile(t, tree.IngredientsFile, IngredientsCSV)
	tree.AddRecipe(t, filepath.Join("hoofdgerechten", "kip_rijst.yaml"), KipRijstRecipe)
	tree.AddRecipe(t, filepath.Join("ontbijt", "omelet.yaml"), OmeletRecipe)
	return tree
}

// AddRecipe writes a recipe file relative to the recipes directory.
func (tr Tree) AddRecipe(t testing.TB, rel, content string) string {
	t.Helper()
	path := filepath.Join(tr.RecipesDir, rel)
	WriteFile(t, path, content)
	return path
}
