package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"mealprep/internal/nutrition"
)

type ingredientsDocument struct {
	Ingredients []ingredientEntry `yaml:"ingredients"`
}

type ingredientEntry struct {
	Name            string                `yaml:"name"`
	MeasurementUnit string                `yaml:"measurement_unit"`
	WeightPerUnit   float64               `yaml:"weight_per_unit"`
	Components      []nutrition.Component `yaml:"components"`
}

type recipeDocument struct {
	RecipeName    string        `yaml:"recipe_name"`
	Description   string        `yaml:"description"`
	Ingredients   []recipeEntry `yaml:"ingredients"`
	Steps         []string      `yaml:"steps"`
	Rating        float64       `yaml:"rating"`
	DietaryLabels []string      `yaml:"dietary_labels"`
}

type recipeEntry struct {
	Name     string   `yaml:"name"`
	Quantity float64  `yaml:"quantity"`
	Pieces   *float64 `yaml:"pieces"`
}

// RecipeFile is a decoded recipe and the file it came from.
type RecipeFile struct {
	Path   string
	Recipe nutrition.Recipe
}

// LoadIngredients reads catalog records from a CSV table or a YAML
// ingredient list, chosen by file extension.
func LoadIngredients(path string) ([]nutrition.Ingredient, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		table, err := LoadTable(path)
		if err != nil {
			return nil, err
		}
		return ToIngredients(table.Rows), nil
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read ingredients: %w", err)
		}
		return DecodeIngredientsYAML(bytes.NewReader(data), path)
	default:
		return nil, fmt.Errorf("unsupported ingredients file %q: expected .csv, .yaml or .yml", path)
	}
}

// DecodeIngredientsYAML decodes a document of the form
// "ingredients: [{name, measurement_unit, weight_per_unit, components}]".
func DecodeIngredientsYAML(r io.Reader, path string) ([]nutrition.Ingredient, error) {
	var doc ingredientsDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	out := make([]nutrition.Ingredient, 0, len(doc.Ingredients))
	for _, entry := range doc.Ingredients {
		components := make([]nutrition.Component, 0, len(entry.Components))
		for _, c := range entry.Components {
			components = append(components, nutrition.Component{
				Name:           strings.ToLower(strings.TrimSpace(c.Name)),
				QuantityPer100: c.QuantityPer100,
			})
		}
		out = append(out, nutrition.NewIngredient(entry.Name, entry.MeasurementUnit, entry.WeightPerUnit, components...))
	}
	return out, nil
}

// LoadRecipe decodes one recipe file. ok is false for YAML documents that
// are not recipes (no recipe_name).
func LoadRecipe(path string) (recipe nutrition.Recipe, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nutrition.Recipe{}, false, fmt.Errorf("read recipe: %w", err)
	}
	return DecodeRecipe(bytes.NewReader(data), path)
}

// DecodeRecipe decodes a recipe document, canonicalizing reference keys.
func DecodeRecipe(r io.Reader, path string) (nutrition.Recipe, bool, error) {
	var doc recipeDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nutrition.Recipe{}, false, nil
		}
		return nutrition.Recipe{}, false, &ParseError{Path: path, Err: err}
	}
	if strings.TrimSpace(doc.RecipeName) == "" {
		return nutrition.Recipe{}, false, nil
	}

	recipe := nutrition.Recipe{
		Name:          strings.TrimSpace(doc.RecipeName),
		Description:   strings.TrimSpace(doc.Description),
		Steps:         doc.Steps,
		Rating:        doc.Rating,
		DietaryLabels: doc.DietaryLabels,
		Ingredients:   make([]nutrition.Reference, 0, len(doc.Ingredients)),
	}
	for i, entry := range doc.Ingredients {
		if strings.TrimSpace(entry.Name) == "" {
			return nutrition.Recipe{}, false, &ParseError{
				Path: path,
				Err:  fmt.Errorf("ingredient %d has no name", i+1),
			}
		}
		if invalidQuantity(entry.Quantity) || (entry.Pieces != nil && invalidQuantity(*entry.Pieces)) {
			return nutrition.Recipe{}, false, &ParseError{
				Path: path,
				Err:  fmt.Errorf("ingredient %q: quantity must be a non-negative number", strings.TrimSpace(entry.Name)),
			}
		}
		ref := nutrition.NewReference(entry.Name, entry.Quantity)
		ref.Pieces = entry.Pieces
		recipe.Ingredients = append(recipe.Ingredients, ref)
	}
	return recipe, true, nil
}

func invalidQuantity(v float64) bool {
	return v < 0 || math.IsNaN(v) || math.IsInf(v, 0)
}

// FindRecipeFiles walks dir for .yaml and .yml files in lexical order,
// skipping any path listed in exclude and every file named ingredients.yaml.
func FindRecipeFiles(dir string, exclude ...string) ([]string, error) {
	skip := make(map[string]struct{}, len(exclude))
	for _, path := range exclude {
		if path == "" {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			skip[abs] = struct{}{}
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if d.Name() == "ingredients.yaml" || d.Name() == "ingredients.yml" {
			return nil
		}
		if abs, err := filepath.Abs(path); err == nil {
			if _, excluded := skip[abs]; excluded {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk recipes: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// LoadRecipes decodes every recipe under dir. Non-recipe YAML documents are
// skipped.
func LoadRecipes(dir string, exclude ...string) ([]RecipeFile, error) {
	paths, err := FindRecipeFiles(dir, exclude...)
	if err != nil {
		return nil, err
	}
	out := make([]RecipeFile, 0, len(paths))
	for _, path := range paths {
		recipe, ok, err := LoadRecipe(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, RecipeFile{Path: path, Recipe: recipe})
	}
	return out, nil
}
