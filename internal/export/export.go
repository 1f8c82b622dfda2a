// Package export writes a cookbook to an xlsx workbook: one sheet of recipe
// totals and one shopping-list sheet with a row per recipe line.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"mealprep/internal/cookbook"
	"mealprep/internal/fileutil"
	"mealprep/internal/nutrition"
)

// Sheet names.
const (
	RecipesSheet     = "Recipes"
	IngredientsSheet = "Ingredients"
)

var recipeHeader = []any{
	"slug",
	"recipe",
	"category",
	"weight_g",
	"protein_g",
	"calories_kcal",
	"fat_g",
	"carbohydrates_g",
	"protein_per_100g",
	"calories_per_100g",
	"fat_per_100g",
	"carbohydrates_per_100g",
	"unresolved",
}

var ingredientHeader = []any{
	"recipe",
	"category",
	"line",
	"ingredient",
	"quantity",
	"unit",
	"mass_g",
}

// WriteWorkbook builds the workbook for book and atomically writes it to
// path.
func WriteWorkbook(path string, book *cookbook.Book) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Write(w, book)
	})
}

// Write streams the workbook for book to w.
func Write(w io.Writer, book *cookbook.Book) error {
	f, err := Build(book)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Build assembles the workbook in memory. Callers close the returned file.
func Build(book *cookbook.Book) (*excelize.File, error) {
	f := excelize.NewFile()

	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(defaultSheet, RecipesSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(IngredientsSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	if err := writeRecipes(f, book); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeIngredients(f, book); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func writeRecipes(f *excelize.File, book *cookbook.Book) error {
	if err := f.SetSheetRow(RecipesSheet, "A1", &recipeHeader); err != nil {
		return fmt.Errorf("write recipes header: %w", err)
	}
	if book == nil {
		return nil
	}
	row := 2
	for _, entry := range book.Recipes {
		n := entry.Nutrition
		values := []any{
			entry.Slug,
			entry.Recipe.Name,
			entry.Category,
			n.Weight,
			n.Protein,
			n.Calories,
			n.Fat,
			n.Carbohydrates,
			n.ProteinPer100,
			n.CaloriesPer100,
			n.FatPer100,
			n.CarbohydratesPer100,
			len(n.Unresolved),
		}
		if err := setRow(f, RecipesSheet, row, values); err != nil {
			return fmt.Errorf("write recipe %q: %w", entry.Recipe.Name, err)
		}
		row++
	}
	return nil
}

func writeIngredients(f *excelize.File, book *cookbook.Book) error {
	if err := f.SetSheetRow(IngredientsSheet, "A1", &ingredientHeader); err != nil {
		return fmt.Errorf("write ingredients header: %w", err)
	}
	if book == nil {
		return nil
	}
	row := 2
	for _, entry := range book.Recipes {
		for _, ref := range entry.Recipe.Ingredients {
			values := []any{entry.Recipe.Name, entry.Category}
			if ingredient, ok := book.Catalog.Get(ref.Key()); ok {
				values = append(values,
					nutrition.DisplayLine(ref, ingredient),
					ingredient.Name,
					ref.Quantity,
					ingredient.MeasurementUnit,
					nutrition.EffectiveMass(ref, ingredient),
				)
			} else {
				values = append(values, "not in catalog", ref.Name, ref.Quantity, "", "")
			}
			if err := setRow(f, IngredientsSheet, row, values); err != nil {
				return fmt.Errorf("write line %q of %q: %w", ref.Name, entry.Recipe.Name, err)
			}
			row++
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
