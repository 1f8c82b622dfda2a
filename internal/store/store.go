package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"mealprep/internal/cookbook"
	"mealprep/internal/nutrition"
)

// Store is the SQLite mirror of a cookbook.
type Store struct {
	db   *sql.DB
	path string
}

// SyncStats counts the rows written by ReplaceBook.
type SyncStats struct {
	Recipes     int
	Ingredients int
	Components  int
	Lines       int
}

// Summary is the per-recipe row of the summary view.
type Summary struct {
	Slug            string  `json:"slug"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	TotalWeight     float64 `json:"total_weight_grams"`
	TotalProtein    float64 `json:"total_protein_grams"`
	TotalCalories   float64 `json:"total_calories_kcal"`
	ProteinPer100   float64 `json:"protein_per_100g"`
	CaloriesPer100  float64 `json:"calories_per_100g"`
	IngredientCount int     `json:"ingredient_count"`
	UnresolvedCount int     `json:"unresolved_count"`
}

// Open initializes or connects to the database at path and creates the
// schema on first use.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// ReplaceBook truncates every table and inserts book in a single
// transaction.
func (s *Store) ReplaceBook(ctx context.Context, book *cookbook.Book) (SyncStats, error) {
	var stats SyncStats
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin sync tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"recipe_ingredients", "ingredient_components", "recipes", "components", "ingredients"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return stats, fmt.Errorf("truncate %s: %w", table, err)
		}
	}

	ingredientIDs := make(map[string]int64)
	componentIDs := make(map[string]int64)
	for _, key := range book.Catalog.Names() {
		ingredient, _ := book.Catalog.Get(key)
		res, err := tx.ExecContext(ctx,
			`INSERT INTO ingredients (key, name, measurement_unit, weight_per_unit) VALUES (?, ?, ?, ?)`,
			ingredient.Key(),
			ingredient.Name,
			ingredient.MeasurementUnit,
			nullableFloat(ingredient.WeightPerUnit),
		)
		if err != nil {
			return stats, fmt.Errorf("insert ingredient %q: %w", ingredient.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return stats, fmt.Errorf("last insert id: %w", err)
		}
		ingredientIDs[key] = id
		stats.Ingredients++

		for _, component := range ingredient.Components {
			componentID, err := ensureComponent(ctx, tx, componentIDs, component.Name)
			if err != nil {
				return stats, err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO ingredient_components (ingredient_id, component_id, quantity_per_100) VALUES (?, ?, ?)`,
				id, componentID, component.QuantityPer100,
			); err != nil {
				return stats, fmt.Errorf("insert component %q of %q: %w", component.Name, ingredient.Name, err)
			}
		}
	}
	stats.Components = len(componentIDs)

	for _, entry := range book.Recipes {
		recipeID, err := insertRecipe(ctx, tx, entry)
		if err != nil {
			return stats, err
		}
		stats.Recipes++
		for position, ref := range entry.Recipe.Ingredients {
			var ingredientID any
			if id, ok := ingredientIDs[ref.Key()]; ok {
				ingredientID = id
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO recipe_ingredients (recipe_id, position, ingredient_id, name, quantity, pieces) VALUES (?, ?, ?, ?, ?, ?)`,
				recipeID, position, ingredientID, ref.Name, ref.Quantity, nullablePieces(ref),
			); err != nil {
				return stats, fmt.Errorf("insert line %d of %q: %w", position+1, entry.Recipe.Name, err)
			}
			stats.Lines++
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit sync: %w", err)
	}
	return stats, nil
}

// Summaries returns per-recipe totals ordered by category and name.
func (s *Store) Summaries(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slug, name, category, total_weight, total_protein, total_calories,
        protein_per_100, calories_per_100, ingredient_count, unresolved_count
        FROM v_recipe_summary ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(
			&sum.Slug,
			&sum.Name,
			&sum.Category,
			&sum.TotalWeight,
			&sum.TotalProtein,
			&sum.TotalCalories,
			&sum.ProteinPer100,
			&sum.CaloriesPer100,
			&sum.IngredientCount,
			&sum.UnresolvedCount,
		); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}
	return out, nil
}

func insertRecipe(ctx context.Context, tx *sql.Tx, entry cookbook.Entry) (int64, error) {
	n := entry.Nutrition
	res, err := tx.ExecContext(ctx,
		`INSERT INTO recipes (
            slug, name, description, category, rating, source_path,
            total_weight, total_protein, total_calories, total_fat, total_carbohydrates,
            protein_per_100, calories_per_100, fat_per_100, carbohydrates_per_100
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Slug,
		entry.Recipe.Name,
		nullableString(entry.Recipe.Description),
		entry.Category,
		nullableFloat(entry.Recipe.Rating),
		nullableString(entry.SourcePath),
		n.Weight,
		n.Protein,
		n.Calories,
		n.Fat,
		n.Carbohydrates,
		n.ProteinPer100,
		n.CaloriesPer100,
		n.FatPer100,
		n.CarbohydratesPer100,
	)
	if err != nil {
		return 0, fmt.Errorf("insert recipe %q: %w", entry.Recipe.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func ensureComponent(ctx context.Context, tx *sql.Tx, ids map[string]int64, name string) (int64, error) {
	if id, ok := ids[name]; ok {
		return id, nil
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO components (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("insert component %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	ids[name] = id
	return id, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value float64) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullablePieces(ref nutrition.Reference) any {
	if ref.Pieces == nil {
		return nil
	}
	return *ref.Pieces
}
