package testsupport

import (
	"context"
	"testing"

	"mealprep/internal/config"
	"mealprep/internal/cookbook"
	"mealprep/internal/store"
)

// MustOpenStore opens a store.Store at the configured database path and
// registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(cfg.Paths.DatabasePath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// MustLoadBook loads the cookbook the config points at.
func MustLoadBook(t testing.TB, cfg *config.Config) *cookbook.Book {
	t.Helper()

	book, err := cookbook.Load(context.Background(), cookbook.Source{
		RecipesDir:      cfg.Paths.RecipesDir,
		IngredientsFile: cfg.Paths.IngredientsFile,
	}, nil)
	if err != nil {
		t.Fatalf("cookbook.Load: %v", err)
	}
	return book
}
