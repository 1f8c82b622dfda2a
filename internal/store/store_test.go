package store_test

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"

	_ "modernc.org/sqlite"

	"mealprep/internal/store"
	"mealprep/internal/testsupport"
)

func TestReplaceBookWritesEverything(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	book := testsupport.MustLoadBook(t, cfg)
	s := testsupport.MustOpenStore(t, cfg)

	stats, err := s.ReplaceBook(context.Background(), book)
	if err != nil {
		t.Fatalf("ReplaceBook: %v", err)
	}
	if stats.Recipes != 2 || stats.Ingredients != 4 || stats.Lines != 5 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Components != 5 {
		t.Fatalf("components = %d, want 5", stats.Components)
	}

	summaries, err := s.Summaries(context.Background())
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("summaries = %d, want 2", len(summaries))
	}
	kip := summaries[0]
	if kip.Slug != "kip_rijst" || kip.Category != "Hoofdgerechten" || kip.IngredientCount != 2 || kip.UnresolvedCount != 0 {
		t.Fatalf("unexpected kip summary: %+v", kip)
	}
	if math.Abs(kip.TotalCalories-570) > 1e-9 || math.Abs(kip.CaloriesPer100-190) > 1e-9 {
		t.Fatalf("unexpected kip totals: %+v", kip)
	}
	omelet := summaries[1]
	if omelet.IngredientCount != 3 || omelet.UnresolvedCount != 1 {
		t.Fatalf("unexpected omelet summary: %+v", omelet)
	}
}

func TestReplaceBookTruncatesPreviousSync(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	book := testsupport.MustLoadBook(t, cfg)
	s := testsupport.MustOpenStore(t, cfg)

	for i := 0; i < 2; i++ {
		if _, err := s.ReplaceBook(context.Background(), book); err != nil {
			t.Fatalf("ReplaceBook #%d: %v", i+1, err)
		}
	}
	summaries, err := s.Summaries(context.Background())
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("summaries after resync = %d, want 2", len(summaries))
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", cfg.Paths.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	_, err = store.Open(cfg.Paths.DatabasePath)
	if !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestSummariesEmptyDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	summaries, err := s.Summaries(context.Background())
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected no summaries, got %d", len(summaries))
	}
}
