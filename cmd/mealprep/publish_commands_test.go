package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"mealprep/internal/dataset"
	"mealprep/internal/export"
	"mealprep/internal/store"
	"mealprep/internal/testsupport"
)

func TestSiteWritesPages(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(t.TempDir(), "site")

	out, _, err := runCLI(t, env, nil, "site", "--out", dir)
	if err != nil {
		t.Fatalf("site: %v", err)
	}
	requireContains(t, out, "Wrote 3 pages to "+dir)
	for _, name := range []string{"index.html", "kip_rijst.html", "omelet.html"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}

func TestSiteDefaultsToConfiguredDirectory(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, env, nil, "site"); err != nil {
		t.Fatalf("site: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.cfg.Paths.SiteDir, "index.html")); err != nil {
		t.Fatalf("expected index in site_dir: %v", err)
	}
}

func TestExportWritesWorkbook(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(t.TempDir(), "recipes.xlsx")

	out, _, err := runCLI(t, env, nil, "export", "--out", path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "Exported 2 recipes")

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(export.RecipesSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("recipe rows = %d, want header plus 2", len(rows))
	}
}

func TestExportRequiresOut(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, nil, "export")
	if err == nil || !strings.Contains(err.Error(), `"out"`) {
		t.Fatalf("expected required flag error, got %v", err)
	}
}

func TestDBSyncAndSummary(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, nil, "db", "summary")
	if err != nil {
		t.Fatalf("db summary: %v", err)
	}
	requireContains(t, out, "Database is empty")

	out, _, err = runCLI(t, env, nil, "db", "sync")
	if err != nil {
		t.Fatalf("db sync: %v", err)
	}
	requireContains(t, out, "Synced 2 recipes, 4 ingredients", env.cfg.Paths.DatabasePath)

	out, _, err = runCLI(t, env, nil, "db", "summary", "--json")
	if err != nil {
		t.Fatalf("db summary --json: %v", err)
	}
	var summaries []store.Summary
	if err := json.Unmarshal([]byte(out), &summaries); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(summaries) != 2 {
		t.Fatalf("summaries = %d, want 2", len(summaries))
	}
	var found bool
	for _, s := range summaries {
		if s.Slug == "kip_rijst" {
			found = true
			if math.Abs(s.TotalCalories-570) > 1e-6 {
				t.Fatalf("kip calories = %v, want 570", s.TotalCalories)
			}
		}
	}
	if !found {
		t.Fatalf("kip_rijst missing from %+v", summaries)
	}

	out, _, err = runCLI(t, env, nil, "db", "summary")
	if err != nil {
		t.Fatalf("db summary: %v", err)
	}
	requireContains(t, out, "Kip met rijst", "Omelet")
}

func TestFetchWritesExternalTable(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if page != "1" {
			fmt.Fprint(w, `{"count": 2, "page": 2, "page_size": 100, "products": []}`)
			return
		}
		fmt.Fprint(w, `{"count": 2, "page": 1, "page_size": 100, "products": [
			{"product_name": "Halfvolle melk", "quantity": "1 l", "nutriments": {"energy-kcal_100g": 46, "proteins_100g": 3.5, "fat_100g": 1.5, "carbohydrates_100g": 4.8}},
			{"product_name": "Pindakaas", "quantity": "350 g", "nutriments": {"energy-kcal_100g": 620, "proteins_100g": 25, "fat_100g": 50, "carbohydrates_100g": 12}}
		]}`)
	}))
	defer server.Close()

	env := setupCLITestEnv(t, testsupport.WithFetchBaseURL(server.URL))

	out, _, err := runCLI(t, env, nil, "fetch")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	requireContains(t, out, "Done. 2 ingredients written to "+env.cfg.Paths.ExternalFile)
	if got := requests.Load(); got != 1 {
		t.Fatalf("requests = %d, want only page 1", got)
	}

	table, err := dataset.LoadTable(env.cfg.Paths.ExternalFile)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if table.Len() != 2 || table.Rows[0].Name != "halfvolle melk" || table.Rows[0].MeasurementUnit != "ml" {
		t.Fatalf("unexpected rows: %+v", table.Rows)
	}
}

func TestFetchRejectsNegativeMaxPages(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, nil, "fetch", "--max-pages", "-1")
	if err == nil || !strings.Contains(err.Error(), "--max-pages") {
		t.Fatalf("expected max pages error, got %v", err)
	}
}

func TestServeStopsWhenContextEnds(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	out, _, err := runCLIContext(t, ctx, env, nil, "serve", "--bind", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("serve: %v", err)
	}
	requireContains(t, out, "Serving recipes on http://127.0.0.1:0")
}

func TestServeFailsOnBrokenCatalog(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, env.cfg.Paths.IngredientsFile, "name,measurement_unit,protein_per_100g\nkaas,g,veel\n")

	_, _, err := runCLI(t, env, nil, "serve")
	if err == nil {
		t.Fatal("expected catalog error")
	}
}
