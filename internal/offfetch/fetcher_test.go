package offfetch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mealprep/internal/dataset"
	"mealprep/internal/fileutil"
)

type fakePages struct {
	pages    map[int]*SearchResponse
	failAt   map[int]error
	requests []int
}

func (f *fakePages) FetchPage(_ context.Context, page int) (*SearchResponse, error) {
	f.requests = append(f.requests, page)
	if err, ok := f.failAt[page]; ok {
		return nil, err
	}
	if resp, ok := f.pages[page]; ok {
		return resp, nil
	}
	return &SearchResponse{}, nil
}

func intPtr(v int) *int { return &v }

func num(v float64) *Number {
	n := Number(v)
	return &n
}

func product(name string) Product {
	return Product{
		ProductName: name,
		Quantity:    "100 g",
		Nutriments: Nutriments{
			EnergyKcal:    num(100),
			Proteins:      num(10),
			Fat:           num(1),
			Carbohydrates: num(5),
		},
	}
}

func page(count int, products ...Product) *SearchResponse {
	return &SearchResponse{Count: intPtr(count), Products: products}
}

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func newTestFetcher(pages PageFetcher) *Fetcher {
	return NewFetcher(pages, WithPageDelay(time.Second), WithPageSleeper(noSleep))
}

func loadNames(t *testing.T, path string) []string {
	t.Helper()
	table, err := dataset.LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	names := make([]string, 0, table.Len())
	for _, row := range table.Rows {
		names = append(names, row.Name)
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRunStopsAtAPICount(t *testing.T) {
	output := filepath.Join(t.TempDir(), "off.csv")
	pages := &fakePages{pages: map[int]*SearchResponse{
		1: page(3, product("Kaas"), Product{ProductName: "leeg"}),
		2: page(3, product("Melk")),
		3: page(3, product("never requested")),
	}}

	result, err := newTestFetcher(pages).Run(context.Background(), Options{Output: output})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Written != 2 || result.Fetched != 3 || result.LastPage != 2 || result.Total != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if got := loadNames(t, output); !equalStrings(got, []string{"kaas", "melk"}) {
		t.Fatalf("rows = %v", got)
	}
	if exists, _ := fileutil.Exists(CheckpointPath(output)); exists {
		t.Fatal("checkpoint should be removed after completion")
	}
}

func TestRunStopsOnEmptyPage(t *testing.T) {
	output := filepath.Join(t.TempDir(), "off.csv")
	pages := &fakePages{pages: map[int]*SearchResponse{
		1: {Products: []Product{product("appel")}},
	}}

	result, err := newTestFetcher(pages).Run(context.Background(), Options{Output: output})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Written != 1 || len(pages.requests) != 2 {
		t.Fatalf("unexpected result %+v after requests %v", result, pages.requests)
	}
}

func TestRunHonorsMaxPages(t *testing.T) {
	output := filepath.Join(t.TempDir(), "off.csv")
	pages := &fakePages{pages: map[int]*SearchResponse{
		1: page(100, product("a")),
		2: page(100, product("b")),
		3: page(100, product("c")),
	}}

	result, err := newTestFetcher(pages).Run(context.Background(), Options{Output: output, MaxPages: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.LastPage != 2 || !equalStrings(loadNames(t, output), []string{"a", "b"}) {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRunResumesFromCheckpoint(t *testing.T) {
	output := filepath.Join(t.TempDir(), "off.csv")
	boom := errors.New("gave up")
	pages := &fakePages{
		pages: map[int]*SearchResponse{
			1: page(3, product("a")),
			2: page(3, product("b")),
			3: page(3, product("c")),
		},
		failAt: map[int]error{2: boom},
	}

	result, err := newTestFetcher(pages).Run(context.Background(), Options{Output: output})
	if !errors.Is(err, boom) {
		t.Fatalf("expected page failure, got %v", err)
	}
	if result.Written != 1 {
		t.Fatalf("partial result = %+v", result)
	}
	cp, ok, err := LoadCheckpoint(output)
	if err != nil || !ok {
		t.Fatalf("expected checkpoint: ok=%v err=%v", ok, err)
	}
	if cp.LastCompletedPage != 1 || cp.TotalWritten != 1 || cp.TotalFetched != 1 {
		t.Fatalf("checkpoint = %+v", cp)
	}

	delete(pages.failAt, 2)
	pages.requests = nil
	result, err = newTestFetcher(pages).Run(context.Background(), Options{Output: output})
	if err != nil {
		t.Fatalf("resume Run: %v", err)
	}
	if !result.Resumed || result.FirstPage != 2 || result.Written != 3 || result.Fetched != 3 {
		t.Fatalf("unexpected resumed result: %+v", result)
	}
	if pages.requests[0] != 2 {
		t.Fatalf("resume started at page %d", pages.requests[0])
	}
	if got := loadNames(t, output); !equalStrings(got, []string{"a", "b", "c"}) {
		t.Fatalf("rows = %v", got)
	}
}

func TestRunIgnoresCheckpointWithoutOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "off.csv")
	if err := SaveCheckpoint(output, Checkpoint{LastCompletedPage: 5, TotalWritten: 9}); err != nil {
		t.Fatal(err)
	}
	pages := &fakePages{pages: map[int]*SearchResponse{1: page(1, product("a"))}}

	result, err := newTestFetcher(pages).Run(context.Background(), Options{Output: output})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Resumed || result.FirstPage != 1 || result.Written != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if _, err := os.Stat(CheckpointPath(output)); !os.IsNotExist(err) {
		t.Fatalf("checkpoint should be gone, stat err = %v", err)
	}
}
