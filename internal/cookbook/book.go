package cookbook

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"mealprep/internal/dataset"
	"mealprep/internal/logging"
	"mealprep/internal/nutrition"
	"mealprep/internal/textutil"
)

// UncategorizedLabel is the category of recipes stored directly in the
// recipes directory.
const UncategorizedLabel = "Uncategorized"

// Source names the files a Book is loaded from.
type Source struct {
	RecipesDir      string
	IngredientsFile string
}

// Entry is one recipe together with its derived nutrition.
type Entry struct {
	Recipe     nutrition.Recipe     `json:"recipe"`
	Nutrition  nutrition.Aggregated `json:"nutrition"`
	Category   string               `json:"category"`
	Slug       string               `json:"slug"`
	SourcePath string               `json:"source_path"`
}

// Category groups entries sharing a category label.
type Category struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// Book is a loaded cookbook.
type Book struct {
	Recipes    []Entry
	Categories []Category
	Catalog    *nutrition.Catalog
}

// Load reads the catalog and every recipe below src.RecipesDir. References
// missing from the catalog are logged and left out of the totals.
func Load(ctx context.Context, src Source, logger *slog.Logger) (*Book, error) {
	logger = logging.NewComponentLogger(logger, "cookbook")

	records, err := dataset.LoadIngredients(src.IngredientsFile)
	if err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}
	catalog, err := nutrition.BuildCatalog(records)
	if err != nil {
		return nil, fmt.Errorf("build catalog from %s: %w", src.IngredientsFile, err)
	}

	files, err := dataset.LoadRecipes(src.RecipesDir, src.IngredientsFile)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}

	book := &Book{
		Recipes: make([]Entry, 0, len(files)),
		Catalog: catalog,
	}
	slugs := make(map[string]int, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry := Entry{
			Recipe:     file.Recipe,
			Nutrition:  nutrition.Aggregate(file.Recipe, catalog),
			Category:   categoryFor(src.RecipesDir, file.Path),
			Slug:       uniqueSlug(slugs, file.Path),
			SourcePath: file.Path,
		}
		for _, name := range entry.Nutrition.Unresolved {
			logging.WarnWithContext(logger, "ingredient not in catalog", "unresolved_ingredient",
				logging.Recipe(entry.Recipe.Name),
				logging.Ingredient(name),
				logging.Path(file.Path),
				logging.String(logging.FieldImpact, "ingredient excluded from nutrition totals"),
			)
		}
		book.Recipes = append(book.Recipes, entry)
	}

	sort.SliceStable(book.Recipes, func(i, j int) bool {
		a, b := book.Recipes[i], book.Recipes[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return strings.ToLower(a.Recipe.Name) < strings.ToLower(b.Recipe.Name)
	})
	book.Categories = groupCategories(book.Recipes)

	logger.Debug("cookbook loaded",
		logging.Int("recipes", len(book.Recipes)),
		logging.Int("ingredients", catalog.Len()),
	)
	return book, nil
}

// Find returns the entry with the given slug.
func (b *Book) Find(slug string) (Entry, bool) {
	if b == nil {
		return Entry{}, false
	}
	for _, entry := range b.Recipes {
		if entry.Slug == slug {
			return entry, true
		}
	}
	return Entry{}, false
}

// Len returns the number of recipes.
func (b *Book) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Recipes)
}

// RecipeFiles returns the loaded recipes in the form CheckReferences expects.
func (b *Book) RecipeFiles() []dataset.RecipeFile {
	if b == nil {
		return nil
	}
	out := make([]dataset.RecipeFile, 0, len(b.Recipes))
	for _, entry := range b.Recipes {
		out = append(out, dataset.RecipeFile{Path: entry.SourcePath, Recipe: entry.Recipe})
	}
	return out
}

func categoryFor(root, path string) string {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return UncategorizedLabel
	}
	first := strings.Split(filepath.ToSlash(rel), "/")[0]
	label := textutil.TitleCase(strings.NewReplacer("_", " ", "-", " ").Replace(first))
	if label == "" {
		return UncategorizedLabel
	}
	return label
}

func uniqueSlug(seen map[string]int, path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	slug := textutil.Slugify(base)
	seen[slug]++
	candidate := slug
	for n := seen[slug]; n > 1; n++ {
		candidate = slug + "-" + strconv.Itoa(n)
		if _, taken := seen[candidate]; !taken {
			seen[slug] = n
			break
		}
	}
	if candidate != slug {
		seen[candidate]++
	}
	return candidate
}

func groupCategories(entries []Entry) []Category {
	var out []Category
	for _, entry := range entries {
		if len(out) == 0 || out[len(out)-1].Name != entry.Category {
			out = append(out, Category{Name: entry.Category})
		}
		last := &out[len(out)-1]
		last.Entries = append(last.Entries, entry)
	}
	return out
}
