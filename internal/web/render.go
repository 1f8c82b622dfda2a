package web

import (
	"embed"
	"html/template"
	"io"
	"math"
	"strconv"
	"strings"

	"mealprep/internal/cookbook"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("web").Funcs(template.FuncMap{
	"protein": formatProtein,
	"kcal":    formatKcal,
	"grams":   formatKcal,
	"rating":  formatRating,
	"join":    strings.Join,
}).ParseFS(templateFS, "templates/*.tmpl"))

// Links builds hrefs for rendered pages.
type Links struct {
	Index  string
	Recipe func(slug string) string
}

// StaticLinks point at the files GenerateSite writes.
var StaticLinks = Links{
	Index:  "index.html",
	Recipe: func(slug string) string { return slug + ".html" },
}

// ServerLinks point at the routes NewServer registers.
var ServerLinks = Links{
	Index:  "/",
	Recipe: func(slug string) string { return "/recipes/" + slug },
}

type indexView struct {
	Categories []categoryView
}

type categoryView struct {
	Name    string
	Recipes []recipeView
}

type recipeView struct {
	cookbook.Entry
	Href      string
	IndexHref string
}

// RenderIndex writes the category overview of book.
func RenderIndex(w io.Writer, book *cookbook.Book, links Links) error {
	view := indexView{}
	if book != nil {
		for _, category := range book.Categories {
			cv := categoryView{Name: category.Name}
			for _, entry := range category.Entries {
				cv.Recipes = append(cv.Recipes, newRecipeView(entry, links))
			}
			view.Categories = append(view.Categories, cv)
		}
	}
	return templates.ExecuteTemplate(w, "index", view)
}

// RenderRecipe writes the detail page of entry.
func RenderRecipe(w io.Writer, entry cookbook.Entry, links Links) error {
	return templates.ExecuteTemplate(w, "recipe", newRecipeView(entry, links))
}

func newRecipeView(entry cookbook.Entry, links Links) recipeView {
	return recipeView{
		Entry:     entry,
		Href:      links.Recipe(entry.Slug),
		IndexHref: links.Index,
	}
}

// formatProtein rounds to one decimal.
func formatProtein(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}

// formatKcal rounds to a whole number.
func formatKcal(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "/5"
}
