package web

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mealprep/internal/cookbook"
	"mealprep/internal/fileutil"
)

// GenerateSite writes index.html and one <slug>.html per recipe into dir and
// returns the number of files written.
func GenerateSite(dir string, book *cookbook.Book) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create site directory: %w", err)
	}

	written := 0
	indexPath := filepath.Join(dir, "index.html")
	if err := fileutil.WriteAtomic(indexPath, 0o644, func(w io.Writer) error {
		return RenderIndex(w, book, StaticLinks)
	}); err != nil {
		return written, fmt.Errorf("write %s: %w", indexPath, err)
	}
	written++

	if book == nil {
		return written, nil
	}
	for _, entry := range book.Recipes {
		path := filepath.Join(dir, StaticLinks.Recipe(entry.Slug))
		if err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
			return RenderRecipe(w, entry, StaticLinks)
		}); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written++
	}
	return written, nil
}
