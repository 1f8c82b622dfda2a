package nutrition

import "sort"

// Catalog maps canonical ingredient keys to ingredients. It is read-only
// after BuildCatalog returns.
type Catalog struct {
	byKey map[string]Ingredient
}

// CatalogOption customizes BuildCatalog.
type CatalogOption func(*catalogBuilder)

type catalogBuilder struct {
	requireUnique bool
}

// RequireUnique makes BuildCatalog fail with a DuplicateIngredientError when
// two records share a key. Without it the last record wins.
func RequireUnique() CatalogOption {
	return func(b *catalogBuilder) {
		b.requireUnique = true
	}
}

// BuildCatalog validates every record and indexes it by key. Any invalid
// record fails the whole build.
func BuildCatalog(records []Ingredient, opts ...CatalogOption) (*Catalog, error) {
	builder := &catalogBuilder{}
	for _, opt := range opts {
		opt(builder)
	}

	byKey := make(map[string]Ingredient, len(records))
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return nil, err
		}
		key := record.Key()
		if _, exists := byKey[key]; exists && builder.requireUnique {
			return nil, &DuplicateIngredientError{Name: record.Name}
		}
		byKey[key] = record
	}
	return &Catalog{byKey: byKey}, nil
}

// Get returns the ingredient stored under key. The lookup is exact.
func (c *Catalog) Get(key string) (Ingredient, bool) {
	if c == nil {
		return Ingredient{}, false
	}
	ingredient, ok := c.byKey[key]
	return ingredient, ok
}

// Len returns the number of distinct keys.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byKey)
}

// Names returns every key in sorted order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.byKey))
	for key := range c.byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
