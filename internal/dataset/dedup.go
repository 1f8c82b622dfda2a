package dataset

// Deduplicate keeps the first row for every (canonical name, trimmed unit)
// pair, preserving order. It returns the surviving rows and how many were
// removed. Applying it twice removes nothing the second time.
func Deduplicate(rows []ExternalRow) ([]ExternalRow, int) {
	type key struct {
		name string
		unit string
	}
	seen := make(map[key]struct{}, len(rows))
	out := make([]ExternalRow, 0, len(rows))
	for _, row := range rows {
		k := key{name: row.Key(), unit: row.Unit()}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, row)
	}
	return out, len(rows) - len(out)
}
