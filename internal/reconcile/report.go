package reconcile

// Kind classifies one curated ingredient.
type Kind string

const (
	KindExact     Kind = "exact"
	KindFuzzy     Kind = "fuzzy"
	KindUnmatched Kind = "unmatched"
)

// Outcome is the classification of one curated ingredient. Match and Score
// are set for fuzzy matches; exact matches carry the external name with a
// score of 100.
type Outcome struct {
	Name   string  `json:"name"`
	Unit   string  `json:"unit"`
	Kind   Kind    `json:"kind"`
	Match  string  `json:"match,omitempty"`
	Score  float64 `json:"score,omitempty"`
	Reason string  `json:"reason,omitempty"`
}

// Report summarizes a reconciliation run. Exact is filled by the first pass
// in curated order; Fuzzy and Unmatched by the second pass, preserving the
// relative order of the ingredients that needed it.
type Report struct {
	Total     int       `json:"total"`
	Exact     []Outcome `json:"exact"`
	Fuzzy     []Outcome `json:"fuzzy"`
	Unmatched []Outcome `json:"unmatched"`
}

// ExactNames lists curated names with an exact counterpart.
func (r *Report) ExactNames() []string {
	return names(r.Exact)
}

// UnmatchedNames lists curated names without an accepted counterpart.
func (r *Report) UnmatchedNames() []string {
	return names(r.Unmatched)
}

// FuzzyPairs lists accepted (curated name, external name) pairs.
func (r *Report) FuzzyPairs() [][2]string {
	out := make([][2]string, 0, len(r.Fuzzy))
	for _, o := range r.Fuzzy {
		out = append(out, [2]string{o.Name, o.Match})
	}
	return out
}

// Covered reports whether every curated ingredient found a counterpart.
func (r *Report) Covered() bool {
	return len(r.Unmatched) == 0
}

func names(outcomes []Outcome) []string {
	out := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, o.Name)
	}
	return out
}
