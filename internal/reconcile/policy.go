package reconcile

// Policy holds the fuzzy matching limits.
type Policy struct {
	// FuzzyThreshold is the minimum score (0-100) a candidate needs to be
	// offered. The bound is inclusive.
	FuzzyThreshold float64
	// TopCandidates caps how many candidates are offered per ingredient.
	TopCandidates int
}

// DefaultPolicy returns the limits used when configuration leaves them unset.
func DefaultPolicy() Policy {
	return Policy{
		FuzzyThreshold: 45,
		TopCandidates:  5,
	}
}

func (p Policy) normalized() Policy {
	d := DefaultPolicy()
	if p.FuzzyThreshold < 0 || p.FuzzyThreshold > 100 {
		p.FuzzyThreshold = d.FuzzyThreshold
	}
	if p.TopCandidates <= 0 {
		p.TopCandidates = d.TopCandidates
	}
	return p
}
