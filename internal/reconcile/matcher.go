package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"mealprep/internal/dataset"
	"mealprep/internal/logging"
	"mealprep/internal/nutrition"
	"mealprep/internal/textutil"
)

// Scorer rates the similarity of two names on a 0-100 scale.
type Scorer func(a, b string) float64

// Matcher reconciles curated ingredients against an external table.
type Matcher struct {
	policy Policy
	scorer Scorer
	logger *slog.Logger
}

// Option customises the Matcher.
type Option func(*Matcher)

// WithScorer overrides the similarity function (primarily for tests).
func WithScorer(scorer Scorer) Option {
	return func(m *Matcher) {
		if scorer != nil {
			m.scorer = scorer
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logging.NewComponentLogger(logger, "reconcile")
		}
	}
}

// NewMatcher constructs a Matcher. Out-of-range policy values fall back to
// DefaultPolicy.
func NewMatcher(policy Policy, opts ...Option) *Matcher {
	m := &Matcher{
		policy: policy.normalized(),
		scorer: textutil.TokenSortRatio,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Policy returns the effective policy.
func (m *Matcher) Policy() Policy {
	return m.policy
}

type exactKey struct {
	name string
	unit string
}

// index is the external table prepared for both passes.
type index struct {
	exact map[exactKey]dataset.ExternalRow
	names []string
	byKey map[string]dataset.ExternalRow
}

func buildIndex(external []dataset.ExternalRow) index {
	idx := index{
		exact: make(map[exactKey]dataset.ExternalRow, len(external)),
		byKey: make(map[string]dataset.ExternalRow, len(external)),
	}
	for _, row := range external {
		key := row.Key()
		if key == "" {
			continue
		}
		k := exactKey{name: key, unit: row.Unit()}
		if _, ok := idx.exact[k]; !ok {
			idx.exact[k] = row
		}
		if _, ok := idx.byKey[key]; !ok {
			idx.names = append(idx.names, key)
		}
		// Candidates show the last row seen for a name.
		idx.byKey[key] = row
	}
	return idx
}

// Reconcile classifies every curated ingredient. It returns ErrAborted when
// the decider aborts and ctx.Err() when ctx is cancelled between prompts.
func (m *Matcher) Reconcile(ctx context.Context, curated []nutrition.Ingredient, external []dataset.ExternalRow, decider Decider) (*Report, error) {
	idx := buildIndex(external)
	report := &Report{
		Total:     len(curated),
		Exact:     []Outcome{},
		Fuzzy:     []Outcome{},
		Unmatched: []Outcome{},
	}

	var pending []nutrition.Ingredient
	for _, ing := range curated {
		row, ok := idx.exact[exactKey{name: ing.Key(), unit: strings.TrimSpace(ing.MeasurementUnit)}]
		if !ok {
			pending = append(pending, ing)
			continue
		}
		report.Exact = append(report.Exact, Outcome{
			Name:  ing.Name,
			Unit:  ing.MeasurementUnit,
			Kind:  KindExact,
			Match: row.Name,
			Score: 100,
		})
	}
	m.logger.Info("exact pass complete",
		logging.Int("curated", len(curated)),
		logging.Int("external_names", len(idx.names)),
		logging.Int("exact", len(report.Exact)),
		logging.Int("pending", len(pending)),
	)

	for i, ing := range pending {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		candidates := m.candidates(ing.Key(), idx)
		if len(candidates) == 0 {
			report.Unmatched = append(report.Unmatched, Outcome{
				Name:   ing.Name,
				Unit:   ing.MeasurementUnit,
				Kind:   KindUnmatched,
				Reason: "no candidates",
			})
			m.logger.Debug("no fuzzy candidates", logging.Ingredient(ing.Name))
			continue
		}

		if decider == nil {
			return nil, fmt.Errorf("reconcile %q: no decider configured", ing.Name)
		}
		decision, err := decider.Decide(ctx, Prompt{
			Ingredient: ing,
			Candidates: candidates,
			Index:      i + 1,
			Total:      len(pending),
		})
		if err != nil {
			return nil, fmt.Errorf("decide %q: %w", ing.Name, err)
		}

		switch decision.Action {
		case ActionAccept:
			if decision.Choice < 0 || decision.Choice >= len(candidates) {
				return nil, fmt.Errorf("decide %q: choice %d out of range (%d candidates)", ing.Name, decision.Choice, len(candidates))
			}
			chosen := candidates[decision.Choice]
			report.Fuzzy = append(report.Fuzzy, Outcome{
				Name:  ing.Name,
				Unit:  ing.MeasurementUnit,
				Kind:  KindFuzzy,
				Match: chosen.Row.Name,
				Score: chosen.Score,
			})
			m.logger.Info("fuzzy match accepted",
				logging.Ingredient(ing.Name),
				logging.String("match", chosen.Row.Name),
				logging.Float64("score", chosen.Score),
			)
		case ActionSkip, ActionNoMatch:
			report.Unmatched = append(report.Unmatched, Outcome{
				Name:   ing.Name,
				Unit:   ing.MeasurementUnit,
				Kind:   KindUnmatched,
				Reason: decision.Action.String(),
			})
		case ActionAbort:
			m.logger.Info("reconciliation aborted",
				logging.Ingredient(ing.Name),
				logging.Int("index", i+1),
				logging.Int("pending", len(pending)),
			)
			return nil, ErrAborted
		default:
			return nil, fmt.Errorf("decide %q: unknown action %d", ing.Name, decision.Action)
		}
	}
	return report, nil
}

// Candidates scores name against every distinct external name and returns
// those at or above the threshold, best first, capped at TopCandidates.
func (m *Matcher) Candidates(name string, external []dataset.ExternalRow) []Candidate {
	return m.candidates(textutil.CanonicalName(name), buildIndex(external))
}

func (m *Matcher) candidates(key string, idx index) []Candidate {
	var out []Candidate
	for _, name := range idx.names {
		score := m.scorer(key, name)
		if score < m.policy.FuzzyThreshold {
			continue
		}
		out = append(out, Candidate{Row: idx.byKey[name], Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > m.policy.TopCandidates {
		out = out[:m.policy.TopCandidates]
	}
	return out
}
