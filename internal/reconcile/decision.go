package reconcile

import (
	"context"
	"errors"

	"mealprep/internal/dataset"
	"mealprep/internal/nutrition"
)

// ErrAborted is returned by Reconcile when the decider asks to stop. It is a
// deliberate early exit and no report is produced.
var ErrAborted = errors.New("reconciliation aborted")

// Action is the verdict of a Decider.
type Action int

const (
	// ActionAccept matches the ingredient to Decision.Choice.
	ActionAccept Action = iota
	// ActionSkip leaves the ingredient unmatched for now.
	ActionSkip
	// ActionNoMatch records that none of the candidates is the ingredient.
	ActionNoMatch
	// ActionAbort stops the whole run.
	ActionAbort
)

func (a Action) String() string {
	switch a {
	case ActionAccept:
		return "accept"
	case ActionSkip:
		return "skip"
	case ActionNoMatch:
		return "no_match"
	case ActionAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Decision is returned by a Decider. Choice is the 0-based candidate index and
// is only meaningful for ActionAccept.
type Decision struct {
	Action Action
	Choice int
}

// Accept returns a decision accepting candidate i.
func Accept(i int) Decision { return Decision{Action: ActionAccept, Choice: i} }

// Skip returns a skip decision.
func Skip() Decision { return Decision{Action: ActionSkip} }

// NoMatch returns an explicit no-match decision.
func NoMatch() Decision { return Decision{Action: ActionNoMatch} }

// Abort returns a decision that stops the run.
func Abort() Decision { return Decision{Action: ActionAbort} }

// Candidate is an external row offered as a possible match.
type Candidate struct {
	Row   dataset.ExternalRow
	Score float64
}

// Prompt is everything a Decider needs to adjudicate one ingredient. Index is
// 1-based within the Total ingredients that needed fuzzy matching.
type Prompt struct {
	Ingredient nutrition.Ingredient
	Candidates []Candidate
	Index      int
	Total      int
}

// Decider adjudicates ambiguous matches.
type Decider interface {
	Decide(ctx context.Context, prompt Prompt) (Decision, error)
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, prompt Prompt) (Decision, error)

// Decide calls f.
func (f DeciderFunc) Decide(ctx context.Context, prompt Prompt) (Decision, error) {
	return f(ctx, prompt)
}

// AutoDecider accepts the best candidate when it scores at least MinScore and
// skips otherwise. It never prompts, so it suits batch runs.
type AutoDecider struct {
	MinScore float64
}

// Decide implements Decider.
func (d AutoDecider) Decide(_ context.Context, prompt Prompt) (Decision, error) {
	if len(prompt.Candidates) == 0 || prompt.Candidates[0].Score < d.MinScore {
		return Skip(), nil
	}
	return Accept(0), nil
}
