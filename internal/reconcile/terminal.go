package reconcile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mealprep/internal/dataset"
	"mealprep/internal/nutrition"
)

type nutrientField struct {
	label     string
	component string
	value     func(dataset.ExternalRow) float64
}

var nutrientFields = []nutrientField{
	{"kcal", nutrition.ComponentCalories, func(r dataset.ExternalRow) float64 { return r.Calories }},
	{"prot", nutrition.ComponentProtein, func(r dataset.ExternalRow) float64 { return r.Protein }},
	{"fat", nutrition.ComponentFat, func(r dataset.ExternalRow) float64 { return r.Fat }},
	{"carbs", nutrition.ComponentCarbohydrates, func(r dataset.ExternalRow) float64 { return r.Carbohydrates }},
	{"abv%", nutrition.ComponentAlcohol, func(r dataset.ExternalRow) float64 { return r.AlcoholPercentage }},
}

// IngredientNutrients renders the compact nutrient summary of a curated
// ingredient, e.g. "kcal=   110  prot=    23 ...". Missing components show "-".
func IngredientNutrients(ing nutrition.Ingredient) string {
	parts := make([]string, 0, len(nutrientFields))
	for _, f := range nutrientFields {
		value := "-"
		if v, ok := ing.Component(f.component); ok {
			value = strconv.FormatFloat(v, 'f', -1, 64)
		}
		parts = append(parts, fmt.Sprintf("%s=%6s", f.label, value))
	}
	return strings.Join(parts, "  ")
}

// RowNutrients renders the compact nutrient summary of an external row.
func RowNutrients(row dataset.ExternalRow) string {
	parts := make([]string, 0, len(nutrientFields))
	for _, f := range nutrientFields {
		parts = append(parts, fmt.Sprintf("%s=%6s", f.label, strconv.FormatFloat(f.value(row), 'f', -1, 64)))
	}
	return strings.Join(parts, "  ")
}

// TerminalDecider asks a person to pick a candidate. Input is read line by
// line from in: a candidate number, s (skip), n (no match), or q (quit).
// Invalid input re-prompts and end of input aborts.
func TerminalDecider(in io.Reader, out io.Writer) Decider {
	return &terminalDecider{scanner: bufio.NewScanner(in), out: out}
}

type terminalDecider struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (d *terminalDecider) Decide(ctx context.Context, prompt Prompt) (Decision, error) {
	ing := prompt.Ingredient
	fmt.Fprintf(d.out, "\n%s\n", strings.Repeat("─", 70))
	fmt.Fprintf(d.out, "[%d/%d] No exact match for: '%s' [%s]\n", prompt.Index, prompt.Total, ing.Name, ing.MeasurementUnit)
	fmt.Fprintf(d.out, "  Your vals: %s\n", IngredientNutrients(ing))
	fmt.Fprintln(d.out, "  Top fuzzy candidates:")
	for i, c := range prompt.Candidates {
		fmt.Fprintf(d.out, "\n    [%d] '%s' [%s]  (similarity: %.0f%%)\n", i+1, c.Row.Name, c.Row.Unit(), c.Score)
		fmt.Fprintf(d.out, "        Ext vals : %s\n", RowNutrients(c.Row))
	}

	valid := make([]string, len(prompt.Candidates))
	for i := range prompt.Candidates {
		valid[i] = strconv.Itoa(i + 1)
	}
	question := fmt.Sprintf("\n  Pick match [%s], s=skip, n=no match, q=quit: ", strings.Join(valid, "/"))

	for {
		if err := ctx.Err(); err != nil {
			return Decision{}, err
		}
		fmt.Fprint(d.out, question)
		if !d.scanner.Scan() {
			if err := d.scanner.Err(); err != nil {
				return Decision{}, fmt.Errorf("read answer: %w", err)
			}
			fmt.Fprintln(d.out)
			return Abort(), nil
		}
		answer := strings.ToLower(strings.TrimSpace(d.scanner.Text()))
		switch answer {
		case "q":
			return Abort(), nil
		case "s":
			return Skip(), nil
		case "n":
			return NoMatch(), nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(prompt.Candidates) {
			fmt.Fprintf(d.out, "  ✓ Matched to '%s'\n", prompt.Candidates[n-1].Row.Name)
			return Accept(n - 1), nil
		}
		fmt.Fprintln(d.out, "  Invalid input, try again.")
	}
}
