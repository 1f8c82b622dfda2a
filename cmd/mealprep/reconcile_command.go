package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mealprep/internal/dataset"
	"mealprep/internal/logging"
	"mealprep/internal/reconcile"
)

const abortMessage = "Quitting. Summary will not be printed."

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var autoAccept float64
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Match curated ingredients against the external table",
		Long: "Deduplicates the external table, then matches every curated ingredient.\n" +
			"Exact (name, unit) matches are accepted silently; the rest are offered\n" +
			"fuzzy candidates to pick from, or accepted automatically with --auto-accept.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, runCtx, err := ctx.setup(cmd)
			if err != nil {
				return err
			}
			status := statusWriter(cmd, jsonOutput)

			var decider reconcile.Decider
			if cmd.Flags().Changed("auto-accept") {
				if autoAccept < 0 || autoAccept > 100 {
					return fmt.Errorf("--auto-accept must be between 0 and 100, got %v", autoAccept)
				}
				decider = reconcile.AutoDecider{MinScore: autoAccept}
			} else {
				in := cmd.InOrStdin()
				if !interactiveInput(in) {
					return errors.New("reconcile prompts for fuzzy matches and needs a terminal; use --auto-accept SCORE for unattended runs")
				}
				decider = reconcile.TerminalDecider(in, status)
			}

			table, err := dedupTable(status, logger, cfg.Paths.ExternalFile, false)
			if err != nil {
				return err
			}
			curated, err := dataset.LoadIngredients(cfg.Paths.IngredientsFile)
			if err != nil {
				return fmt.Errorf("load ingredients: %w", err)
			}
			fmt.Fprintf(status, "Loaded %d curated ingredients and %d external rows.\n", len(curated), table.Len())

			matcher := reconcile.NewMatcher(reconcile.Policy{
				FuzzyThreshold: cfg.Reconcile.FuzzyThreshold,
				TopCandidates:  cfg.Reconcile.TopCandidates,
			}, reconcile.WithLogger(logging.NewComponentLogger(logger, "reconcile")))

			report, err := matcher.Reconcile(runCtx, curated, table.Rows, decider)
			if errors.Is(err, reconcile.ErrAborted) {
				fmt.Fprintf(status, "\n%s\n", abortMessage)
				return nil
			}
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, report)
			}
			printReconcileSummary(cmd.OutOrStdout(), report, filepath.Base(cfg.Paths.ExternalFile))
			return nil
		},
	}

	cmd.Flags().Float64Var(&autoAccept, "auto-accept", 0, "Accept the best candidate scoring at least SCORE instead of prompting")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")
	return cmd
}

func printReconcileSummary(out io.Writer, report *reconcile.Report, externalName string) {
	rule := strings.Repeat("═", 70)
	fmt.Fprintf(out, "\n%s\n", rule)
	fmt.Fprintf(out, "SUMMARY  (%d curated ingredients)\n", report.Total)
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "  ✓ Exact matches  : %d\n", len(report.Exact))
	fmt.Fprintf(out, "  ~ Fuzzy matches  : %d\n", len(report.Fuzzy))
	fmt.Fprintf(out, "  ✗ Unmatched      : %d\n", len(report.Unmatched))
	fmt.Fprintln(out)

	if pairs := report.FuzzyPairs(); len(pairs) > 0 {
		fmt.Fprintln(out, "Fuzzy matches accepted:")
		for _, pair := range pairs {
			fmt.Fprintf(out, "  '%s'  →  '%s'\n", pair[0], pair[1])
		}
		fmt.Fprintln(out)
	}

	if report.Covered() {
		fmt.Fprintln(out, "All curated ingredients are covered!")
		return
	}
	fmt.Fprintf(out, "Not covered in %s:\n", externalName)
	for _, name := range report.UnmatchedNames() {
		fmt.Fprintf(out, "  ✗ '%s'\n", name)
	}
}
