package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mealprep/internal/dataset"
	"mealprep/internal/logging"
	"mealprep/internal/nutrition"
)

// issuesError reports that validation found problems in the data files.
type issuesError struct {
	count int
}

func (e *issuesError) Error() string {
	return fmt.Sprintf("validation found %d %s", e.count, pluralize(e.count, "issue", "issues"))
}

func (e *issuesError) ErrorKind() string { return "validation" }

type validationResult struct {
	Ingredients int             `json:"ingredients"`
	Recipes     int             `json:"recipes"`
	Issues      []dataset.Issue `json:"issues"`
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the curated ingredient table and recipe references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, _, err := ctx.setup(cmd)
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "validate")

			result := validationResult{Issues: []dataset.Issue{}}
			ingredientsFile := cfg.Paths.IngredientsFile

			if strings.EqualFold(filepath.Ext(ingredientsFile), ".csv") {
				issues, err := dataset.ValidateTable(ingredientsFile)
				if err != nil {
					return err
				}
				result.Issues = append(result.Issues, issues...)
			}

			// Reference checks need a buildable catalog.
			if len(result.Issues) == 0 {
				records, err := dataset.LoadIngredients(ingredientsFile)
				if err != nil {
					return fmt.Errorf("load ingredients: %w", err)
				}
				catalog, err := nutrition.BuildCatalog(records, nutrition.RequireUnique())
				if err != nil {
					return fmt.Errorf("build catalog from %s: %w", ingredientsFile, err)
				}
				recipes, err := dataset.LoadRecipes(cfg.Paths.RecipesDir, ingredientsFile)
				if err != nil {
					return fmt.Errorf("load recipes: %w", err)
				}
				result.Ingredients = catalog.Len()
				result.Recipes = len(recipes)
				result.Issues = append(result.Issues, dataset.CheckReferences(catalog, recipes)...)
			}

			logger.Info("validation complete",
				logging.Path(ingredientsFile),
				logging.Int("ingredients", result.Ingredients),
				logging.Int("recipes", result.Recipes),
				logging.Int("issues", len(result.Issues)),
			)

			if jsonOutput {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, issue := range result.Issues {
					fmt.Fprintln(out, issue.String())
				}
				if len(result.Issues) == 0 {
					fmt.Fprintf(out, "Validated %d ingredients and %d recipes: no issues found\n", result.Ingredients, result.Recipes)
				}
			}

			if len(result.Issues) > 0 {
				return &issuesError{count: len(result.Issues)}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
