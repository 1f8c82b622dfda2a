package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mealprep/internal/cookbook"
	"mealprep/internal/web"
)

func newRecipesCommand(ctx *commandContext) *cobra.Command {
	recipesCmd := &cobra.Command{
		Use:   "recipes",
		Short: "Inspect recipes and their nutrition",
	}

	recipesCmd.AddCommand(newRecipesListCommand(ctx))
	recipesCmd.AddCommand(newRecipesShowCommand(ctx))

	return recipesCmd
}

func newRecipesListCommand(ctx *commandContext) *cobra.Command {
	var category string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes with their nutrition totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			book, _, _, err := ctx.loadBook(cmd)
			if err != nil {
				return err
			}

			entries := filterByCategory(book.Recipes, category)
			if jsonOutput {
				summaries := make([]web.RecipeSummary, 0, len(entries))
				for _, entry := range entries {
					summaries = append(summaries, web.Summarize(entry))
				}
				return writeJSON(cmd, summaries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No recipes found")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				n := entry.Nutrition
				name := entry.Recipe.Name
				if len(n.Unresolved) > 0 {
					name += " *"
				}
				rows = append(rows, []string{
					name,
					entry.Category,
					entry.Slug,
					formatGrams(n.Weight),
					formatOneDecimal(n.Protein),
					formatGrams(n.Calories),
					formatOneDecimal(n.ProteinPer100),
					formatGrams(n.CaloriesPer100),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Recipe", "Category", "Slug", "Weight g", "Protein g", "Kcal", "Protein/100g", "Kcal/100g"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			fmt.Fprintf(out, "%d %s\n", len(entries), pluralize(len(entries), "recipe", "recipes"))
			for _, entry := range entries {
				if len(entry.Nutrition.Unresolved) > 0 {
					fmt.Fprintln(out, "* some ingredients are missing from the catalog; see recipes show")
					break
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list recipes in this category")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func filterByCategory(entries []cookbook.Entry, category string) []cookbook.Entry {
	category = strings.TrimSpace(category)
	if category == "" {
		return entries
	}
	var out []cookbook.Entry
	for _, entry := range entries {
		if strings.EqualFold(entry.Category, category) {
			out = append(out, entry)
		}
	}
	return out
}

func newRecipesShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Show one recipe with its shopping list and nutrition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, _, _, err := ctx.loadBook(cmd)
			if err != nil {
				return err
			}
			slug := strings.TrimSpace(args[0])
			entry, ok := book.Find(slug)
			if !ok {
				return fmt.Errorf("recipe %q not found", slug)
			}
			if jsonOutput {
				return writeJSON(cmd, entry)
			}
			printRecipe(cmd, entry)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func printRecipe(cmd *cobra.Command, entry cookbook.Entry) {
	out := cmd.OutOrStdout()
	recipe := entry.Recipe
	n := entry.Nutrition

	fmt.Fprintln(out, recipe.Name)
	fmt.Fprintf(out, "Category: %s\n", entry.Category)
	if recipe.Rating > 0 {
		fmt.Fprintf(out, "Rating: %s/5\n", strconv.FormatFloat(recipe.Rating, 'f', -1, 64))
	}
	if len(recipe.DietaryLabels) > 0 {
		fmt.Fprintf(out, "Labels: %s\n", strings.Join(recipe.DietaryLabels, ", "))
	}
	if desc := strings.TrimSpace(recipe.Description); desc != "" {
		fmt.Fprintf(out, "\n%s\n", desc)
	}

	fmt.Fprintln(out, "\nIngredients:")
	for _, line := range n.Ingredients {
		fmt.Fprintf(out, "  - %s\n", line)
	}
	for _, name := range n.Unresolved {
		fmt.Fprintf(out, "  ! %s (not in catalog, excluded from totals)\n", name)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, tableView{
		Headers: []string{"", "Total", "Per 100g"},
		Rows: [][]string{
			{"Weight (g)", formatGrams(n.Weight), "100"},
			{"Protein (g)", formatOneDecimal(n.Protein), formatOneDecimal(n.ProteinPer100)},
			{"Energy (kcal)", formatGrams(n.Calories), formatGrams(n.CaloriesPer100)},
			{"Fat (g)", formatOneDecimal(n.Fat), formatOneDecimal(n.FatPer100)},
			{"Carbohydrates (g)", formatOneDecimal(n.Carbohydrates), formatOneDecimal(n.CarbohydratesPer100)},
		},
		Aligns: []columnAlignment{alignLeft, alignRight, alignRight},
	}.render())

	if len(recipe.Steps) > 0 {
		fmt.Fprintln(out, "\nSteps:")
		for i, step := range recipe.Steps {
			fmt.Fprintf(out, "  %d. %s\n", i+1, strings.TrimSpace(step))
		}
	}
}
