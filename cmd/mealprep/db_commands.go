package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mealprep/internal/logging"
	"mealprep/internal/store"
)

func newDBCommand(ctx *commandContext) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Maintain the SQLite mirror of the cookbook",
	}

	dbCmd.AddCommand(newDBSyncCommand(ctx))
	dbCmd.AddCommand(newDBSummaryCommand(ctx))

	return dbCmd
}

func newDBSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replace the database contents with the current catalog and recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			book, cfg, logger, err := ctx.loadBook(cmd)
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.Paths.DatabasePath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer st.Close()

			stats, err := st.ReplaceBook(ctx.runContext(cmd), book)
			if err != nil {
				return err
			}
			logger.Info("database synced",
				logging.Path(st.Path()),
				logging.Int("recipes", stats.Recipes),
				logging.Int("ingredients", stats.Ingredients),
				logging.Int("components", stats.Components),
				logging.Int("lines", stats.Lines),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d recipes, %d ingredients, %d components and %d recipe lines to %s\n",
				stats.Recipes, stats.Ingredients, stats.Components, stats.Lines, st.Path())
			return nil
		},
	}
}

func newDBSummaryCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show per-recipe totals stored in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, runCtx, err := ctx.setup(cmd)
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.Paths.DatabasePath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer st.Close()

			summaries, err := st.Summaries(runCtx)
			if err != nil {
				return err
			}
			if jsonOutput {
				if summaries == nil {
					summaries = []store.Summary{}
				}
				return writeJSON(cmd, summaries)
			}

			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "Database is empty; run db sync first")
				return nil
			}
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, []string{
					s.Name,
					s.Category,
					formatGrams(s.TotalWeight),
					formatOneDecimal(s.TotalProtein),
					formatGrams(s.TotalCalories),
					fmt.Sprintf("%d", s.IngredientCount),
					fmt.Sprintf("%d", s.UnresolvedCount),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Recipe", "Category", "Weight g", "Protein g", "Kcal", "Lines", "Unresolved"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
