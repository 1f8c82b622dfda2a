package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mealprep/internal/logging"
	"mealprep/internal/offfetch"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var output string
	var maxPages int

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the external ingredient table from Open Food Facts",
		Long: "Pages through the Open Food Facts search API and writes every product with\n" +
			"complete nutrition to the external table. Progress is checkpointed after each\n" +
			"page, so an interrupted run resumes where it stopped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, runCtx, err := ctx.setup(cmd)
			if err != nil {
				return err
			}
			if maxPages < 0 {
				return fmt.Errorf("--max-pages must not be negative, got %d", maxPages)
			}
			target := strings.TrimSpace(output)
			if target == "" {
				target = cfg.Paths.ExternalFile
			}

			client := offfetch.NewClient(offfetch.Config{
				BaseURL:   cfg.Fetch.BaseURL,
				Country:   cfg.Fetch.Country,
				PageSize:  cfg.Fetch.PageSize,
				Timeout:   cfg.RequestTimeout(),
				Backoff:   cfg.RetryBackoff(),
				UserAgent: cfg.Fetch.UserAgent,
			})
			fetcher := offfetch.NewFetcher(client,
				offfetch.WithPageDelay(cfg.PageDelay()),
				offfetch.WithLogger(logging.NewComponentLogger(logger, "fetch")),
			)

			result, err := fetcher.Run(runCtx, offfetch.Options{Output: target, MaxPages: maxPages})
			if err != nil {
				return fmt.Errorf("fetch stopped after page %d (rerun to resume): %w", result.LastPage, err)
			}

			out := cmd.OutOrStdout()
			if result.Resumed {
				fmt.Fprintf(out, "Resumed from page %d.\n", result.FirstPage)
			}
			fmt.Fprintf(out, "Done. %d ingredients written to %s (%d products fetched).\n", result.Written, target, result.Fetched)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination CSV (defaults to paths.external_file)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "Stop after this many pages (0 fetches everything)")
	return cmd
}
