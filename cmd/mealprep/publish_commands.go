package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"mealprep/internal/cookbook"
	"mealprep/internal/export"
	"mealprep/internal/logging"
	"mealprep/internal/web"
)

func newSiteCommand(ctx *commandContext) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "site",
		Short: "Generate the static recipe site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			book, cfg, logger, err := ctx.loadBook(cmd)
			if err != nil {
				return err
			}
			dir := strings.TrimSpace(outDir)
			if dir == "" {
				dir = cfg.Paths.SiteDir
			}
			written, err := web.GenerateSite(dir, book)
			if err != nil {
				return err
			}
			logger.Info("static site generated",
				logging.Path(dir),
				logging.Int("pages", written),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d %s to %s\n", written, pluralize(written, "page", "pages"), dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (defaults to paths.site_dir)")
	return cmd
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cookbook and its JSON API over HTTP",
		Long:  "Serves the recipe pages and JSON API. Recipes are reloaded on every request, so edits show up without a restart.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, runCtx, err := ctx.setup(cmd)
			if err != nil {
				return err
			}
			address := strings.TrimSpace(bind)
			if address == "" {
				address = cfg.Server.Bind
			}

			src := ctx.bookSource(cfg)
			load := func(reqCtx context.Context) (*cookbook.Book, error) {
				return cookbook.Load(reqCtx, src, logger)
			}
			if _, err := load(runCtx); err != nil {
				return err
			}

			sigCtx, stop := signal.NotifyContext(runCtx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving recipes on http://%s (Ctrl+C to stop)\n", address)
			return web.Serve(sigCtx, address, web.NewServer(load, logger), logger)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (defaults to server.bind)")
	return cmd
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export recipes and shopping lists to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(outPath)
			book, _, logger, err := ctx.loadBook(cmd)
			if err != nil {
				return err
			}
			if err := export.WriteWorkbook(target, book); err != nil {
				return err
			}
			logger.Info("workbook exported",
				logging.Path(target),
				logging.Int("recipes", book.Len()),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d %s to %s\n", book.Len(), pluralize(book.Len(), "recipe", "recipes"), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Workbook path (.xlsx)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
