package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"mealprep/internal/config"
	"mealprep/internal/dataset"
	"mealprep/internal/logging"
)

func newDedupCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var file string

	cmd := &cobra.Command{
		Use:   "dedup",
		Short: "Remove repeated (name, unit) rows from the external table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, _, err := ctx.setup(cmd)
			if err != nil {
				return err
			}
			path := externalPath(cfg, file)
			_, err = dedupTable(cmd.OutOrStdout(), logger, path, dryRun)
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report duplicates without rewriting the file")
	cmd.Flags().StringVar(&file, "file", "", "Table to deduplicate (defaults to paths.external_file)")
	return cmd
}

func externalPath(cfg *config.Config, override string) string {
	if path := strings.TrimSpace(override); path != "" {
		return path
	}
	return cfg.Paths.ExternalFile
}

// dedupTable loads path, drops repeated rows keeping the first of each, and
// saves the result unless dryRun is set.
func dedupTable(out io.Writer, logger *slog.Logger, path string, dryRun bool) (*dataset.Table, error) {
	logger = logging.NewComponentLogger(logger, "dedup")

	table, err := dataset.LoadTable(path)
	if err != nil {
		return nil, fmt.Errorf("load external table: %w", err)
	}
	before := table.Len()
	removed := table.Deduplicate()

	switch {
	case removed == 0:
		fmt.Fprintf(out, "No duplicates found in %s.\n", path)
	case dryRun:
		fmt.Fprintf(out, "Would remove %d duplicate name(s) from %s (%d of %d rows kept).\n", removed, path, table.Len(), before)
	default:
		fmt.Fprintf(out, "Removed %d duplicate name(s) from %s. Saving...\n", removed, path)
		if err := dataset.WriteTable(path, table.Rows); err != nil {
			return nil, fmt.Errorf("save external table: %w", err)
		}
	}

	logger.Info("external table deduplicated",
		logging.Path(path),
		logging.Int("rows", before),
		logging.Int("removed", removed),
		logging.Bool("dry_run", dryRun),
	)
	return table, nil
}
