package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"bilingo/internal/workarea"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration
	var listOnly bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove run directories left in the work area",
		Long: "Remove bilingo-<run> directories under paths.work_dir that kept runs or\n" +
			"interrupted runs left behind. Other directories are never touched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan < 0 {
				return fmt.Errorf("--older-than must not be negative")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if listOnly {
				dirs, err := workarea.List(cfg.Paths.WorkDir)
				if err != nil {
					return fmt.Errorf("list work area: %w", err)
				}
				if len(dirs) == 0 {
					fmt.Fprintln(out, "No run directories found")
					return nil
				}
				rows := make([][]string, 0, len(dirs))
				for _, dir := range dirs {
					rows = append(rows, []string{
						shortRunID(dir.RunID),
						humanize.Time(dir.ModTime),
						humanize.Bytes(uint64(dir.Size)),
						dir.Path,
					})
				}
				columns := []tableColumn{col("Run"), col("Modified"), col("Size").right(), col("Path")}
				fmt.Fprintln(out, renderTable(columns, rows))
				return nil
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			result := workarea.CleanStale(cmd.Context(), cfg.Paths.WorkDir, olderThan, logger)
			fmt.Fprintf(out, "Removed %d run directories (%s freed)\n", len(result.Removed), humanize.Bytes(uint64(result.Freed())))
			for _, failure := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "  failed: %s: %v\n", failure.Path, failure.Error)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d run directories could not be removed", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "Only remove directories idle at least this long")
	cmd.Flags().BoolVar(&listOnly, "list", false, "List run directories without removing them")
	return cmd
}
