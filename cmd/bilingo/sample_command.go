package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bilingo/internal/config"
	"bilingo/internal/sheet"
)

func newSampleCommand() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "sample <path>",
		Short:       "Write a starter spreadsheet (xlsx, csv or tsv by extension)",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("%s already exists (use --overwrite to replace it)", target)
				}
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
			if err := sheet.WriteSample(target, sheet.SampleRows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d sample rows to %s\n", len(sheet.SampleRows), target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}
