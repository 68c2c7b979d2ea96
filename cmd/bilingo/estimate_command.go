package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"bilingo/internal/config"
	"bilingo/internal/sheet"
	"bilingo/internal/timeline"
)

func newEstimateCommand(ctx *commandContext) *cobra.Command {
	var providerFlag string

	cmd := &cobra.Command{
		Use:   "estimate <spreadsheet>",
		Short: "Count narrated characters and estimate cloud speech cost",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			provider := cfg.GenerationConfig().Provider
			if cmd.Flags().Changed("provider") {
				parsed, ok := config.ParseProvider(providerFlag)
				if !ok {
					return fmt.Errorf("--provider must be %q or %q (got %q)", config.ProviderPrimary, config.ProviderSecondary, providerFlag)
				}
				provider = parsed
			}

			input, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}
			table, err := sheet.Load(input)
			if err != nil {
				return err
			}
			est := timeline.EstimateCost(table.Rows, provider)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rows:       %d\n", len(table.Rows))
			if table.Skipped > 0 {
				fmt.Fprintf(out, "Skipped:    %d\n", table.Skipped)
			}
			fmt.Fprintf(out, "Characters: %s\n", humanize.Comma(int64(est.Characters)))
			fmt.Fprintf(out, "Cost:       %s\n", est)
			return nil
		},
	}

	cmd.Flags().StringVar(&providerFlag, "provider", "", "Speech provider to price (default: configured provider)")
	return cmd
}
