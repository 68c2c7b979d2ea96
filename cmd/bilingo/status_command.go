package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bilingo/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check tools, directories and speech provider access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			lines := renderSectionHeader("Configuration", colorize)
			configDetail := ctx.configPath
			if !ctx.configExists {
				configDetail += " (not found; defaults in use)"
			}
			gen := cfg.GenerationConfig()
			lines = append(lines,
				renderStatusLine("Config", statusInfo, configDetail, colorize),
				renderStatusLine("Languages", statusInfo, fmt.Sprintf("%s / %s", cfg.Languages.Language1, cfg.Languages.Language2), colorize),
				renderStatusLine("Provider", statusInfo, fmt.Sprintf("%s (credential: %s)", gen.Provider, yesNo(gen.HasCredential())), colorize),
				renderStatusLine("Publish", statusInfo, yesNo(cfg.Publish.Enabled), colorize),
				"",
			)
			lines = append(lines, renderSectionHeader("Checks", colorize)...)
			lines = append(lines, checkLines(preflight.RunAll(cmd.Context(), cfg), colorize)...)
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}
