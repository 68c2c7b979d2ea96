package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bilingo/internal/config"
	"bilingo/internal/timeline"
)

func newSpeakCommand(ctx *commandContext) *cobra.Command {
	var languageFlag string
	var voiceFlag string
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "speak <text>",
		Short: "Narrate a single phrase to an MP3 file",
		Long: `Narrate one phrase with the configured provider, speed and voice so settings
can be auditioned before a full run. --language accepts a language name or Auto.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("text is required")
			}
			lang := strings.TrimSpace(languageFlag)
			if lang == "" {
				lang = cfg.Languages.Language1
			}
			output := strings.TrimSpace(outputFlag)
			if output == "" {
				output = "speech.mp3"
			}
			if output, err = config.ExpandPath(output); err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			pipe, err := timeline.NewFromConfig(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			asset, err := pipe.PreviewAudio(cmd.Context(), text, lang, voiceFlag, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %s)\n", asset.Path, asset.Key.LanguageCode, asset.Provider)
			return nil
		},
	}

	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Language name of the text (default: languages.language_1)")
	cmd.Flags().StringVar(&voiceFlag, "voice", "", "Cloud voice override")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Destination MP3 (default: ./speech.mp3)")
	return cmd
}
