package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bilingo/internal/language"
	"bilingo/internal/timeline"
	"bilingo/internal/tts"
)

func newVoicesCommand(ctx *commandContext) *cobra.Command {
	var languageFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List cloud speech voices",
		Long: `List the voices offered by the cloud speech provider. Requires tts.api_key
(or BILINGO_TTS_API_KEY). --language accepts a code (fr, en-GB) or a
language name known to bilingo (French).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.GenerationConfig().HasCredential() {
				fmt.Fprintln(out, "No voices available: set tts.api_key or BILINGO_TTS_API_KEY to list cloud voices.")
				return nil
			}

			pipe, err := timeline.NewFromConfig(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			voices, err := pipe.Voices(cmd.Context())
			if err != nil {
				return err
			}
			voices = tts.FilterVoices(voices, voiceFilterCode(languageFlag))

			if jsonOutput {
				return writeJSON(cmd, voices)
			}
			if len(voices) == 0 {
				fmt.Fprintln(out, "No matching voices")
				return nil
			}
			rows := make([][]string, 0, len(voices))
			for _, v := range voices {
				rows = append(rows, []string{v.Name, strings.Join(v.LanguageCodes, ", "), strings.ToLower(v.Gender)})
			}
			fmt.Fprintln(out, renderTable([]tableColumn{col("Voice"), col("Languages").wrapAt(30), col("Gender")}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Only voices for this language")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// voiceFilterCode maps a language name to its code; codes pass through.
func voiceFilterCode(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	registry := language.NewRegistry(nil)
	if code, ok := registry.Code(value); ok {
		if primary, _, _ := strings.Cut(code, "-"); primary != "" {
			return primary
		}
		return code
	}
	return value
}
