package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bilingo/internal/language"
)

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "languages",
		Short:       "List language names accepted for the two columns",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := language.NewRegistry(language.TrigramDetector{})
			rows := [][]string{{language.Auto, "detected per phrase"}}
			for _, e := range registry.Entries() {
				rows = append(rows, []string{e.Name, e.Code})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{col("Language"), col("Code")}, rows))
			return nil
		},
	}
}
