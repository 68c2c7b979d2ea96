package textlayout

import "strings"

// Measurer reports the rendered pixel width of a string.
type Measurer interface {
	Width(s string) float64
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(s string) float64

// Width implements Measurer.
func (f MeasurerFunc) Width(s string) float64 { return f(s) }

// Wrap greedily packs whitespace-separated words into lines no wider than
// maxWidth. A single word wider than maxWidth occupies its own line; words are
// never split. Empty or whitespace-only text yields no lines.
func Wrap(text string, m Measurer, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{}
	}

	lines := make([]string, 0, 4)
	var current []string
	for _, word := range words {
		current = append(current, word)
		if m.Width(strings.Join(current, " ")) <= maxWidth {
			continue
		}
		if len(current) == 1 {
			lines = append(lines, word)
			current = current[:0]
			continue
		}
		lines = append(lines, strings.Join(current[:len(current)-1], " "))
		current = []string{word}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}
