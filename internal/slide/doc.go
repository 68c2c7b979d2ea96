// Package slide renders one still frame per phrase row: a cover-scaled,
// dimmed background with the two language texts wrapped, centered and
// stacked with a one-line gap between them.
package slide
