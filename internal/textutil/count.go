package textutil

import "unicode/utf8"

// CharCount returns the number of characters (runes) across all values, the
// unit speech providers bill by.
func CharCount(values ...string) int {
	total := 0
	for _, v := range values {
		total += utf8.RuneCountInString(v)
	}
	return total
}
