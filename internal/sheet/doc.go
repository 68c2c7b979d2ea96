// Package sheet reads two-column phrase tables from spreadsheets and
// delimited text files. The first column is the language-1 text, the second
// the language-2 text; there is no header row and rows missing either value
// are skipped.
package sheet
