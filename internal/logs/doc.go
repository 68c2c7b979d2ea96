// Package logs reads the JSON run log that every bilingo command appends to.
//
// Last returns the trailing lines with bounded memory, Follow polls for new
// lines until its context ends, and RunMatcher narrows either to the records
// of one generation run. The log file is rotated by retention cleanup rather
// than truncated, but Follow still restarts from the top if the file shrinks.
package logs
