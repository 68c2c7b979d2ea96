// Package textutil provides small text helpers for building filesystem-safe
// names and measuring narration text.
package textutil
