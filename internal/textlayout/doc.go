// Package textlayout wraps text into lines that fit a pixel width, using a
// caller-supplied Measurer so layout stays independent of font loading.
package textlayout
