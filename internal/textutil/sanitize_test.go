package textutil

import "testing"

func TestSanitizeToken(t *testing.T) {
	tests := map[string]string{
		"":                "unknown",
		"  ":              "unknown",
		"en-US-Wavenet-D": "en-us-wavenet-d",
		"fr_FR Neural2/A": "fr_fr_neural2_a",
		"***":             "unknown",
	}
	for input, want := range tests {
		if got := SanitizeToken(input); got != want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFileStem(t *testing.T) {
	tests := map[string]string{
		`week 1: "verbs"?`: "week 1- -verbs",
		"  spaced   out  ": "spaced out",
		"../..":            "slideshow",
		"":                 "slideshow",
		"日本語 lesson":       "日本語 lesson",
	}
	for input, want := range tests {
		if got := FileStem(input); got != want {
			t.Errorf("FileStem(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCharCount(t *testing.T) {
	if got := CharCount("I have a car", "J'ai une voiture", "日本"); got != 12+16+2 {
		t.Fatalf("CharCount = %d", got)
	}
	if CharCount() != 0 {
		t.Fatal("expected zero for no values")
	}
}
