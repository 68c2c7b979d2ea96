package language

import (
	"errors"
	"reflect"
	"testing"
)

func TestResolveKnownNames(t *testing.T) {
	r := NewRegistry(nil)
	tests := map[string]string{
		"English":   "en",
		"french":    "fr",
		" Spanish ": "es",
		"Chinese":   "zh-cn",
		"Korean":    "ko",
	}
	for name, want := range tests {
		if got := r.Resolve(name, "ignored"); got != want {
			t.Fatalf("Resolve(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestResolveUnknownNameFallsBack(t *testing.T) {
	r := NewRegistry(nil)
	if got := r.Resolve("Klingon", "nuqneH"); got != FallbackCode {
		t.Fatalf("Resolve unknown = %q, want %q", got, FallbackCode)
	}
	if got := r.Resolve("deu", ""); got != "de" {
		t.Fatalf("Resolve ISO 639-2 = %q, want de", got)
	}
}

func TestResolveAutoUsesDetector(t *testing.T) {
	calls := 0
	r := NewRegistry(DetectorFunc(func(text string) (string, error) {
		calls++
		if text == "你好世界" {
			return "zh", nil
		}
		return "fr", nil
	}))
	if got := r.Resolve("auto", "Bonjour le monde"); got != "fr" {
		t.Fatalf("Resolve auto = %q, want fr", got)
	}
	if got := r.Resolve(Auto, "你好世界"); got != "zh-cn" {
		t.Fatalf("Resolve auto chinese = %q, want zh-cn", got)
	}
	if calls != 2 {
		t.Fatalf("detector calls = %d, want 2", calls)
	}
}

func TestResolveAutoDetectionFailureFallsBack(t *testing.T) {
	r := NewRegistry(DetectorFunc(func(string) (string, error) {
		return "", errors.New("no signal")
	}))
	if got := r.Resolve(Auto, "???"); got != FallbackCode {
		t.Fatalf("Resolve = %q, want fallback", got)
	}
	if got := NewRegistry(nil).Resolve(Auto, "Hola"); got != FallbackCode {
		t.Fatalf("Resolve without detector = %q, want fallback", got)
	}
}

func TestRegister(t *testing.T) {
	r := NewRegistry(nil, WithoutDefaults())
	if err := r.Register("dutch", "nl"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("Brazilian Portuguese", "pt-BR"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("Dutch", "nl-BE"); err != nil {
		t.Fatalf("Register replace: %v", err)
	}
	if err := r.Register("Bogus", "not a tag"); err == nil {
		t.Fatal("expected invalid code error")
	}
	if err := r.Register("auto", "en"); err == nil {
		t.Fatal("expected reserved name error")
	}

	want := []string{Auto, "Dutch", "Brazilian Portuguese"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	if code, ok := r.Code("DUTCH"); !ok || code != "nl-be" {
		t.Fatalf("Code = %q %v", code, ok)
	}
	if got := r.Resolve("Brazilian Portuguese", ""); got != "pt-br" {
		t.Fatalf("Resolve = %q", got)
	}
}

func TestEntriesSorted(t *testing.T) {
	entries := NewRegistry(nil).Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Name > entries[i].Name {
			t.Fatalf("entries not sorted: %v", entries)
		}
	}
}

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"fra", "fr"},
		{"fre", "fr"},
		{"ger", "de"},
		{"zho", "zh"},
		{"French", "fr"},
		{"español", "es"},
		{"xy", "xy"},
		{"xyz", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ToISO2(tt.input); got != tt.expected {
			t.Errorf("ToISO2(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTrigramDetector(t *testing.T) {
	d := TrigramDetector{}
	code, err := d.Detect("The quick brown fox jumps over the lazy dog while the children are playing in the garden.")
	if err != nil {
		t.Fatalf("Detect english: %v", err)
	}
	if code != "en" {
		t.Fatalf("Detect english = %q", code)
	}
	code, err = d.Detect("Le chat est sur la table et les enfants jouent dans le jardin avec leurs amis.")
	if err != nil {
		t.Fatalf("Detect french: %v", err)
	}
	if code != "fr" {
		t.Fatalf("Detect french = %q", code)
	}
	if _, err := d.Detect("   "); err == nil {
		t.Fatal("expected error for empty text")
	}
	if _, err := (TrigramDetector{MinConfidence: 1.01}).Detect("Hello there my friend"); err == nil {
		t.Fatal("expected error for impossible confidence threshold")
	}
}
