package language

import (
	"strings"

	"github.com/abadojack/whatlanggo"

	"bilingo/internal/services"
)

// Detector guesses the language of a text sample and returns an ISO 639-1
// code. Implementations fail closed with an error rather than guessing.
type Detector interface {
	Detect(text string) (string, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(text string) (string, error)

// Detect implements Detector.
func (f DetectorFunc) Detect(text string) (string, error) { return f(text) }

// TrigramDetector detects languages with whatlanggo's trigram profiles.
type TrigramDetector struct {
	// MinConfidence rejects results below the threshold. Zero accepts any
	// identified language.
	MinConfidence float64
}

// Detect implements Detector.
func (d TrigramDetector) Detect(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", services.Wrap(services.ErrDetection, "language", "detect", "empty text", nil)
	}
	info := whatlanggo.Detect(text)
	if info.Lang < 0 {
		return "", services.Wrap(services.ErrDetection, "language", "detect", "language not identified", nil)
	}
	if d.MinConfidence > 0 && info.Confidence < d.MinConfidence {
		return "", services.Wrap(services.ErrDetection, "language", "detect", "confidence below threshold", nil)
	}
	code := ToISO2(info.Lang.Iso6391())
	if code == "" {
		code = ToISO2(info.Lang.Iso6393())
	}
	if code == "" {
		return "", services.Wrap(services.ErrDetection, "language", "detect", "language has no ISO 639-1 code", nil)
	}
	return code, nil
}
