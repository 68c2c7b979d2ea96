package tts

import (
	"context"
	"sort"
	"strings"
)

// Request describes one synthesis call.
type Request struct {
	Text         string
	LanguageCode string
	// Voice is a provider-specific voice identifier; empty selects the
	// provider default for LanguageCode.
	Voice string
	// Rate is the speaking rate multiplier; zero means 1.0.
	Rate float64
}

// Synthesizer turns text into MP3 audio bytes.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}

// Voice is one entry in a provider voice catalog.
type Voice struct {
	Name          string
	LanguageCodes []string
	Gender        string
}

// VoiceCatalog lists the voices a provider offers.
type VoiceCatalog interface {
	Voices(ctx context.Context) ([]Voice, error)
}

// VoiceLanguageCode extracts the language-region prefix of a voice id
// (the first two hyphen-delimited segments, e.g. "en-US" from
// "en-US-Wavenet-D"). It returns "" when the id has fewer than two segments.
func VoiceLanguageCode(voiceID string) string {
	parts := strings.Split(strings.TrimSpace(voiceID), "-")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}
	return parts[0] + "-" + parts[1]
}

// FilterVoices returns voices supporting code, matched case-insensitively on
// the full code or its primary subtag. An empty code returns every voice.
// The result is sorted by name.
func FilterVoices(voices []Voice, code string) []Voice {
	code = strings.ToLower(strings.TrimSpace(code))
	out := make([]Voice, 0, len(voices))
	for _, v := range voices {
		if code == "" || supports(v, code) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func supports(v Voice, code string) bool {
	for _, lc := range v.LanguageCodes {
		lc = strings.ToLower(lc)
		if lc == code {
			return true
		}
		if primary, _, _ := strings.Cut(lc, "-"); primary == code {
			return true
		}
		if primary, _, _ := strings.Cut(code, "-"); primary == lc {
			return true
		}
	}
	return false
}
