package narration

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"bilingo/internal/textutil"
)

// CacheKey identifies a unique synthesized asset.
type CacheKey struct {
	TextHash     string
	LanguageCode string
	Provider     string
	Speed        float64
	Voice        string
}

// NewCacheKey hashes text with SHA-256 and normalizes the remaining fields.
func NewCacheKey(text, languageCode, provider string, speed float64, voice string) CacheKey {
	sum := sha256.Sum256([]byte(text))
	return CacheKey{
		TextHash:     hex.EncodeToString(sum[:]),
		LanguageCode: strings.ToLower(strings.TrimSpace(languageCode)),
		Provider:     strings.ToLower(strings.TrimSpace(provider)),
		Speed:        speed,
		Voice:        strings.TrimSpace(voice),
	}
}

// FileName renders the key as tts_{hash}_{lang}_{provider}_{speed}_{voice}.mp3.
// An empty voice is rendered as "default".
func (k CacheKey) FileName() string {
	voice := "default"
	if k.Voice != "" {
		voice = textutil.SanitizeToken(k.Voice)
	}
	return fmt.Sprintf("tts_%s_%s_%s_%s_%s.mp3",
		k.TextHash,
		textutil.SanitizeToken(k.LanguageCode),
		textutil.SanitizeToken(k.Provider),
		strconv.FormatFloat(k.Speed, 'f', 2, 64),
		voice,
	)
}
