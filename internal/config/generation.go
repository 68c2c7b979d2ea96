package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"
)

// Provider selects the speech synthesis backend.
type Provider string

const (
	// ProviderPrimary is the free, credential-less provider.
	ProviderPrimary Provider = "primary"
	// ProviderSecondary is the credentialed cloud provider.
	ProviderSecondary Provider = "secondary"
)

// ParseProvider accepts canonical names plus the aliases used by older settings files.
func ParseProvider(value string) (Provider, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "primary", "free", "gtts":
		return ProviderPrimary, true
	case "secondary", "cloud", "google_cloud":
		return ProviderSecondary, true
	default:
		return "", false
	}
}

// Generation holds the settings for a single generation run. It is built once
// per request and treated as read-only for the rest of the run.
type Generation struct {
	FontName          string
	FontSize          int
	FontDirs          []string
	TextColor         color.RGBA
	Width             int
	Height            int
	BackgroundImage   string
	BackgroundOpacity float64
	SentencePause     float64
	SlidePause        float64
	FrameRate         int
	Provider          Provider
	Credential        string
	Voices            [2]string
	Speed             float64
	ProviderTimeout   time.Duration
}

// HasCredential reports whether a cloud provider credential is available.
func (g Generation) HasCredential() bool {
	return strings.TrimSpace(g.Credential) != ""
}

// UsesCloud reports whether the cloud provider should be attempted.
func (g Generation) UsesCloud() bool {
	return g.Provider == ProviderSecondary && g.HasCredential()
}

// Voice returns the override for slot 0 or 1.
func (g Generation) Voice(slot int) string {
	if slot < 0 || slot >= len(g.Voices) {
		return ""
	}
	return g.Voices[slot]
}

// GenerationConfig projects the loaded configuration into per-run settings.
func (c *Config) GenerationConfig() Generation {
	provider, ok := ParseProvider(c.TTS.Provider)
	if !ok {
		provider = ProviderPrimary
	}
	textColor, err := ParseColor(c.Render.TextColor)
	if err != nil {
		textColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	dirs := make([]string, len(c.Render.FontDirs))
	copy(dirs, c.Render.FontDirs)
	return Generation{
		FontName:          c.Render.FontName,
		FontSize:          c.Render.FontSize,
		FontDirs:          dirs,
		TextColor:         textColor,
		Width:             c.Render.Width,
		Height:            c.Render.Height,
		BackgroundImage:   c.Render.BackgroundImage,
		BackgroundOpacity: c.Render.BackgroundOpacity,
		SentencePause:     c.Timing.SentencePause,
		SlidePause:        c.Timing.SlidePause,
		FrameRate:         c.Timing.FrameRate,
		Provider:          provider,
		Credential:        c.TTS.APIKey,
		Voices:            [2]string{c.TTS.Voice1, c.TTS.Voice2},
		Speed:             c.TTS.Speed,
		ProviderTimeout:   time.Duration(c.TTS.TimeoutSeconds) * time.Second,
	}
}

var namedColors = map[string]color.RGBA{
	"white":  {R: 255, G: 255, B: 255, A: 255},
	"black":  {A: 255},
	"red":    {R: 255, A: 255},
	"green":  {G: 128, A: 255},
	"blue":   {B: 255, A: 255},
	"yellow": {R: 255, G: 255, A: 255},
	"orange": {R: 255, G: 165, A: 255},
	"gray":   {R: 128, G: 128, B: 128, A: 255},
	"grey":   {R: 128, G: 128, B: 128, A: 255},
}

// ParseColor accepts a basic color name, #RGB or #RRGGBB.
func ParseColor(value string) (color.RGBA, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if c, ok := namedColors[value]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(value, "#")
	if hex == value {
		return color.RGBA{}, fmt.Errorf("unknown color %q", value)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", value)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", value)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}, nil
}
