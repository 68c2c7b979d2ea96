package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateTiming(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render.width and render.height must be positive (got %dx%d)", c.Render.Width, c.Render.Height)
	}
	if c.Render.Width%2 != 0 || c.Render.Height%2 != 0 {
		return fmt.Errorf("render.width and render.height must be even for yuv420p output (got %dx%d)", c.Render.Width, c.Render.Height)
	}
	if c.Render.FontSize <= 0 {
		return errors.New("render.font_size must be positive")
	}
	if c.Render.BackgroundOpacity < 0 || c.Render.BackgroundOpacity > 1 {
		return errors.New("render.background_opacity must be between 0 and 1")
	}
	if _, err := ParseColor(c.Render.TextColor); err != nil {
		return fmt.Errorf("render.text_color: %w", err)
	}
	return nil
}

func (c *Config) validateTiming() error {
	if c.Timing.SentencePause < 0 {
		return errors.New("timing.sentence_pause must be >= 0")
	}
	if c.Timing.SlidePause < 0 {
		return errors.New("timing.slide_pause must be >= 0")
	}
	return nil
}

func (c *Config) validateTTS() error {
	if _, ok := ParseProvider(c.TTS.Provider); !ok {
		return fmt.Errorf("tts.provider must be %q or %q (got %q)", ProviderPrimary, ProviderSecondary, c.TTS.Provider)
	}
	if c.TTS.Speed <= 0 || c.TTS.Speed > maxSpeed {
		return fmt.Errorf("tts.speed must be greater than 0 and at most %.0f", maxSpeed)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Workers < 1 {
		return errors.New("pipeline.workers must be at least 1")
	}
	return nil
}

func (c *Config) validatePublish() error {
	if !c.Publish.Enabled {
		return nil
	}
	if c.Publish.Bucket == "" {
		return errors.New("publish.bucket must be set when publish.enabled is true")
	}
	return nil
}
