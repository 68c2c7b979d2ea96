package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables consulted when tts.api_key is empty, in order.
var credentialEnvKeys = []string{"BILINGO_TTS_API_KEY", "GOOGLE_TTS_API_KEY"}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeRender(); err != nil {
		return err
	}
	c.normalizeTTS()
	c.normalizeLanguages()
	c.normalizePublish()
	c.normalizeNotify()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.WorkDir, err = expandPath(strings.TrimSpace(c.Paths.WorkDir)); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRender() error {
	c.Render.FontName = strings.TrimSpace(c.Render.FontName)
	if c.Render.FontName == "" {
		c.Render.FontName = defaultFontName
	}
	c.Render.TextColor = strings.ToLower(strings.TrimSpace(c.Render.TextColor))
	if c.Render.TextColor == "" {
		c.Render.TextColor = defaultTextColor
	}
	var err error
	if c.Render.BackgroundImage, err = expandPath(strings.TrimSpace(c.Render.BackgroundImage)); err != nil {
		return fmt.Errorf("render.background_image: %w", err)
	}
	dirs := make([]string, 0, len(c.Render.FontDirs))
	for _, dir := range c.Render.FontDirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("render.font_dirs: %w", err)
		}
		dirs = append(dirs, expanded)
	}
	c.Render.FontDirs = dirs
	if c.Timing.FrameRate <= 0 {
		c.Timing.FrameRate = defaultFrameRate
	}
	return nil
}

func (c *Config) normalizeTTS() {
	provider, ok := ParseProvider(c.TTS.Provider)
	if ok {
		c.TTS.Provider = string(provider)
	} else {
		c.TTS.Provider = strings.ToLower(strings.TrimSpace(c.TTS.Provider))
	}
	c.TTS.APIKey = strings.TrimSpace(c.TTS.APIKey)
	if c.TTS.APIKey == "" {
		for _, key := range credentialEnvKeys {
			if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
				c.TTS.APIKey = strings.TrimSpace(value)
				c.credentialFromEnv = true
				break
			}
		}
	}
	c.TTS.Voice1 = strings.TrimSpace(c.TTS.Voice1)
	c.TTS.Voice2 = strings.TrimSpace(c.TTS.Voice2)
	c.TTS.BaseURL = strings.TrimRight(strings.TrimSpace(c.TTS.BaseURL), "/")
	if c.TTS.BaseURL == "" {
		c.TTS.BaseURL = defaultFreeTTSBaseURL
	}
	c.TTS.CloudEndpoint = strings.TrimSpace(c.TTS.CloudEndpoint)
	if c.TTS.TimeoutSeconds <= 0 {
		c.TTS.TimeoutSeconds = defaultTTSTimeoutSeconds
	}
}

func (c *Config) normalizeLanguages() {
	c.Languages.Language1 = strings.TrimSpace(c.Languages.Language1)
	if c.Languages.Language1 == "" {
		c.Languages.Language1 = defaultLanguage1
	}
	c.Languages.Language2 = strings.TrimSpace(c.Languages.Language2)
	if c.Languages.Language2 == "" {
		c.Languages.Language2 = defaultLanguage2
	}
}

func (c *Config) normalizePublish() {
	c.Publish.Bucket = strings.TrimSpace(c.Publish.Bucket)
	c.Publish.Prefix = strings.Trim(strings.TrimSpace(c.Publish.Prefix), "/")
	c.Publish.Region = strings.TrimSpace(c.Publish.Region)
	c.Publish.Endpoint = strings.TrimSpace(c.Publish.Endpoint)
}

func (c *Config) normalizeNotify() {
	c.Notify.NtfyTopic = strings.TrimSpace(c.Notify.NtfyTopic)
	if c.Notify.TimeoutSeconds <= 0 {
		c.Notify.TimeoutSeconds = defaultNotifyTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
