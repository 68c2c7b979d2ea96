package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Render contains slide appearance settings.
type Render struct {
	FontName          string   `toml:"font_name"`
	FontSize          int      `toml:"font_size"`
	FontDirs          []string `toml:"font_dirs"`
	TextColor         string   `toml:"text_color"`
	Width             int      `toml:"width"`
	Height            int      `toml:"height"`
	BackgroundImage   string   `toml:"background_image"`
	BackgroundOpacity float64  `toml:"background_opacity"`
}

// Timing contains pause and frame rate settings for segment assembly.
type Timing struct {
	SentencePause float64 `toml:"sentence_pause"`
	SlidePause    float64 `toml:"slide_pause"`
	FrameRate     int     `toml:"frame_rate"`
}

// TTS contains speech synthesis settings.
type TTS struct {
	Provider       string  `toml:"provider"`
	APIKey         string  `toml:"api_key"`
	Voice1         string  `toml:"voice_1"`
	Voice2         string  `toml:"voice_2"`
	Speed          float64 `toml:"speed"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	BaseURL        string  `toml:"base_url"`
	CloudEndpoint  string  `toml:"cloud_endpoint"`
}

// Languages names the two narration slots.
type Languages struct {
	Language1 string `toml:"language_1"`
	Language2 string `toml:"language_2"`
}

// Paths contains working and state directories.
type Paths struct {
	WorkDir  string `toml:"work_dir"`
	StateDir string `toml:"state_dir"`
}

// Pipeline contains run execution settings.
type Pipeline struct {
	Workers     int  `toml:"workers"`
	KeepWorkDir bool `toml:"keep_work_dir"`
}

// Publish contains optional object storage upload settings.
type Publish struct {
	Enabled      bool   `toml:"enabled"`
	Bucket       string `toml:"bucket"`
	Prefix       string `toml:"prefix"`
	Region       string `toml:"region"`
	Endpoint     string `toml:"endpoint"`
	UsePathStyle bool   `toml:"use_path_style"`
}

// Notify contains optional ntfy push notification settings.
type Notify struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	Dir           string `toml:"dir"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for bilingo.
//
// Configuration sections by subsystem:
//   - Render: font, colors, resolution, background image and visibility
//   - Timing: sentence/slide pauses and output frame rate
//   - TTS: provider selection, credential, voice overrides, speech rate
//   - Languages: language names for the two text columns
//   - Paths: run work area root and state directory (history database)
//   - Pipeline: worker count and work dir retention
//   - Publish: S3 upload of finished videos
//   - Notify: ntfy topic for run completion and failure notices
//   - Logging: log format, level, file directory and retention
type Config struct {
	Render    Render    `toml:"render"`
	Timing    Timing    `toml:"timing"`
	TTS       TTS       `toml:"tts"`
	Languages Languages `toml:"languages"`
	Paths     Paths     `toml:"paths"`
	Pipeline  Pipeline  `toml:"pipeline"`
	Publish   Publish   `toml:"publish"`
	Notify    Notify    `toml:"notify"`
	Logging   Logging   `toml:"logging"`

	// credentialFromEnv marks TTS.APIKey as taken from the environment so
	// Save does not persist it.
	credentialFromEnv bool
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("bilingo.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state, log and work directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Logging.Dir, c.Paths.WorkDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for encoding.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for duration probing.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

// HistoryPath returns the location of the run history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
