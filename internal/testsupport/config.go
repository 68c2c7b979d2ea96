package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"bilingo/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Logging.Dir = filepath.Join(base, "logs")
	cfgVal.Render.Width = 320
	cfgVal.Render.Height = 180
	cfgVal.Render.FontSize = 16

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCloudKey selects the cloud speech provider with the given credential
// and endpoint.
func WithCloudKey(key, endpoint string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TTS.Provider = string(config.ProviderSecondary)
		b.cfg.TTS.APIKey = key
		b.cfg.TTS.CloudEndpoint = endpoint
	}
}

// WithFreeEndpoint points the free speech provider at a test server.
func WithFreeEndpoint(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TTS.BaseURL = baseURL
	}
}

// WithNotifyTopic points run notifications at an ntfy endpoint.
func WithNotifyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notify.NtfyTopic = topic
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := StubBinaries(b.t, filepath.Join(b.baseDir, "bin"), names...)

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// StubBinaries writes no-op executables into dir and returns dir.
func StubBinaries(t testing.TB, dir string, names ...string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	script := []byte("#!/bin/sh\nexit 0\n")
	for _, name := range names {
		target := filepath.Join(dir, name)
		if err := os.WriteFile(target, script, 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
	return dir
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
