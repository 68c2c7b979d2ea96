package preflight

import (
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"bilingo/internal/config"
	"bilingo/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_Creatable(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nested", "work"))
	if !result.Passed || !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("expected creatable pass, got: %+v", result)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if r := CheckFreeSpace("space", dir, 1); !r.Passed || !strings.Contains(r.Detail, "free on") {
		t.Fatalf("expected pass, got %+v", r)
	}
	if r := CheckFreeSpace("space", dir, ^uint64(0)); r.Passed {
		t.Fatalf("expected failure for impossible requirement, got %+v", r)
	}
}

func TestCheckFile(t *testing.T) {
	missing := CheckFile("bg", filepath.Join(t.TempDir(), "nope.jpg"))
	if missing.Passed || !missing.Optional {
		t.Fatalf("missing background should be an optional failure: %+v", missing)
	}
	f := filepath.Join(t.TempDir(), "bg.png")
	testsupport.WritePNG(t, f, 4, 4, color.White)
	if r := CheckFile("bg", f); !r.Passed {
		t.Fatalf("expected pass, got %+v", r)
	}
}

func TestCheckSpeechProvider(t *testing.T) {
	cfg := config.Default()
	if r := CheckSpeechProvider(context.Background(), &cfg); !r.Passed {
		t.Fatalf("free provider should pass: %+v", r)
	}

	cfg.TTS.Provider = "secondary"
	cfg.TTS.APIKey = ""
	if r := CheckSpeechProvider(context.Background(), &cfg); r.Passed || !r.Optional {
		t.Fatalf("missing key should be an optional failure: %+v", r)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"voices":[{"name":"en-US-Wavenet-D","languageCodes":["en-US"],"ssmlGender":"MALE"}]}`))
	}))
	defer srv.Close()
	cfg.TTS.APIKey = "key"
	cfg.TTS.CloudEndpoint = srv.URL
	if r := CheckSpeechProvider(context.Background(), &cfg); !r.Passed || !strings.Contains(r.Detail, "1 voices") {
		t.Fatalf("expected reachable provider, got %+v", r)
	}
}

func TestCheckPublish(t *testing.T) {
	if r := CheckPublish(config.Publish{Enabled: true}); r.Passed {
		t.Fatal("expected failure without bucket")
	}
	r := CheckPublish(config.Publish{Enabled: true, Bucket: "media", Prefix: "/slides/"})
	if !r.Passed || r.Detail != "s3://media/slides" {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestRunAllAndFailed(t *testing.T) {
	t.Setenv("BILINGO_TTS_API_KEY", "")
	t.Setenv("GOOGLE_TTS_API_KEY", "")
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	cfg.Render.BackgroundImage = filepath.Join(testsupport.BaseDir(cfg), "missing.png")

	results := RunAll(context.Background(), cfg)
	names := map[string]bool{}
	for _, r := range results {
		names[r.Name] = true
	}
	for _, want := range []string{"FFmpeg", "FFprobe", "Work directory", "State directory", "Background image", "Font", "Speech provider"} {
		if !names[want] {
			t.Fatalf("missing check %q in %+v", want, results)
		}
	}
	for _, r := range Failed(results) {
		if r.Name == "FFmpeg" || r.Name == "FFprobe" || r.Name == "Speech provider" {
			t.Fatalf("unexpected required failure: %+v", r)
		}
	}

	t.Setenv("PATH", t.TempDir())
	failed := map[string]bool{}
	for _, r := range Failed(RunAll(context.Background(), cfg)) {
		failed[r.Name] = true
	}
	if !failed["FFmpeg"] || !failed["FFprobe"] {
		t.Fatalf("expected ffmpeg and ffprobe failures, got %v", failed)
	}
}

func TestCheckFont(t *testing.T) {
	dir := t.TempDir()
	fontPath := filepath.Join(dir, "Lesson.ttf")
	if err := os.WriteFile(fontPath, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name       string
		fontName   string
		wantPassed bool
		wantDetail string
	}{
		{"configured dir", "Lesson", true, fontPath},
		{"missing font", "NoSuchFontForBilingo", false, "built-in font will be used"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t)
			cfg.Render.FontName = tt.fontName
			cfg.Render.FontDirs = []string{dir}
			r := CheckFont(cfg)
			if r.Name != "Font" || r.Passed != tt.wantPassed || !r.Optional {
				t.Fatalf("unexpected result %+v", r)
			}
			if !strings.Contains(r.Detail, tt.wantDetail) {
				t.Fatalf("detail %q missing %q", r.Detail, tt.wantDetail)
			}
		})
	}
}
