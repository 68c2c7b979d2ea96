package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"bilingo/internal/config"
	"bilingo/internal/deps"
	"bilingo/internal/logging"
	"bilingo/internal/slide"
	"bilingo/internal/tts"
)

// CheckMediaTools reports whether ffmpeg and ffprobe are on PATH.
func CheckMediaTools(cfg *config.Config) []Result {
	statuses := deps.CheckBinaries(deps.MediaRequirements(cfg.FFmpegBinary(), cfg.FFprobeBinary()))
	results := make([]Result, 0, len(statuses))
	for _, s := range statuses {
		r := Result{Name: s.Name, Passed: s.Available, Optional: s.Optional}
		if s.Available {
			r.Detail = s.Path
		} else {
			r.Detail = s.Detail
		}
		results = append(results, r)
	}
	return results
}

// CheckDirectoryAccess verifies that the directory is readable and writable.
// A missing directory passes when its nearest existing parent is writable,
// since runs create it on demand.
func CheckDirectoryAccess(name, path string) Result {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Passed: true, Detail: "system temp directory"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
		}
		parent := existingParent(path)
		if parent == "" {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least minBytes free.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	target := strings.TrimSpace(path)
	if target == "" {
		target = os.TempDir()
	}
	if parent := existingParent(target); parent != "" {
		target = parent
	}
	var stat unix.Statfs_t
	if err := unix.Statfs(target, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", target, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s free on %s", humanize.IBytes(free), target)
	if free < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (need %s)", detail, humanize.IBytes(minBytes))}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckFile verifies that path is a readable regular file. Missing assets
// have fallbacks, so the result is optional.
func CheckFile(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (missing; black background will be used)", path)}
	}
	if info.IsDir() {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Optional: true, Detail: path}
}

// CheckFont resolves render.font_name the same way slides are drawn. Falling
// back to the built-in font is optional.
func CheckFont(cfg *config.Config) Result {
	const name = "Font"
	renderer, err := slide.NewRenderer(cfg.GenerationConfig(), logging.NewNop())
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	source := renderer.FontSource()
	if source == slide.BuiltinFontSource {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%q not found; built-in font will be used", cfg.Render.FontName)}
	}
	return Result{Name: name, Passed: true, Optional: true, Detail: source}
}

// CheckSpeechProvider reports the configured narration provider. For the
// cloud provider the credential is verified by listing voices; a failure is
// optional because narration falls back to the free provider.
func CheckSpeechProvider(ctx context.Context, cfg *config.Config) Result {
	const name = "Speech provider"
	gen := cfg.GenerationConfig()
	if gen.Provider != config.ProviderSecondary {
		return Result{Name: name, Passed: true, Detail: "free provider (no credential needed)"}
	}
	if !gen.HasCredential() {
		return Result{Name: name, Optional: true, Detail: "cloud provider selected but no api key; free provider will be used"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	cloud, err := tts.NewCloud(checkCtx, tts.CloudConfig{APIKey: gen.Credential, Endpoint: cfg.TTS.CloudEndpoint})
	if err != nil {
		return Result{Name: name, Optional: true, Detail: err.Error()}
	}
	voices, err := cloud.Voices(checkCtx)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: summarizeProviderError(err)}
	}
	return Result{Name: name, Passed: true, Optional: true, Detail: fmt.Sprintf("cloud provider reachable (%d voices)", len(voices))}
}

// CheckPublish verifies the upload target is configured.
func CheckPublish(cfg config.Publish) Result {
	const name = "Publish"
	if strings.TrimSpace(cfg.Bucket) == "" {
		return Result{Name: name, Detail: "bucket not configured"}
	}
	target := "s3://" + cfg.Bucket
	if cfg.Prefix != "" {
		target += "/" + strings.Trim(cfg.Prefix, "/")
	}
	if cfg.Endpoint != "" {
		target += " via " + cfg.Endpoint
	}
	return Result{Name: name, Passed: true, Detail: target}
}

func existingParent(path string) string {
	current := filepath.Clean(path)
	for {
		if info, err := os.Stat(current); err == nil && info.IsDir() {
			return current
		}
		next := filepath.Dir(current)
		if next == current {
			return ""
		}
		current = next
	}
}

func summarizeProviderError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "voice listing timed out (provider unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "voice listing timed out (provider unreachable)"
	}
	return err.Error()
}
