package preflight

import (
	"context"

	"bilingo/internal/config"
)

// minFreeBytes is the free space expected in the work area before a run.
const minFreeBytes = 512 << 20

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Detail   string
	Optional bool
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckMediaTools(cfg)...)

	workDir := cfg.Paths.WorkDir
	results = append(results, CheckDirectoryAccess("Work directory", workDir))
	results = append(results, CheckFreeSpace("Work directory space", workDir, minFreeBytes))
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))

	if cfg.Render.BackgroundImage != "" {
		results = append(results, CheckFile("Background image", cfg.Render.BackgroundImage))
	}
	results = append(results, CheckFont(cfg))

	results = append(results, CheckSpeechProvider(ctx, cfg))

	if cfg.Publish.Enabled {
		results = append(results, CheckPublish(cfg.Publish))
	}
	return results
}

// Failed returns the non-optional results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			out = append(out, r)
		}
	}
	return out
}
