package workarea

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"bilingo/internal/logging"
)

// DirPrefix starts the name of every run directory.
const DirPrefix = "bilingo-"

// DirInfo contains metadata about a run directory.
type DirInfo struct {
	Name    string
	RunID   string
	Path    string
	ModTime time.Time
	Size    int64
}

// CleanResult contains the outcome of a cleanup operation.
type CleanResult struct {
	Removed []DirInfo
	Errors  []CleanupError
}

// Freed sums the sizes of removed directories.
func (r CleanResult) Freed() int64 {
	var total int64
	for _, d := range r.Removed {
		total += d.Size
	}
	return total
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// List returns the run directories under root, oldest first. A missing root
// yields no entries.
func List(root string) ([]DirInfo, error) {
	root = resolveRoot(root)
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dirs []DirInfo
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), DirPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		dirPath := filepath.Join(root, entry.Name())
		size, _ := dirSize(dirPath)
		dirs = append(dirs, DirInfo{
			Name:    entry.Name(),
			RunID:   strings.TrimPrefix(entry.Name(), DirPrefix),
			Path:    dirPath,
			ModTime: info.ModTime(),
			Size:    size,
		})
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].ModTime.Before(dirs[j].ModTime) })
	return dirs, nil
}

// CleanStale removes run directories under root not modified within maxAge.
// A zero maxAge removes every run directory.
func CleanStale(ctx context.Context, root string, maxAge time.Duration, logger *slog.Logger) CleanResult {
	if logger == nil {
		logger = logging.NewNop()
	}
	result := CleanResult{}
	dirs, err := List(root)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: resolveRoot(root), Error: err})
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, dir := range dirs {
		if ctx.Err() != nil {
			break
		}
		if dir.ModTime.After(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir.Path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir.Path, Error: err})
			logging.WarnWithContext(logger, "failed to remove stale run directory", "work_dir_cleanup_failed",
				logging.String("path", dir.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths.work_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, dir)
		logger.Info("removed stale run directory",
			logging.String("path", dir.Path),
			logging.Duration("age", time.Since(dir.ModTime)),
			logging.Int64("bytes", dir.Size),
			logging.String(logging.FieldEventType, "work_dir_cleanup"),
		)
	}
	return result
}

func resolveRoot(root string) string {
	root = strings.TrimSpace(root)
	if root == "" {
		return os.TempDir()
	}
	return root
}

// dirSize calculates the total size of a directory recursively.
func dirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}
