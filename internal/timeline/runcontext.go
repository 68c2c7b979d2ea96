package timeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"bilingo/internal/workarea"
)

// RunContext owns the working area of a single generation run.
type RunContext struct {
	ID      string
	WorkDir string
	keep    bool
}

// NewRunContext creates a fresh work directory under root (the system temp
// directory when root is empty). When keep is set, Close leaves it in place.
func NewRunContext(root string, keep bool) (*RunContext, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create work root: %w", err)
	}
	id := uuid.NewString()
	dir := filepath.Join(root, workarea.DirPrefix+id)
	for _, sub := range []string{dir, filepath.Join(dir, "audio"), filepath.Join(dir, "slides"), filepath.Join(dir, "segments")} {
		if err := os.Mkdir(sub, 0o755); err != nil {
			return nil, fmt.Errorf("create work dir: %w", err)
		}
	}
	return &RunContext{ID: id, WorkDir: dir, keep: keep}, nil
}

// AudioDir holds narration assets shared by every row of the run.
func (rc *RunContext) AudioDir() string { return filepath.Join(rc.WorkDir, "audio") }

// SlidePath returns the frame path for row index.
func (rc *RunContext) SlidePath(index int) string {
	return filepath.Join(rc.WorkDir, "slides", fmt.Sprintf("slide_%04d.png", index))
}

// SegmentPath returns the encoded segment path for row index.
func (rc *RunContext) SegmentPath(index int) string {
	return filepath.Join(rc.WorkDir, "segments", fmt.Sprintf("segment_%04d.mp4", index))
}

// Kept reports whether Close preserves the work directory.
func (rc *RunContext) Kept() bool { return rc.keep }

// Close removes the work directory unless the run was created with keep.
func (rc *RunContext) Close() error {
	if rc == nil || rc.keep || rc.WorkDir == "" {
		return nil
	}
	return os.RemoveAll(rc.WorkDir)
}
