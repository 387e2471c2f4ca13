package fsys

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mlhartme/sushi-sub000/internal/debug"
)

// Scratch is a temporary directory owned by its creator. It is removed by
// Close; there is no process-wide registry of scratch directories.
type Scratch struct {
	root *Local
}

// NewScratch creates a fresh temporary directory. The pattern follows
// os.MkdirTemp.
func NewScratch(pattern string) (*Scratch, error) {
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	root, err := NewLocal(dir)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}
	debug.Debug("[fsys] Created scratch directory: %s", dir)
	return &Scratch{root: root}, nil
}

// Root returns the scratch directory.
func (s *Scratch) Root() Entry {
	return s.root
}

// Close removes the scratch directory and everything in it. Close may be
// called more than once.
func (s *Scratch) Close() error {
	if s.root == nil {
		return nil
	}
	dir := s.root.Path()
	s.root = nil
	debug.Debug("[fsys] Removing scratch directory: %s", dir)
	// propagated modes may have left read-only directories behind
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && d.IsDir() {
			_ = os.Chmod(path, 0700)
		}
		return nil
	})
	return os.RemoveAll(dir)
}
