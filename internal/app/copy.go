package app

import (
	"context"

	"github.com/mlhartme/sushi-sub000/internal/debug"
	"github.com/mlhartme/sushi-sub000/internal/fsys"
)

// CopiedEntry is one created or overwritten destination entry.
type CopiedEntry struct {
	// Path is slash-separated and relative to the destination root.
	Path      string
	Directory bool
}

// CopyResult holds the result of a copy.
type CopyResult struct {
	// Dest is the destination root.
	Dest string
	// Entries are in copy order, parents before children.
	Entries []CopiedEntry
	// Directories is the number of directory entries.
	Directories int
	// Files is the number of file entries.
	Files int
}

// Copy stamps the source tree into the destination.
func Copy(ctx context.Context, opts EngineOptions) (*CopyResult, error) {
	debug.DebugSection("[app] Copy workflow start")

	engine, err := Prepare(opts)
	if err != nil {
		return nil, err
	}
	return engine.Copy(ctx)
}

// Copy runs the configured copier into the engine's destination.
func (e *Engine) Copy(ctx context.Context) (*CopyResult, error) {
	return e.copyTo(ctx, e.Dest)
}

func (e *Engine) copyTo(ctx context.Context, dest fsys.Entry) (*CopyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewCopyError("copy cancelled", err)
	}

	entries, err := e.Copier.Directory(dest)
	if err != nil {
		return nil, NewCopyError("copy failed", err)
	}

	result := &CopyResult{Dest: dest.Path(), Entries: make([]CopiedEntry, 0, len(entries))}
	for _, entry := range entries {
		rel, err := entry.RelativeTo(dest)
		if err != nil {
			return nil, NewCopyError("failed to relativize "+entry.Path(), err)
		}
		isDir, err := entry.IsDirectory()
		if err != nil {
			return nil, NewCopyError("failed to stat "+entry.Path(), err)
		}
		result.Entries = append(result.Entries, CopiedEntry{Path: rel, Directory: isDir})
		if isDir {
			result.Directories++
		} else {
			result.Files++
		}
	}

	debug.Debug("[app] Copy workflow completed")
	debug.DebugValue("[app] Directories", result.Directories)
	debug.DebugValue("[app] Files", result.Files)
	return result, nil
}
