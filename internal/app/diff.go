package app

import (
	"context"
	"os"

	"github.com/mlhartme/sushi-sub000/internal/debug"
	"github.com/mlhartme/sushi-sub000/internal/diff"
	"github.com/mlhartme/sushi-sub000/internal/fsys"
)

// DiffResult holds a preview of what a copy would change.
type DiffResult struct {
	// Report compares destination (left) with a fresh rendering (right).
	Report *diff.Report
	// Options are the configured rendering options.
	Options diff.Options
}

// Diff renders the source into a scratch directory and compares the
// destination against it. The destination is not modified.
func Diff(ctx context.Context, opts EngineOptions) (*DiffResult, error) {
	debug.DebugSection("[app] Diff workflow start")

	engine, err := Prepare(opts)
	if err != nil {
		return nil, err
	}
	return engine.Diff(ctx)
}

// Diff previews the engine's copy against its destination.
func (e *Engine) Diff(ctx context.Context) (*DiffResult, error) {
	scratch, err := fsys.NewScratch("sushi-diff-*")
	if err != nil {
		return nil, NewDiffError("failed to create scratch directory", err)
	}
	defer func() {
		if err := scratch.Close(); err != nil {
			debug.Debug("[app] Failed to remove scratch directory: %v", err)
		}
	}()

	if _, err := e.copyTo(ctx, scratch.Root()); err != nil {
		return nil, NewDiffError("failed to render source", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, NewDiffError("diff cancelled", err)
	}

	report, err := diff.Directory(e.Dest, scratch.Root(), e.DiffFilter(), e.Modes)
	if err != nil {
		return nil, NewDiffError("failed to compare", err)
	}

	debug.Debug("[app] Diff workflow completed")
	debug.DebugValue("[app] Changed paths", len(report.Entries))
	return &DiffResult{Report: report, Options: e.DiffOptions()}, nil
}

// DiffFiles renders a unified diff of two plain files. A missing file is
// treated as empty.
func DiffFiles(left, right string, opts diff.Options) (string, error) {
	leftText, err := readOptional(left)
	if err != nil {
		return "", NewDiffError("failed to read "+left, err)
	}
	rightText, err := readOptional(right)
	if err != nil {
		return "", NewDiffError("failed to read "+right, err)
	}
	return diff.Files(leftText, rightText, opts), nil
}

func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	return string(data), err
}
