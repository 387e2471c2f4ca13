package app

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/mlhartme/sushi-sub000/internal/debug"
	"github.com/mlhartme/sushi-sub000/internal/fsys"
)

//go:embed all:scaffolds
var scaffoldsFS embed.FS

// NewSourceOptions configures NewSource.
type NewSourceOptions struct {
	// Path is the directory that receives the sample source tree.
	Path string
	// Type names a directory below scaffolds.
	Type string
	// Force allows writing into a non-empty directory.
	Force bool
}

// NewSourceResult describes a written sample source tree.
type NewSourceResult struct {
	Path         string
	FilesCreated int
	// Files are slash-separated and relative to Path.
	Files []string
}

// AvailableScaffoldTypes lists the embedded scaffolds.
func AvailableScaffoldTypes() ([]string, error) {
	entries, err := scaffoldsFS.ReadDir("scaffolds")
	if err != nil {
		return nil, fmt.Errorf("failed to read scaffolds directory: %w", err)
	}

	var types []string
	for _, entry := range entries {
		if entry.IsDir() {
			types = append(types, entry.Name())
		}
	}
	return types, nil
}

// NewSource writes the scaffold opts.Type to opts.Path. Scaffold files are
// not substituted: they are a source tree for the copy command, with tokens,
// forks and calls in the default syntax.
func NewSource(ctx context.Context, opts NewSourceOptions) (*NewSourceResult, error) {
	debug.DebugSection("[app] NewSource workflow start")
	debug.DebugValue("[app] Target path", opts.Path)
	debug.DebugValue("[app] Scaffold type", opts.Type)
	debug.DebugValue("[app] Force overwrite", opts.Force)

	scaffold, err := fs.Sub(scaffoldsFS, "scaffolds/"+opts.Type)
	if err == nil {
		_, err = fs.ReadDir(scaffold, ".")
	}
	if err != nil {
		availableTypes, _ := AvailableScaffoldTypes()
		return nil, NewValidationError(
			fmt.Sprintf("unknown scaffold type: %s (available: %v)", opts.Type, availableTypes),
			err,
		)
	}

	root, err := fsys.NewLocal(opts.Path)
	if err != nil {
		return nil, NewValidationError("failed to resolve target path", err)
	}
	if err := checkTarget(root, opts.Force); err != nil {
		return nil, err
	}
	if err := root.MkdirAll(); err != nil {
		return nil, NewValidationError("failed to create target directory", err)
	}

	result := &NewSourceResult{Path: root.Path(), Files: []string{}}
	err = fs.WalkDir(scaffold, ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		dest := root.Join(strings.Split(rel, "/")...)
		if d.IsDir() {
			return dest.MkdirAll()
		}
		content, err := fs.ReadFile(scaffold, rel)
		if err != nil {
			return err
		}
		if err := dest.WriteText(string(content)); err != nil {
			return err
		}
		result.FilesCreated++
		result.Files = append(result.Files, rel)
		debug.DebugValue("[app] Created file", dest.Path())
		return nil
	})
	if err != nil {
		return nil, NewValidationError("failed to write scaffold", err)
	}

	debug.Debug("[app] NewSource workflow completed")
	debug.DebugValue("[app] Files created", result.FilesCreated)
	return result, nil
}

// checkTarget accepts a missing directory, an empty one, or any directory
// when force is set.
func checkTarget(root fsys.Entry, force bool) error {
	exists, err := root.Exists()
	if err != nil {
		return NewValidationError("failed to inspect target path", err)
	}
	if !exists {
		return nil
	}
	isDir, err := root.IsDirectory()
	if err != nil {
		return NewValidationError("failed to inspect target path", err)
	}
	if !isDir {
		return NewValidationError(fmt.Sprintf("target path exists and is not a directory: %s", root.Path()), nil)
	}
	if force {
		return nil
	}
	children, err := root.List()
	if err != nil {
		return NewValidationError("failed to read target directory", err)
	}
	if len(children) > 0 {
		return NewValidationError(
			fmt.Sprintf("target directory is not empty: %s (use --force to write into it)", root.Path()),
			nil,
		)
	}
	return nil
}
