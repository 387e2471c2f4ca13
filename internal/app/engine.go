package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mlhartme/sushi-sub000/internal/config"
	"github.com/mlhartme/sushi-sub000/internal/copier"
	"github.com/mlhartme/sushi-sub000/internal/debug"
	"github.com/mlhartme/sushi-sub000/internal/diff"
	"github.com/mlhartme/sushi-sub000/internal/fsys"
	"github.com/mlhartme/sushi-sub000/internal/hooks"
	"github.com/mlhartme/sushi-sub000/internal/variables"
)

// EngineOptions selects a source tree and how it is stamped.
type EngineOptions struct {
	// Source is the source tree root.
	Source string
	// Dest is the destination root. It is excluded from the source when
	// nested inside it.
	Dest string
	// ConfigPath overrides config discovery in Source.
	ConfigPath string
	// VarsFile is an optional variables file.
	VarsFile string
	// Set are key=value assignments.
	Set []string
	// Modes overrides copy.modes when not nil.
	Modes *bool
}

// Engine is a fully configured copier for one source tree.
type Engine struct {
	// Config is the effective configuration.
	Config *config.Config
	// ConfigPath is the loaded config file ("" for defaults).
	ConfigPath string
	// Source is the source root.
	Source fsys.Entry
	// Dest is the destination root.
	Dest fsys.Entry
	// Variables is the root context.
	Variables variables.Context
	// Filter selects the copied source entries.
	Filter fsys.Filter
	// Modes propagates and compares permissions.
	Modes bool
	// Copier stamps Source.
	Copier *copier.Copier
}

// Prepare loads configuration and variables and builds the copier.
func Prepare(opts EngineOptions) (*Engine, error) {
	debug.DebugSection("[app] Prepare engine")
	debug.DebugValue("[app] Source", opts.Source)
	debug.DebugValue("[app] Dest", opts.Dest)

	if opts.Source == "" {
		return nil, NewValidationError("source directory is required", nil)
	}
	if opts.Dest == "" {
		return nil, NewValidationError("destination directory is required", nil)
	}
	sourcePath, err := config.ExpandPath(opts.Source)
	if err != nil {
		return nil, NewValidationError("failed to resolve source", err)
	}
	destPath, err := config.ExpandPath(opts.Dest)
	if err != nil {
		return nil, NewValidationError("failed to resolve destination", err)
	}
	if info, err := os.Stat(sourcePath); err != nil || !info.IsDir() {
		return nil, NewValidationError("source is not a directory: "+sourcePath, err)
	}
	if sourcePath == destPath {
		return nil, NewValidationError("source and destination must differ", nil)
	}

	cfg, cfgPath, err := config.LoadForSource(opts.ConfigPath, sourcePath)
	if err != nil {
		return nil, NewConfigLoadError("failed to load configuration", err)
	}
	debug.DebugValue("[app] Config", cfgPath)

	cwd, err := os.Getwd()
	if err != nil {
		return nil, NewVariableLoadError("failed to resolve working directory", err)
	}
	configDir := sourcePath
	if cfgPath != "" {
		configDir = filepath.Dir(cfgPath)
	}
	vars, err := LoadVariables(VariableSources{
		Config:    cfg.Variables,
		ConfigDir: configDir,
		File:      opts.VarsFile,
		Set:       opts.Set,
		SetDir:    cwd,
	})
	if err != nil {
		return nil, err
	}

	pathSubst, err := cfg.Substitution.Path.Build()
	if err != nil {
		return nil, NewConfigLoadError("invalid path substitution", err)
	}
	contentSubst, err := cfg.Substitution.Content.Build()
	if err != nil {
		return nil, NewConfigLoadError("invalid content substitution", err)
	}

	table, err := hooks.Build(cfg)
	if err != nil {
		return nil, NewConfigLoadError("invalid hooks", err)
	}

	modes := cfg.Copy.Modes
	if opts.Modes != nil {
		modes = *opts.Modes
	}

	source, err := fsys.NewLocal(sourcePath)
	if err != nil {
		return nil, NewValidationError("invalid source", err)
	}
	dest, err := fsys.NewLocal(destPath)
	if err != nil {
		return nil, NewValidationError("invalid destination", err)
	}

	filter := sourceFilter(cfg, sourcePath, destPath)
	c, err := copier.New(copier.Options{
		Source:           source,
		Filter:           filter,
		Modes:            modes,
		Variables:        vars,
		Path:             pathSubst,
		Content:          contentSubst,
		CallPrefix:       config.CharOf(cfg.Copy.CallPrefix),
		ContextDelimiter: config.CharOf(cfg.Copy.ContextDelimiter),
		BinaryExtensions: cfg.Copy.BinaryExtensions,
		Dispatch:         table,
	})
	if err != nil {
		return nil, NewConfigLoadError("invalid copy options", err)
	}

	return &Engine{
		Config:     cfg,
		ConfigPath: cfgPath,
		Source:     source,
		Dest:       dest,
		Variables:  vars,
		Filter:     filter,
		Modes:      modes,
		Copier:     c,
	}, nil
}

// sourceFilter combines the configured patterns with the special config
// files and, if nested, the destination.
func sourceFilter(cfg *config.Config, sourcePath, destPath string) fsys.Filter {
	exclude := append([]string(nil), cfg.Copy.Exclude...)
	exclude = append(exclude, config.SpecialFiles()...)
	if rel, err := filepath.Rel(sourcePath, destPath); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		// a one-segment pattern would also match the base name anywhere
		exclude = append(exclude, "/"+filepath.ToSlash(rel))
	}
	return fsys.Filter{
		Include: cfg.Copy.Include,
		Exclude: exclude,
	}
}

// DiffFilter selects the compared entries of both trees. Include patterns
// name source files and are not applied to rendered names.
func (e *Engine) DiffFilter() fsys.Filter {
	return fsys.Filter{Exclude: e.Filter.Exclude}
}

// DiffOptions returns the configured rendering options.
func (e *Engine) DiffOptions() diff.Options {
	opts := diff.DefaultOptions()
	if e.Config.Diff.Context != nil {
		opts.Context = *e.Config.Diff.Context
	}
	if e.Config.Diff.Range != nil {
		opts.Range = *e.Config.Diff.Range
	}
	return opts
}
