package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mlhartme/sushi-sub000/internal/config"
	"github.com/mlhartme/sushi-sub000/internal/debug"
	"github.com/mlhartme/sushi-sub000/internal/variables"
)

// FilePrefix marks a variable value that names a file holding the value.
const FilePrefix = "@file:"

// VariableSources are the variable layers, lowest priority first.
type VariableSources struct {
	// Config holds the variables of the configuration file.
	Config map[string]any
	// ConfigDir resolves @file: references of config variables.
	ConfigDir string
	// File is an optional variables file.
	File string
	// Set are key=value assignments; they win over everything else.
	Set []string
	// SetDir resolves @file: references of assignments.
	SetDir string
}

// LoadVariables merges all variable layers into the root context.
func LoadVariables(sources VariableSources) (variables.Context, error) {
	debug.Debug("[app] LoadVariables: starting variable loading")

	merged := map[string]string{}

	fromConfig, err := config.StringifyVariables(sources.Config)
	if err != nil {
		return variables.Context{}, NewVariableLoadError("invalid configuration variables", err)
	}
	if err := mergeResolved(merged, fromConfig, sources.ConfigDir); err != nil {
		return variables.Context{}, err
	}

	if sources.File != "" {
		debug.DebugValue("[app] Variables file", sources.File)
		fromFile, err := config.LoadVariables(sources.File)
		if err != nil {
			return variables.Context{}, NewVariableLoadError("failed to load variables file", err)
		}
		if err := mergeResolved(merged, fromFile, filepath.Dir(sources.File)); err != nil {
			return variables.Context{}, err
		}
	}

	if len(sources.Set) > 0 {
		fromSet, err := config.ParseAssignments(sources.Set)
		if err != nil {
			return variables.Context{}, NewVariableLoadError("invalid --set", err)
		}
		if err := mergeResolved(merged, fromSet, sources.SetDir); err != nil {
			return variables.Context{}, err
		}
	}

	ctx := variables.New(merged)
	debug.DebugValue("[app] Variables", ctx)
	return ctx, nil
}

func mergeResolved(dest, vars map[string]string, baseDir string) error {
	resolved, err := ResolveFileReferences(vars, baseDir)
	if err != nil {
		return err
	}
	for k, v := range resolved {
		dest[k] = v
	}
	return nil
}

// ResolveFileReferences replaces @file: prefixed values with the content of
// the named file, resolved relative to baseDir. Files outside baseDir are
// rejected.
func ResolveFileReferences(vars map[string]string, baseDir string) (map[string]string, error) {
	processed := make(map[string]string, len(vars))

	for name, value := range vars {
		if !strings.HasPrefix(value, FilePrefix) {
			processed[name] = value
			continue
		}

		filename := strings.TrimSpace(strings.TrimPrefix(value, FilePrefix))
		debug.Debug("[app] Variable '%s': resolving @file: reference %s", name, filename)

		if filename == "" {
			return nil, NewVariableLoadError(
				fmt.Sprintf("variable %s: @file: prefix without filename", name),
				nil,
			)
		}

		// Verify resolved path is within baseDir
		absBaseDir, err := filepath.Abs(baseDir)
		if err != nil {
			return nil, NewVariableLoadError(
				fmt.Sprintf("variable %s: failed to resolve base directory", name),
				err,
			)
		}
		absFilePath := filepath.Join(absBaseDir, filename)
		relPath, err := filepath.Rel(absBaseDir, absFilePath)
		if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
			debug.Debug("[app] Variable '%s': file path escapes base directory", name)
			return nil, NewVariableLoadError(
				fmt.Sprintf("variable %s: @file: path must be within %s", name, absBaseDir),
				nil,
			)
		}

		content, err := os.ReadFile(absFilePath)
		if err != nil {
			return nil, NewVariableLoadError(
				fmt.Sprintf("variable %s: failed to read @file:%s", name, filename),
				err,
			)
		}
		processed[name] = string(content)
		debug.Debug("[app] Variable '%s': file content loaded (%d bytes)", name, len(content))
	}

	return processed, nil
}
