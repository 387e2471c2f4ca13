// Package hooks turns the forks and generators declared in a configuration
// into a dispatch table for the copy engine.
package hooks

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/google/uuid"

	"github.com/mlhartme/sushi-sub000/internal/config"
	"github.com/mlhartme/sushi-sub000/internal/copier"
	"github.com/mlhartme/sushi-sub000/internal/debug"
	"github.com/mlhartme/sushi-sub000/internal/fsys"
	"github.com/mlhartme/sushi-sub000/internal/variables"
)

// KeepName is the built-in directory generator writing an empty .gitkeep.
const KeepName = "keep"

// Build compiles every declared hook and registers it. Expressions are
// compiled here, so syntax errors surface before any copy starts.
func Build(cfg *config.Config) (*copier.DispatchTable, error) {
	forks := make(map[rune]copier.ForkFunc, len(cfg.Forks))
	for key, fc := range cfg.Forks {
		trigger, _ := utf8.DecodeRuneInString(key)
		fn, err := forkFunc(key, fc)
		if err != nil {
			return nil, err
		}
		forks[trigger] = fn
	}

	generators := make(map[string]copier.Generator, len(cfg.Generators)+1)
	keepDeclared := false
	for name, gc := range cfg.Generators {
		gen, err := generator(name, gc)
		if err != nil {
			return nil, err
		}
		generators[name] = gen
		if copier.NormalizeName(name) == KeepName {
			keepDeclared = true
		}
	}
	if !keepDeclared {
		generators[KeepName] = copier.DirectoryGenerator(keep)
	}

	table, err := copier.NewDispatchTable(forks, generators)
	if err != nil {
		return nil, err
	}
	debug.Debug("[hooks] Built dispatch table: %s", table)
	return table, nil
}

func forkFunc(key string, fc config.ForkConfig) (copier.ForkFunc, error) {
	if fc.Expr == "" {
		return ValuesFork(fc.Variable, fc.Values), nil
	}
	program, err := compile(key, fc.Expr)
	if err != nil {
		return nil, err
	}
	return exprFork(key, program), nil
}

// ValuesFork derives one context per value with variable set to it.
func ValuesFork(variable string, values []string) copier.ForkFunc {
	values = append([]string(nil), values...)
	return func(ctx variables.Context) ([]variables.Context, error) {
		result := make([]variables.Context, len(values))
		for i, v := range values {
			result[i] = ctx.With(variable, v)
		}
		return result, nil
	}
}

func exprFork(key string, program *vm.Program) copier.ForkFunc {
	return func(ctx variables.Context) ([]variables.Context, error) {
		output, err := expr.Run(program, ctx.Env())
		if err != nil {
			return nil, newError(EvaluationFailed, key, "fork evaluation failed", err)
		}
		list, ok := output.([]any)
		if !ok {
			return nil, newError(InvalidResult, key, fmt.Sprintf("fork must yield a list of maps (got %T)", output), nil)
		}

		result := make([]variables.Context, 0, len(list))
		for i, item := range list {
			additions, ok := item.(map[string]any)
			if !ok {
				return nil, newError(InvalidResult, key, fmt.Sprintf("fork item %d is not a map (got %T)", i, item), nil)
			}
			bindings, err := config.StringifyVariables(additions)
			if err != nil {
				return nil, newError(InvalidResult, key, fmt.Sprintf("fork item %d", i), err)
			}
			result = append(result, ctx.Fork(bindings))
		}
		debug.Debug("[hooks] Fork %s produced %d contexts", key, len(result))
		return result, nil
	}
}

func generator(name string, gc config.GeneratorConfig) (copier.Generator, error) {
	if gc.Builtin == config.BuiltinUUID {
		return copier.ContentGenerator(uuidContent), nil
	}

	program, err := compile(name, gc.Expr)
	if err != nil {
		return copier.Generator{}, err
	}
	if gc.Kind == config.KindDirectory {
		return copier.DirectoryGenerator(exprDirectory(name, program)), nil
	}
	return copier.ContentGenerator(exprContent(name, program)), nil
}

func exprContent(name string, program *vm.Program) copier.ContentFunc {
	return func(ctx variables.Context) (string, error) {
		output, err := expr.Run(program, ctx.Env())
		if err != nil {
			return "", newError(EvaluationFailed, name, "generator evaluation failed", err)
		}
		content, err := scalar(output)
		if err != nil {
			return "", newError(InvalidResult, name, "generator must yield a scalar", err)
		}
		return content, nil
	}
}

func exprDirectory(name string, program *vm.Program) copier.DirectoryFunc {
	return func(dest fsys.Entry, ctx variables.Context) error {
		output, err := expr.Run(program, ctx.Env())
		if err != nil {
			return newError(EvaluationFailed, name, "generator evaluation failed", err)
		}
		files, ok := output.(map[string]any)
		if !ok {
			return newError(InvalidResult, name, fmt.Sprintf("directory generator must yield a map (got %T)", output), nil)
		}

		fileNames := make([]string, 0, len(files))
		for fileName := range files {
			fileNames = append(fileNames, fileName)
		}
		sort.Strings(fileNames)

		for _, fileName := range fileNames {
			if fileName == "" || fileName == "." || fileName == ".." || strings.ContainsAny(fileName, `/\`) {
				return newError(InvalidResult, name, fmt.Sprintf("invalid file name %q", fileName), nil)
			}
			content, err := scalar(files[fileName])
			if err != nil {
				return newError(InvalidResult, name, "file "+fileName, err)
			}
			if err := dest.Join(fileName).WriteText(content); err != nil {
				return err
			}
			debug.Debug("[hooks] Generator %s wrote %s", name, fileName)
		}
		return nil
	}
}

func uuidContent(variables.Context) (string, error) {
	return uuid.NewString() + "\n", nil
}

func keep(dest fsys.Entry, _ variables.Context) error {
	return dest.Join(".gitkeep").WriteText("")
}

func compile(hook, source string) (*vm.Program, error) {
	program, err := expr.Compile(source)
	if err != nil {
		return nil, newError(InvalidExpression, hook, fmt.Sprintf("failed to compile %q", source), err)
	}
	return program, nil
}

func scalar(value any) (string, error) {
	values, err := config.StringifyVariables(map[string]any{"value": value})
	if err != nil {
		return "", err
	}
	return values["value"], nil
}
