package copier

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mlhartme/sushi-sub000/internal/fsys"
	"github.com/mlhartme/sushi-sub000/internal/variables"
)

// ForkFunc turns one context into an ordered list of derived contexts.
type ForkFunc func(ctx variables.Context) ([]variables.Context, error)

// DirectoryFunc populates a freshly created destination directory.
type DirectoryFunc func(dest fsys.Entry, ctx variables.Context) error

// ContentFunc produces the content of a destination file.
type ContentFunc func(ctx variables.Context) (string, error)

// Generator is invoked instead of copying a call-prefixed entry.
// Exactly one flavor is set: Directory for directory sources, Content for
// file sources.
type Generator struct {
	Directory DirectoryFunc
	Content   ContentFunc
}

// DirectoryGenerator wraps fn as directory-flavored generator.
func DirectoryGenerator(fn DirectoryFunc) Generator {
	return Generator{Directory: fn}
}

// ContentGenerator wraps fn as content-flavored generator.
func ContentGenerator(fn ContentFunc) Generator {
	return Generator{Content: fn}
}

// DispatchTable maps fork triggers and generator names to hooks.
// It is read-only after construction and safe for concurrent use.
type DispatchTable struct {
	forks      map[rune]ForkFunc
	generators map[string]Generator
}

// NewDispatchTable validates and indexes the given hooks. Triggers are
// keyed upper-cased, generator names by NormalizeName; two registrations
// mapping to the same key are a configuration error.
func NewDispatchTable(forks map[rune]ForkFunc, generators map[string]Generator) (*DispatchTable, error) {
	t := &DispatchTable{
		forks:      make(map[rune]ForkFunc, len(forks)),
		generators: make(map[string]Generator, len(generators)),
	}

	// sorted iteration keeps the reported collision stable
	triggers := make([]rune, 0, len(forks))
	for r := range forks {
		triggers = append(triggers, r)
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i] < triggers[j] })
	for _, r := range triggers {
		if r == 0 || unicode.IsSpace(r) || r == '/' || r == '\\' {
			return nil, newConfigError(InvalidTrigger, "invalid fork trigger", string(r))
		}
		if forks[r] == nil {
			return nil, newConfigError(InvalidTrigger, "fork hook is nil", string(r))
		}
		key := unicode.ToUpper(r)
		if _, dup := t.forks[key]; dup {
			return nil, newConfigError(DuplicateFork, "duplicate fork trigger", string(key))
		}
		t.forks[key] = forks[r]
	}

	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		gen := generators[name]
		if (gen.Directory == nil) == (gen.Content == nil) {
			return nil, newConfigError(InvalidGenerator, "generator needs exactly one of directory or content", name)
		}
		key := NormalizeName(name)
		if key == "" {
			return nil, newConfigError(InvalidGenerator, "generator name has no identifier characters", name)
		}
		if _, dup := t.generators[key]; dup {
			return nil, newConfigError(DuplicateGenerator, "duplicate generator", key)
		}
		t.generators[key] = gen
	}
	return t, nil
}

// EmptyDispatchTable returns a table without hooks.
func EmptyDispatchTable() *DispatchTable {
	return &DispatchTable{forks: map[rune]ForkFunc{}, generators: map[string]Generator{}}
}

// Fork returns the hook for trigger, matched case-insensitively.
func (t *DispatchTable) Fork(trigger rune) (ForkFunc, bool) {
	fn, ok := t.forks[unicode.ToUpper(trigger)]
	return fn, ok
}

// Generator returns the generator registered for name after normalization.
func (t *DispatchTable) Generator(name string) (Generator, bool) {
	gen, ok := t.generators[NormalizeName(name)]
	return gen, ok
}

// Triggers returns the registered trigger keys in order.
func (t *DispatchTable) Triggers() []rune {
	result := make([]rune, 0, len(t.forks))
	for r := range t.forks {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Generators returns the registered generator keys in order.
func (t *DispatchTable) Generators() []string {
	result := make([]string, 0, len(t.generators))
	for name := range t.generators {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// String lists the registered keys, for debug output.
func (t *DispatchTable) String() string {
	return fmt.Sprintf("forks=%q generators=%v", string(t.Triggers()), t.Generators())
}

// NormalizeName strips everything but letters, digits and underscores and
// lower-cases the rest, so "Read-Me.txt" and "readmetxt" share a key.
func NormalizeName(name string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return -1
	}, name)
	// a Caser is stateful; one per call keeps the table safe to share
	return cases.Lower(language.Und).String(stripped)
}
