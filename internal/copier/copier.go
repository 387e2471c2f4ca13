// Package copier stamps a source tree into a destination, substituting
// variables into names and contents, forking output at context-delimited
// names and delegating call-prefixed entries to generators.
package copier

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mlhartme/sushi-sub000/internal/debug"
	"github.com/mlhartme/sushi-sub000/internal/fsys"
	"github.com/mlhartme/sushi-sub000/internal/subst"
	"github.com/mlhartme/sushi-sub000/internal/variables"
)

// Defaults for the special name characters.
const (
	DefaultCallPrefix       = '@'
	DefaultContextDelimiter = ':'
)

// Options configures a Copier.
type Options struct {
	// Source is the root of the tree to copy.
	Source fsys.Entry
	// Filter selects the copied entries.
	Filter fsys.Filter
	// Modes propagates permission bits from source to destination.
	Modes bool
	// Variables is the root context.
	Variables variables.Context
	// Path substitutes names; nil copies names literally.
	Path *subst.Substitution
	// Content substitutes file contents; nil copies contents verbatim.
	Content *subst.Substitution
	// CallPrefix marks entries handled by generators; 0 disables calls.
	CallPrefix rune
	// ContextDelimiter ends the fork triggers of a name; 0 disables forking.
	ContextDelimiter rune
	// BinaryExtensions are copied verbatim even with content substitution.
	// nil selects DefaultBinaryExtensions.
	BinaryExtensions []string
	// Dispatch holds the hooks; nil means no hooks.
	Dispatch *DispatchTable
}

// Copier copies one source tree. A Copier holds no per-run state and may
// be used for several destinations, also concurrently.
type Copier struct {
	opts Options
}

// New validates opts and creates a Copier.
func New(opts Options) (*Copier, error) {
	if opts.Source == nil {
		return nil, newConfigError(InvalidOptions, "source is required", "")
	}
	if opts.CallPrefix != 0 && opts.CallPrefix == opts.ContextDelimiter {
		return nil, newConfigError(InvalidOptions, "call prefix and context delimiter must differ", string(opts.CallPrefix))
	}
	if opts.Dispatch == nil {
		opts.Dispatch = EmptyDispatchTable()
	}
	if opts.BinaryExtensions == nil {
		opts.BinaryExtensions = DefaultBinaryExtensions()
	}
	return &Copier{opts: opts}, nil
}

// Source returns the copied root.
func (c *Copier) Source() fsys.Entry {
	return c.opts.Source
}

// Directory copies the source tree into destRoot and returns every created
// or overwritten entry in scan order, parents before children. The filtered
// source tree is scanned completely before the first write. The first
// failure aborts the run; nothing is rolled back.
func (c *Copier) Directory(destRoot fsys.Entry) ([]fsys.Entry, error) {
	debug.Debug("[copier] Starting copy: source=%s, dest=%s, modes=%v, dispatch=%s",
		c.opts.Source.Path(), destRoot.Path(), c.opts.Modes, c.opts.Dispatch)

	tree, err := fsys.Scan(c.opts.Source, c.opts.Filter)
	if err != nil {
		return nil, newCopyError(IOFailed, "failed to scan source", c.opts.Source.Path(), destRoot.Path(), err)
	}
	debug.Debug("[copier] Scanned %d entries", tree.Size())

	if err := destRoot.MkdirAll(); err != nil {
		return nil, newCopyError(IOFailed, "failed to create destination", c.opts.Source.Path(), destRoot.Path(), err)
	}

	var result []fsys.Entry
	for _, child := range tree.Children {
		if err := c.visit(child, destRoot, c.opts.Variables, &result); err != nil {
			return nil, err
		}
	}
	debug.Debug("[copier] Copy complete: %d entries", len(result))
	return result, nil
}

func (c *Copier) visit(node *fsys.Tree, destParent fsys.Entry, ctx variables.Context, result *[]fsys.Entry) error {
	name := node.Entry.Name()

	if c.opts.CallPrefix != 0 {
		if r, size := utf8.DecodeRuneInString(name); r == c.opts.CallPrefix {
			return c.call(node, destParent, name[size:], ctx, result)
		}
	}

	contexts, remainder, err := c.fork(node, destParent, name, ctx)
	if err != nil {
		return err
	}

	for _, forked := range contexts {
		destName, err := c.destName(node, destParent, remainder, forked)
		if err != nil {
			return err
		}
		dest := destParent.Join(destName)

		if node.Directory {
			if err := c.directory(node, dest, forked, result); err != nil {
				return err
			}
			continue
		}
		if err := c.file(node, destParent, dest, forked); err != nil {
			return err
		}
		*result = append(*result, dest)
	}
	return nil
}

// fork expands the triggers before the context delimiter. Each trigger is
// applied to every context produced so far, so counts multiply.
func (c *Copier) fork(node *fsys.Tree, destParent fsys.Entry, name string, ctx variables.Context) ([]variables.Context, string, error) {
	if c.opts.ContextDelimiter == 0 {
		return []variables.Context{ctx}, name, nil
	}
	idx := strings.IndexRune(name, c.opts.ContextDelimiter)
	if idx < 0 {
		return []variables.Context{ctx}, name, nil
	}
	triggers := name[:idx]
	remainder := name[idx+utf8.RuneLen(c.opts.ContextDelimiter):]

	contexts := []variables.Context{ctx}
	for _, trigger := range triggers {
		hook, ok := c.opts.Dispatch.Fork(trigger)
		if !ok {
			return nil, "", newCopyError(UnknownContext, "unknown context "+string(trigger),
				node.Entry.Path(), destParent.Path(), nil)
		}
		var next []variables.Context
		for _, current := range contexts {
			produced, err := hook(current)
			if err != nil {
				return nil, "", newCopyError(HookFailed, "context "+string(trigger)+" failed",
					node.Entry.Path(), destParent.Path(), err)
			}
			next = append(next, produced...)
		}
		contexts = next
	}
	debug.Debug("[copier] Forked %s: triggers=%q, contexts=%d", node.Rel, triggers, len(contexts))
	return contexts, remainder, nil
}

func (c *Copier) destName(node *fsys.Tree, destParent fsys.Entry, remainder string, ctx variables.Context) (string, error) {
	destName := remainder
	if c.opts.Path != nil {
		var err error
		destName, err = c.opts.Path.Apply(remainder, ctx)
		if err != nil {
			return "", newCopyError(SubstitutionFailed, "failed to substitute name "+remainder,
				node.Entry.Path(), destParent.Path(), err)
		}
	}
	if err := validateName(destName); err != nil {
		return "", newCopyError(InvalidName, "invalid destination name", node.Entry.Path(), destParent.Path(), err)
	}
	return destName, nil
}

func (c *Copier) directory(node *fsys.Tree, dest fsys.Entry, ctx variables.Context, result *[]fsys.Entry) error {
	debug.Debug("[copier] Directory: %s -> %s", node.Rel, dest.Path())
	if err := dest.MkdirAll(); err != nil {
		return newCopyError(IOFailed, "failed to create directory", node.Entry.Path(), dest.Path(), err)
	}
	*result = append(*result, dest)
	if err := c.unlock(node.Entry, dest); err != nil {
		return err
	}

	for _, child := range node.Children {
		if err := c.visit(child, dest, ctx, result); err != nil {
			return err
		}
	}
	// after the children, so a read-only mode cannot block their creation
	return c.propagateModes(node.Entry, dest)
}

func (c *Copier) file(node *fsys.Tree, destParent, dest fsys.Entry, ctx variables.Context) error {
	src := node.Entry
	if err := destParent.MkdirAll(); err != nil {
		return newCopyError(IOFailed, "failed to create parent directory", src.Path(), dest.Path(), err)
	}

	verbatim := c.opts.Content == nil || hasBinaryExtension(src.Name(), c.opts.BinaryExtensions)
	var data []byte
	if !verbatim {
		var err error
		if data, err = src.ReadBytes(); err != nil {
			return newCopyError(IOFailed, "failed to read file", src.Path(), dest.Path(), err)
		}
		verbatim = isBinaryContent(data)
	}

	if verbatim {
		debug.Debug("[copier] Copying verbatim: %s -> %s", node.Rel, dest.Path())
		if err := src.CopyBytesTo(dest); err != nil {
			return newCopyError(IOFailed, "failed to copy file", src.Path(), dest.Path(), err)
		}
	} else {
		debug.Debug("[copier] Substituting: %s -> %s (size: %d bytes)", node.Rel, dest.Path(), len(data))
		text, err := c.opts.Content.Apply(string(data), ctx)
		if err != nil {
			return newCopyError(SubstitutionFailed, "failed to substitute content", src.Path(), dest.Path(), err)
		}
		if err := dest.WriteText(text); err != nil {
			return newCopyError(IOFailed, "failed to write file", src.Path(), dest.Path(), err)
		}
	}
	return c.propagateModes(src, dest)
}

// unlock adds the owner write bit to a destination directory left
// read-only by an earlier run; propagateModes restores the mode afterwards.
func (c *Copier) unlock(src, dest fsys.Entry) error {
	if !c.opts.Modes || !dest.SupportsPermissions() {
		return nil
	}
	mode, err := dest.Permissions()
	if err != nil {
		return newCopyError(IOFailed, "failed to read permissions", src.Path(), dest.Path(), err)
	}
	if mode&0200 != 0 {
		return nil
	}
	if err := dest.SetPermissions(mode | 0200); err != nil {
		return newCopyError(IOFailed, "failed to set permissions", src.Path(), dest.Path(), err)
	}
	return nil
}

func (c *Copier) propagateModes(src, dest fsys.Entry) error {
	if !c.opts.Modes || !src.SupportsPermissions() || !dest.SupportsPermissions() {
		return nil
	}
	mode, err := src.Permissions()
	if err != nil {
		return newCopyError(IOFailed, "failed to read permissions", src.Path(), dest.Path(), err)
	}
	if err := dest.SetPermissions(mode); err != nil {
		return newCopyError(IOFailed, "failed to set permissions", src.Path(), dest.Path(), err)
	}
	return nil
}

// call hands an entry to its generator. Names of called entries are used
// as they are, without substitution.
func (c *Copier) call(node *fsys.Tree, destParent fsys.Entry, name string, ctx variables.Context, result *[]fsys.Entry) error {
	src := node.Entry
	gen, ok := c.opts.Dispatch.Generator(name)
	if !ok {
		return newCopyError(UnknownCall, "unknown call "+NormalizeName(name), src.Path(), destParent.Path(), nil)
	}
	if err := validateName(name); err != nil {
		return newCopyError(InvalidName, "invalid destination name", src.Path(), destParent.Path(), err)
	}
	dest := destParent.Join(name)
	debug.Debug("[copier] Calling generator %s for %s -> %s", NormalizeName(name), node.Rel, dest.Path())

	if node.Directory {
		if gen.Directory == nil {
			return newCopyError(UnknownCall, "generator "+NormalizeName(name)+" cannot create a directory",
				src.Path(), dest.Path(), nil)
		}
		if err := dest.MkdirAll(); err != nil {
			return newCopyError(IOFailed, "failed to create directory", src.Path(), dest.Path(), err)
		}
		*result = append(*result, dest)
		if err := gen.Directory(dest, ctx); err != nil {
			return newCopyError(HookFailed, "generator failed", src.Path(), dest.Path(), err)
		}
		return nil
	}

	if gen.Content == nil {
		return newCopyError(UnknownCall, "generator "+NormalizeName(name)+" cannot create a file",
			src.Path(), dest.Path(), nil)
	}
	text, err := gen.Content(ctx)
	if err != nil {
		return newCopyError(HookFailed, "generator failed", src.Path(), dest.Path(), err)
	}
	if err := destParent.MkdirAll(); err != nil {
		return newCopyError(IOFailed, "failed to create parent directory", src.Path(), dest.Path(), err)
	}
	if err := dest.WriteText(text); err != nil {
		return newCopyError(IOFailed, "failed to write file", src.Path(), dest.Path(), err)
	}
	*result = append(*result, dest)
	return nil
}

// validateName rejects names that would not create exactly one entry
// directly below the destination parent.
func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("empty name")
	case name == "." || name == "..":
		return fmt.Errorf("name %q is not allowed", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("name %q contains a path separator", name)
	}
	return nil
}
