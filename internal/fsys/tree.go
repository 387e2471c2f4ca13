package fsys

import (
	"fmt"

	"github.com/mlhartme/sushi-sub000/internal/debug"
)

// Tree is an immutable snapshot of a filtered directory tree.
type Tree struct {
	// Entry is the scanned file or directory.
	Entry Entry
	// Rel is the slash-separated path below the scan root ("" for the root).
	Rel string
	// Directory is true for directories.
	Directory bool
	// Children are the accepted children, sorted by name.
	Children []*Tree
}

// Scan captures the filtered tree below root. The snapshot is complete
// before Scan returns, so callers can mutate other locations afterwards
// without affecting it.
func Scan(root Entry, filter Filter) (*Tree, error) {
	isDir, err := root.IsDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root.Path(), err)
	}
	if !isDir {
		return nil, fmt.Errorf("failed to scan %s: not a directory", root.Path())
	}

	debug.Debug("[scan] Scanning: %s", root.Path())
	tree := &Tree{Entry: root, Directory: true}
	if err := scanChildren(tree, filter); err != nil {
		return nil, err
	}
	return tree, nil
}

func scanChildren(parent *Tree, filter Filter) error {
	children, err := parent.Entry.List()
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", parent.Entry.Path(), err)
	}

	for _, child := range children {
		rel := child.Name()
		if parent.Rel != "" {
			rel = parent.Rel + "/" + child.Name()
		}

		isDir, err := child.IsDirectory()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", child.Path(), err)
		}

		if isDir {
			if !filter.AcceptsDirectory(rel) {
				continue
			}
			node := &Tree{Entry: child, Rel: rel, Directory: true}
			if err := scanChildren(node, filter); err != nil {
				return err
			}
			parent.Children = append(parent.Children, node)
			continue
		}

		isFile, err := child.IsFile()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", child.Path(), err)
		}
		if !isFile {
			debug.Debug("[scan] Skipping non-regular entry: %s", child.Path())
			continue
		}
		if filter.AcceptsFile(rel) {
			parent.Children = append(parent.Children, &Tree{Entry: child, Rel: rel})
		}
	}
	return nil
}

// Walk visits t and all descendants depth-first, parents before children.
// Returning an error from fn stops the walk.
func (t *Tree) Walk(fn func(node *Tree) error) error {
	if err := fn(t); err != nil {
		return err
	}
	for _, child := range t.Children {
		if err := child.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// Paths returns the relative paths of all descendants in walk order.
// The root itself is not included.
func (t *Tree) Paths() []string {
	var result []string
	_ = t.Walk(func(node *Tree) error {
		if node != t {
			result = append(result, node.Rel)
		}
		return nil
	})
	return result
}

// Size returns the number of descendants.
func (t *Tree) Size() int {
	return len(t.Paths())
}
