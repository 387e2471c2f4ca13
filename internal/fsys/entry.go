// Package fsys provides the file-or-directory handles, tree snapshots and
// scratch directories the copy and diff engines operate on.
package fsys

import "io/fs"

// Entry is an addressable file-or-directory handle.
// An Entry need not exist; existence is queried, never assumed.
type Entry interface {
	// Name returns the last path segment.
	Name() string
	// Path returns the full path for display and error messages.
	Path() string

	// Exists reports whether anything exists at this location.
	Exists() (bool, error)
	// IsFile reports whether a regular file exists at this location.
	IsFile() (bool, error)
	// IsDirectory reports whether a directory exists at this location.
	IsDirectory() (bool, error)

	// List returns the children of a directory sorted by name.
	List() ([]Entry, error)
	// CreateDirectory creates this directory; it fails if it already exists.
	CreateDirectory() error
	// MkdirAll creates this directory and missing parents; existing
	// directories are fine.
	MkdirAll() error

	// ReadBytes returns the file content.
	ReadBytes() ([]byte, error)
	// ReadText returns the file content as a string.
	ReadText() (string, error)
	// WriteText replaces the file content.
	WriteText(text string) error
	// CopyBytesTo copies the file content verbatim to dest.
	CopyBytesTo(dest Entry) error

	// SupportsPermissions reports whether permission bits are meaningful.
	SupportsPermissions() bool
	// Permissions returns the permission bits.
	Permissions() (fs.FileMode, error)
	// SetPermissions replaces the permission bits.
	SetPermissions(mode fs.FileMode) error

	// Join returns the entry for a descendant path.
	Join(names ...string) Entry
	// RelativeTo returns the slash-separated path of this entry below base.
	RelativeTo(base Entry) (string, error)
}
