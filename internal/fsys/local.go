package fsys

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"syscall"

	"github.com/mlhartme/sushi-sub000/internal/debug"
)

// defaultFileMode is used for files that did not exist before a write.
const defaultFileMode fs.FileMode = 0644

// defaultDirMode is used for created directories.
const defaultDirMode fs.FileMode = 0755

// Local is an Entry on the local disk.
type Local struct {
	path Path
}

// NewLocal creates a Local entry for path. Relative paths are resolved
// against the working directory.
func NewLocal(path string) (*Local, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return &Local{path: ParsePath(filepath.ToSlash(abs))}, nil
}

// MustLocal is NewLocal for paths known to resolve, e.g. in tests.
func MustLocal(path string) *Local {
	l, err := NewLocal(path)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Local) osPath() string {
	return filepath.FromSlash(l.path.String())
}

// Name returns the last path segment.
func (l *Local) Name() string {
	return l.path.Base()
}

// Path returns the native path.
func (l *Local) Path() string {
	return l.osPath()
}

// String implements fmt.Stringer.
func (l *Local) String() string {
	return l.osPath()
}

func (l *Local) stat() (fs.FileInfo, bool, error) {
	info, err := os.Stat(l.osPath())
	if err != nil {
		// a file in the middle of the path means nothing exists here
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return info, true, nil
}

// Exists reports whether anything exists at this location.
func (l *Local) Exists() (bool, error) {
	_, ok, err := l.stat()
	return ok, err
}

// IsFile reports whether a regular file exists at this location.
func (l *Local) IsFile() (bool, error) {
	info, ok, err := l.stat()
	if err != nil || !ok {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// IsDirectory reports whether a directory exists at this location.
func (l *Local) IsDirectory() (bool, error) {
	info, ok, err := l.stat()
	if err != nil || !ok {
		return false, err
	}
	return info.IsDir(), nil
}

// List returns the children of a directory sorted by name.
func (l *Local) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(l.osPath())
	if err != nil {
		return nil, err
	}
	sort.Slice(dirEntries, func(i, j int) bool {
		return dirEntries[i].Name() < dirEntries[j].Name()
	})
	result := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		result = append(result, &Local{path: l.path.Join(de.Name())})
	}
	return result, nil
}

// CreateDirectory creates this directory; it fails if it already exists.
func (l *Local) CreateDirectory() error {
	debug.Debug("[fsys] Creating directory: %s", l.osPath())
	return os.Mkdir(l.osPath(), defaultDirMode)
}

// MkdirAll creates this directory and any missing parents.
func (l *Local) MkdirAll() error {
	return os.MkdirAll(l.osPath(), defaultDirMode)
}

// ReadBytes returns the file content.
func (l *Local) ReadBytes() ([]byte, error) {
	return os.ReadFile(l.osPath())
}

// ReadText returns the file content as a string.
func (l *Local) ReadText() (string, error) {
	data, err := os.ReadFile(l.osPath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteText replaces the file content atomically using a temporary file in
// the same directory. An existing file keeps its permission bits.
func (l *Local) WriteText(text string) error {
	debug.Debug("[fsys] Writing file: %s (size: %d bytes)", l.osPath(), len(text))
	return l.writeFrom(func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
}

// CopyBytesTo copies the file content verbatim to dest.
func (l *Local) CopyBytesTo(dest Entry) error {
	localDest, ok := dest.(*Local)
	if !ok {
		data, err := l.ReadBytes()
		if err != nil {
			return err
		}
		return dest.WriteText(string(data))
	}

	debug.Debug("[fsys] Copying bytes: %s -> %s", l.osPath(), localDest.osPath())
	src, err := os.Open(l.osPath())
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	return localDest.writeFrom(func(w io.Writer) error {
		_, err := io.Copy(w, src)
		return err
	})
}

func (l *Local) writeFrom(fill func(w io.Writer) error) error {
	target := l.osPath()
	mode := defaultFileMode
	if info, ok, err := l.stat(); err != nil {
		return err
	} else if ok {
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", target)
		}
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+l.Name()+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	err = fill(tmp)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, mode)
	}
	if err == nil {
		err = os.Rename(tmpName, target)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

// SupportsPermissions reports whether permission bits are meaningful.
// Windows only knows a read-only flag, so it is reported as unsupported.
func (l *Local) SupportsPermissions() bool {
	return runtime.GOOS != "windows"
}

// Permissions returns the permission bits.
func (l *Local) Permissions() (fs.FileMode, error) {
	info, err := os.Stat(l.osPath())
	if err != nil {
		return 0, err
	}
	return info.Mode().Perm(), nil
}

// SetPermissions replaces the permission bits.
func (l *Local) SetPermissions(mode fs.FileMode) error {
	debug.Debug("[fsys] Setting permissions: %s %s", l.osPath(), mode.Perm())
	return os.Chmod(l.osPath(), mode.Perm())
}

// Join returns the entry for a descendant path.
func (l *Local) Join(names ...string) Entry {
	return &Local{path: l.path.Join(names...)}
}

// RelativeTo returns the slash-separated path of this entry below base.
func (l *Local) RelativeTo(base Entry) (string, error) {
	basePath := ParsePath(filepath.ToSlash(base.Path()))
	return l.path.Rel(basePath)
}
