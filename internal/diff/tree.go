package diff

import (
	"bytes"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/mlhartme/sushi-sub000/internal/debug"
	"github.com/mlhartme/sushi-sub000/internal/fsys"
)

// Marker classifies a path in a tree comparison.
type Marker byte

const (
	// Added marks a path that exists only on the right.
	Added Marker = 'A'
	// Removed marks a path that exists only on the left.
	Removed Marker = 'R'
	// Modified marks files whose content differs.
	Modified Marker = 'M'
	// ModeChanged marks files with equal content but different permissions.
	ModeChanged Marker = 'm'
)

// ReportEntry is the comparison result for one path.
type ReportEntry struct {
	Marker Marker
	// Path is slash-separated and relative to both roots.
	Path string
	// Directory is true when the reported entry is a directory.
	Directory bool
	// Left and Right are the compared lines of files.
	Left  []string
	Right []string
	// Chunks are the changes from Left to Right.
	Chunks []Chunk
	// LeftMode and RightMode are set for ModeChanged entries.
	LeftMode  fs.FileMode
	RightMode fs.FileMode
}

// Report is the ordered result of a tree comparison.
type Report struct {
	Entries []ReportEntry
}

// Empty reports whether the trees are equal.
func (r *Report) Empty() bool {
	return len(r.Entries) == 0
}

// Brief renders one "<marker> <path>" line per entry.
func (r *Report) Brief() string {
	var sb strings.Builder
	for _, e := range r.Entries {
		sb.WriteByte(byte(e.Marker))
		sb.WriteByte(' ')
		sb.WriteString(e.Path)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Full renders a "### <marker> <path>" header per entry followed by its
// unified diff.
func (r *Report) Full(opts Options) string {
	var sb strings.Builder
	for _, e := range r.Entries {
		fmt.Fprintf(&sb, "### %c %s\n", e.Marker, e.Path)
		if e.Marker == ModeChanged {
			fmt.Fprintf(&sb, "mode %s -> %s\n", e.LeftMode, e.RightMode)
			continue
		}
		sb.WriteString(Format(e.Left, e.Right, e.Chunks, opts))
	}
	return sb.String()
}

// Stats summarizes a report.
type Stats struct {
	Added       int
	Removed     int
	Modified    int
	ModeChanged int
	Insertions  int
	Deletions   int
}

// Stats counts entries per marker and changed lines.
func (r *Report) Stats() Stats {
	var s Stats
	for _, e := range r.Entries {
		switch e.Marker {
		case Added:
			s.Added++
		case Removed:
			s.Removed++
		case Modified:
			s.Modified++
		case ModeChanged:
			s.ModeChanged++
		}
		for _, c := range e.Chunks {
			s.Insertions += len(c.Added)
			s.Deletions += len(c.Deleted)
		}
	}
	return s
}

// Directory compares the filtered trees below left and right. A missing
// root counts as an empty tree. With modes set, files with equal content but
// different permission bits are reported as ModeChanged where both sides
// support permissions.
//
// The comparison fails as a whole on the first unsupported transition.
func Directory(left, right fsys.Entry, filter fsys.Filter, modes bool) (*Report, error) {
	debug.Debug("[diff] Comparing %s with %s", left.Path(), right.Path())

	leftPaths, err := scanPaths(left, filter)
	if err != nil {
		return nil, err
	}
	rightPaths, err := scanPaths(right, filter)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, rel := range union(leftPaths, rightPaths) {
		entry, err := comparePath(left.Join(rel), right.Join(rel), rel, modes)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			debug.Debug("[diff] %c %s", entry.Marker, rel)
			report.Entries = append(report.Entries, *entry)
		}
	}
	debug.Debug("[diff] Comparison complete: %d differences", len(report.Entries))
	return report, nil
}

func scanPaths(root fsys.Entry, filter fsys.Filter) ([]string, error) {
	exists, err := root.Exists()
	if err != nil {
		return nil, newError(ReadFailed, "failed to check root", root.Path(), err)
	}
	if !exists {
		return nil, nil
	}
	tree, err := fsys.Scan(root, filter)
	if err != nil {
		return nil, newError(ReadFailed, "failed to scan tree", root.Path(), err)
	}
	return tree.Paths(), nil
}

// union merges both path lists, parents before children.
func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var result []string
	for _, list := range [][]string{a, b} {
		for _, p := range list {
			if !seen[p] {
				seen[p] = true
				result = append(result, p)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return comparePaths(result[i], result[j]) < 0
	})
	return result
}

// comparePaths orders segment by segment, so "a/b" sorts before "a.txt".
func comparePaths(a, b string) int {
	as, bs := strings.Split(a, "/"), strings.Split(b, "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := strings.Compare(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return len(as) - len(bs)
}

type kind int

const (
	missing kind = iota
	file
	directory
)

func kindOf(e fsys.Entry, rel string) (kind, error) {
	isDir, err := e.IsDirectory()
	if err != nil {
		return missing, newError(ReadFailed, "failed to stat", rel, err)
	}
	if isDir {
		return directory, nil
	}
	isFile, err := e.IsFile()
	if err != nil {
		return missing, newError(ReadFailed, "failed to stat", rel, err)
	}
	if isFile {
		return file, nil
	}
	return missing, nil
}

func comparePath(left, right fsys.Entry, rel string, modes bool) (*ReportEntry, error) {
	lk, err := kindOf(left, rel)
	if err != nil {
		return nil, err
	}
	rk, err := kindOf(right, rel)
	if err != nil {
		return nil, err
	}

	switch {
	case lk == directory && rk == directory:
		return nil, nil
	case lk == directory && rk == file:
		return nil, newError(Unsupported, "directory was replaced by a file", rel, nil)
	case lk == directory:
		return &ReportEntry{Marker: Removed, Path: rel, Directory: true}, nil
	case rk == directory:
		return &ReportEntry{Marker: Added, Path: rel, Directory: true}, nil
	case lk == missing && rk == missing:
		return nil, nil
	}

	leftData, err := readIf(left, lk == file, rel)
	if err != nil {
		return nil, err
	}
	rightData, err := readIf(right, rk == file, rel)
	if err != nil {
		return nil, err
	}
	leftLines, rightLines := Lines(string(leftData)), Lines(string(rightData))

	switch {
	case lk == missing:
		return textEntry(Added, rel, leftLines, rightLines), nil
	case rk == missing:
		return textEntry(Removed, rel, leftLines, rightLines), nil
	case !bytes.Equal(leftData, rightData):
		return textEntry(Modified, rel, leftLines, rightLines), nil
	}

	if !modes || !left.SupportsPermissions() || !right.SupportsPermissions() {
		return nil, nil
	}
	leftMode, err := left.Permissions()
	if err != nil {
		return nil, newError(ReadFailed, "failed to read permissions", rel, err)
	}
	rightMode, err := right.Permissions()
	if err != nil {
		return nil, newError(ReadFailed, "failed to read permissions", rel, err)
	}
	if leftMode == rightMode {
		return nil, nil
	}
	return &ReportEntry{Marker: ModeChanged, Path: rel, LeftMode: leftMode, RightMode: rightMode}, nil
}

func readIf(e fsys.Entry, present bool, rel string) ([]byte, error) {
	if !present {
		return nil, nil
	}
	data, err := e.ReadBytes()
	if err != nil {
		return nil, newError(ReadFailed, "failed to read file", rel, err)
	}
	return data, nil
}

func textEntry(marker Marker, rel string, left, right []string) *ReportEntry {
	return &ReportEntry{
		Marker: marker,
		Path:   rel,
		Left:   left,
		Right:  right,
		Chunks: Chunks(left, right),
	}
}
