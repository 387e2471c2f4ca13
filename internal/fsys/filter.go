package fsys

import (
	"path"
	"strings"

	"github.com/mlhartme/sushi-sub000/internal/debug"
)

// Filter selects the entries of a tree.
// Exclude patterns apply to files and directories; an excluded directory is
// pruned with everything below it. Include patterns apply to files only; an
// empty include list selects every file.
type Filter struct {
	Include []string
	Exclude []string
}

// AcceptsDirectory reports whether the directory at rel is scanned.
func (f Filter) AcceptsDirectory(rel string) bool {
	return !f.excluded(rel)
}

// AcceptsFile reports whether the file at rel is part of the tree.
func (f Filter) AcceptsFile(rel string) bool {
	if f.excluded(rel) {
		return false
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, pattern := range f.Include {
		if MatchesPattern(rel, pattern) {
			return true
		}
	}
	debug.Debug("[scan] Not included: %s", rel)
	return false
}

func (f Filter) excluded(rel string) bool {
	for _, pattern := range f.Exclude {
		if MatchesPattern(rel, pattern) {
			debug.Debug("[scan] Excluding: %s (matched pattern: %s)", rel, pattern)
			return true
		}
	}
	return false
}

// MatchesPattern checks if a slash-separated relative path matches a glob
// pattern. Patterns without a slash also match the base name at any depth,
// a leading slash anchors the pattern at the root, and "**" matches any
// number of path segments.
func MatchesPattern(rel, pattern string) bool {
	rel = strings.ReplaceAll(rel, "\\", "/")
	pattern = strings.ReplaceAll(pattern, "\\", "/")

	if anchored, ok := strings.CutPrefix(pattern, "/"); ok {
		return matchSegments(strings.Split(anchored, "/"), strings.Split(rel, "/"))
	}

	if !strings.Contains(pattern, "/") {
		if matched, err := path.Match(pattern, path.Base(rel)); err == nil && matched {
			return true
		}
	}
	return matchSegments(strings.Split(pattern, "/"), strings.Split(rel, "/"))
}

func matchSegments(pattern, segments []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(segments); i++ {
				if matchSegments(rest, segments[i:]) {
					return true
				}
			}
			return false
		}
		if len(segments) == 0 {
			return false
		}
		matched, err := path.Match(pattern[0], segments[0])
		if err != nil || !matched {
			return false
		}
		pattern, segments = pattern[1:], segments[1:]
	}
	return len(segments) == 0
}
