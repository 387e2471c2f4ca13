package fsys

import (
	"fmt"
	"strings"
)

// Path is an immutable, normalized slash-separated path.
// Segments never contain "." or empty names; ".." only appears as leading
// segments of a relative path.
type Path struct {
	absolute bool
	segments []string
}

// ParsePath normalizes s. Backslashes are treated as separators.
func ParsePath(s string) Path {
	s = strings.ReplaceAll(s, "\\", "/")
	p := Path{absolute: strings.HasPrefix(s, "/")}
	return p.Join(s)
}

// Join resolves each element against p and returns the result.
// Doubled separators collapse, "." is dropped and ".." removes the previous
// segment. At the root of an absolute path ".." is dropped; in a relative
// path it is kept when there is nothing left to remove.
func (p Path) Join(elems ...string) Path {
	segments := make([]string, len(p.segments), len(p.segments)+len(elems))
	copy(segments, p.segments)

	for _, elem := range elems {
		elem = strings.ReplaceAll(elem, "\\", "/")
		for _, seg := range strings.Split(elem, "/") {
			switch seg {
			case "", ".":
				continue
			case "..":
				switch {
				case len(segments) > 0 && segments[len(segments)-1] != "..":
					segments = segments[:len(segments)-1]
				case p.absolute:
					// already at the root
				default:
					segments = append(segments, "..")
				}
			default:
				segments = append(segments, seg)
			}
		}
	}
	return Path{absolute: p.absolute, segments: segments}
}

// IsAbs reports whether the path is absolute.
func (p Path) IsAbs() bool {
	return p.absolute
}

// IsRoot reports whether p is "/" or the empty relative path.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Segments returns a copy of the path segments.
func (p Path) Segments() []string {
	result := make([]string, len(p.segments))
	copy(result, p.segments)
	return result
}

// Base returns the last segment, or "" for a root path.
func (p Path) Base() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Parent returns p without its last segment. The parent of a root is the root.
func (p Path) Parent() Path {
	if len(p.segments) == 0 || p.Base() == ".." {
		return p.Join("..")
	}
	return Path{absolute: p.absolute, segments: p.segments[:len(p.segments)-1]}
}

// HasPrefix reports whether base is p or one of its ancestors.
func (p Path) HasPrefix(base Path) bool {
	if p.absolute != base.absolute || len(base.segments) > len(p.segments) {
		return false
	}
	for i, seg := range base.segments {
		if p.segments[i] != seg {
			return false
		}
	}
	return true
}

// Rel returns p relative to base. Both must be absolute or both relative,
// and p must be located below base.
func (p Path) Rel(base Path) (string, error) {
	if !p.HasPrefix(base) {
		return "", fmt.Errorf("%s is not located below %s", p, base)
	}
	return strings.Join(p.segments[len(base.segments):], "/"), nil
}

// String returns the slash-separated form. The empty relative path is ".".
func (p Path) String() string {
	joined := strings.Join(p.segments, "/")
	if p.absolute {
		return "/" + joined
	}
	if joined == "" {
		return "."
	}
	return joined
}
