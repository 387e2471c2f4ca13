// Package subst implements prefix/suffix delimited token replacement.
package subst

import (
	"strings"
	"unicode/utf8"

	"github.com/mlhartme/sushi-sub000/internal/variables"
)

// NoEscape disables escaping.
const NoEscape rune = 0

// Substitution replaces prefix NAME suffix tokens with bound values.
// A prefix directly preceded by the escape character is emitted literally,
// and the escape character is dropped. This holds as well when the escape
// character ends the suffix of the token before; that suffix is consumed. Substitution is stateless and safe
// for concurrent use.
type Substitution struct {
	prefix string
	suffix string
	escape rune
}

// New creates a Substitution. Prefix and suffix must be non-empty and the
// escape character must not be part of the prefix.
func New(prefix, suffix string, escape rune) (*Substitution, error) {
	if prefix == "" {
		return nil, newError(InvalidDelimiters, "substitution prefix cannot be empty", "", -1)
	}
	if suffix == "" {
		return nil, newError(InvalidDelimiters, "substitution suffix cannot be empty", "", -1)
	}
	if escape != NoEscape && strings.ContainsRune(prefix, escape) {
		return nil, newError(InvalidDelimiters, "escape character must not occur in prefix "+prefix, "", -1)
	}
	return &Substitution{prefix: prefix, suffix: suffix, escape: escape}, nil
}

// Ant returns the ${name} substitution with backslash escape.
func Ant() *Substitution {
	return &Substitution{prefix: "${", suffix: "}", escape: '\\'}
}

// Underline returns the __name__ substitution with backslash escape.
// It is suited for file names where $ and braces are awkward.
func Underline() *Substitution {
	return &Substitution{prefix: "__", suffix: "__", escape: '\\'}
}

// Prefix returns the token start marker.
func (s *Substitution) Prefix() string { return s.prefix }

// Suffix returns the token end marker.
func (s *Substitution) Suffix() string { return s.suffix }

// Escape returns the escape character, or NoEscape.
func (s *Substitution) Escape() rune { return s.escape }

// Apply substitutes every token in content. Substituted values are not
// scanned again.
func (s *Substitution) Apply(content string, ctx variables.Context) (string, error) {
	var sb strings.Builder
	sb.Grow(len(content))

	escLen := 0
	if s.escape != NoEscape {
		escLen = utf8.RuneLen(s.escape)
	}

	pos := 0
	for {
		rel := strings.Index(content[pos:], s.prefix)
		if rel < 0 {
			sb.WriteString(content[pos:])
			return sb.String(), nil
		}
		start := pos + rel

		// the escape may also be the last character of the previous suffix
		if escLen > 0 && start >= escLen {
			if r, _ := utf8.DecodeLastRuneInString(content[:start]); r == s.escape {
				if start-escLen >= pos {
					sb.WriteString(content[pos : start-escLen])
				}
				sb.WriteString(s.prefix)
				pos = start + len(s.prefix)
				continue
			}
		}

		nameStart := start + len(s.prefix)
		end := strings.Index(content[nameStart:], s.suffix)
		if end < 0 {
			return "", newError(MissingEndMarker, "missing end marker "+s.suffix, "", start)
		}
		name := content[nameStart : nameStart+end]
		value, ok := ctx.Get(name)
		if !ok {
			return "", newError(UndefinedVariable, "undefined variable", name, start)
		}

		sb.WriteString(content[pos:start])
		sb.WriteString(value)
		pos = nameStart + end + len(s.suffix)
	}
}

// String returns a representation like "${...}".
func (s *Substitution) String() string {
	return s.prefix + "..." + s.suffix
}
