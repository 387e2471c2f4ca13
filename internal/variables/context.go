// Package variables provides the immutable variable bindings used for
// substitution while stamping a source tree.
package variables

import (
	"fmt"
	"sort"
	"strings"
)

// Context is an immutable set of string bindings.
// The zero value is an empty context and ready to use.
type Context struct {
	data map[string]string
}

// New creates a Context from a map. The map is copied.
func New(data map[string]string) Context {
	c := Context{data: make(map[string]string, len(data))}
	for k, v := range data {
		c.data[k] = v
	}
	return c
}

// Empty returns a context without bindings.
func Empty() Context {
	return Context{}
}

// Get returns the value bound to name.
func (c Context) Get(name string) (string, bool) {
	v, ok := c.data[name]
	return v, ok
}

// Lookup returns the value bound to name or an error if it is unbound.
func (c Context) Lookup(name string) (string, error) {
	v, ok := c.data[name]
	if !ok {
		return "", fmt.Errorf("variable not found: %s", name)
	}
	return v, nil
}

// Len returns the number of bindings.
func (c Context) Len() int {
	return len(c.data)
}

// Fork returns a derived context holding every binding of c plus additions.
// Additions overwrite existing keys. c itself is left untouched.
func (c Context) Fork(additions map[string]string) Context {
	forked := Context{data: make(map[string]string, len(c.data)+len(additions))}
	for k, v := range c.data {
		forked.data[k] = v
	}
	for k, v := range additions {
		forked.data[k] = v
	}
	return forked
}

// With is Fork for a single binding.
func (c Context) With(name, value string) Context {
	return c.Fork(map[string]string{name: value})
}

// Keys returns all bound names in sorted order.
func (c Context) Keys() []string {
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the bindings.
func (c Context) Map() map[string]string {
	result := make(map[string]string, len(c.data))
	for k, v := range c.data {
		result[k] = v
	}
	return result
}

// Env returns the bindings as a map suitable for expression environments.
func (c Context) Env() map[string]any {
	result := make(map[string]any, len(c.data))
	for k, v := range c.data {
		result[k] = v
	}
	return result
}

// String renders the context as {a=1, b=2} with sorted keys.
func (c Context) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range c.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(c.data[k])
	}
	sb.WriteString("}")
	return sb.String()
}
