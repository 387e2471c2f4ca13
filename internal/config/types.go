package config

// Config represents a source tree's sushi configuration.
type Config struct {
	// Substitution configures name and content substitution.
	Substitution SubstitutionConfig `json:"substitution" yaml:"substitution" toml:"substitution"`
	// Copy configures the copy engine.
	Copy CopyConfig `json:"copy" yaml:"copy" toml:"copy"`
	// Diff configures diff rendering.
	Diff DiffConfig `json:"diff" yaml:"diff" toml:"diff"`
	// Variables are the root variable bindings. Scalars are stringified.
	Variables map[string]any `json:"variables" yaml:"variables" toml:"variables"`
	// Forks maps single trigger characters to fork declarations.
	Forks map[string]ForkConfig `json:"forks" yaml:"forks" toml:"forks"`
	// Generators maps generator names to generator declarations.
	Generators map[string]GeneratorConfig `json:"generators" yaml:"generators" toml:"generators"`
}

// Substitution styles.
const (
	StyleAnt       = "ant"
	StyleUnderline = "underline"
	StyleNone      = "none"
	StyleCustom    = "custom"
)

// SubstitutionConfig holds the delimiters for names and contents.
type SubstitutionConfig struct {
	// Path applies to file and directory names.
	Path DelimiterConfig `json:"path" yaml:"path" toml:"path"`
	// Content applies to text file contents.
	Content DelimiterConfig `json:"content" yaml:"content" toml:"content"`
}

// DelimiterConfig selects a substitution preset or custom delimiters.
type DelimiterConfig struct {
	// Style is one of ant, underline, none or custom.
	Style string `json:"style" yaml:"style" toml:"style"`
	// Prefix opens a token (custom style only).
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty" toml:"prefix,omitempty"`
	// Suffix closes a token (custom style only).
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty" toml:"suffix,omitempty"`
	// Escape is an optional single escape character (custom style only).
	Escape string `json:"escape,omitempty" yaml:"escape,omitempty" toml:"escape,omitempty"`
}

// CopyConfig represents copy engine settings.
type CopyConfig struct {
	// CallPrefix marks generator entries; an explicit empty string disables calls.
	CallPrefix *string `json:"call_prefix,omitempty" yaml:"call_prefix,omitempty" toml:"call_prefix,omitempty"`
	// ContextDelimiter ends fork triggers; an explicit empty string disables forking.
	ContextDelimiter *string `json:"context_delimiter,omitempty" yaml:"context_delimiter,omitempty" toml:"context_delimiter,omitempty"`
	// Modes propagates permission bits.
	Modes bool `json:"modes" yaml:"modes" toml:"modes"`
	// Include are glob patterns of files to copy; empty means all.
	Include []string `json:"include" yaml:"include" toml:"include"`
	// Exclude are glob patterns of files and directories to skip.
	Exclude []string `json:"exclude" yaml:"exclude" toml:"exclude"`
	// BinaryExtensions are copied without content substitution.
	BinaryExtensions []string `json:"binary_extensions" yaml:"binary_extensions" toml:"binary_extensions"`
}

// DiffConfig represents diff rendering settings.
type DiffConfig struct {
	// Context is the number of unchanged lines around a change.
	Context *int `json:"context,omitempty" yaml:"context,omitempty" toml:"context,omitempty"`
	// Range prints "@@" range headers.
	Range *bool `json:"range,omitempty" yaml:"range,omitempty" toml:"range,omitempty"`
}

// ForkConfig declares a fork hook. Exactly one of Values or Expr is set.
type ForkConfig struct {
	// Variable is set to each of Values in turn.
	Variable string `json:"variable,omitempty" yaml:"variable,omitempty" toml:"variable,omitempty"`
	// Values are the values of Variable, one forked context each.
	Values []string `json:"values,omitempty" yaml:"values,omitempty" toml:"values,omitempty"`
	// Expr evaluates to a list of maps, one forked context each.
	Expr string `json:"expr,omitempty" yaml:"expr,omitempty" toml:"expr,omitempty"`
}

// Generator kinds.
const (
	KindFile      = "file"
	KindDirectory = "directory"
)

// Built-in generators.
const (
	BuiltinUUID = "uuid"
)

// GeneratorConfig declares a generator. Exactly one of Expr or Builtin is set.
type GeneratorConfig struct {
	// Kind is file or directory.
	Kind string `json:"kind" yaml:"kind" toml:"kind"`
	// Expr is evaluated with the current variables as environment.
	Expr string `json:"expr,omitempty" yaml:"expr,omitempty" toml:"expr,omitempty"`
	// Builtin names a built-in generator.
	Builtin string `json:"builtin,omitempty" yaml:"builtin,omitempty" toml:"builtin,omitempty"`
}
