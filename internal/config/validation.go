package config

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/mlhartme/sushi-sub000/internal/subst"
)

// Validate validates the configuration. Errors carry the offending field
// but no file; Load fills in the file.
func Validate(config *Config) error {
	if config == nil {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "", "configuration cannot be nil")
	}

	if err := validateDelimiters("substitution.path", config.Substitution.Path); err != nil {
		return err
	}
	if err := validateDelimiters("substitution.content", config.Substitution.Content); err != nil {
		return err
	}

	if err := validateSingleChar("copy.call_prefix", config.Copy.CallPrefix); err != nil {
		return err
	}
	if err := validateSingleChar("copy.context_delimiter", config.Copy.ContextDelimiter); err != nil {
		return err
	}
	callPrefix, delimiter := CharOf(config.Copy.CallPrefix), CharOf(config.Copy.ContextDelimiter)
	if callPrefix != 0 && callPrefix == delimiter {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "copy.context_delimiter",
			"context delimiter must differ from call prefix")
	}

	if config.Diff.Context != nil && *config.Diff.Context < 0 {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "diff.context", "context cannot be negative")
	}

	if _, err := StringifyVariables(config.Variables); err != nil {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "variables", err.Error())
	}

	if err := validateForks(config.Forks); err != nil {
		return err
	}
	return validateGenerators(config.Generators)
}

// validateDelimiters checks a substitution declaration and that it builds.
func validateDelimiters(field string, d DelimiterConfig) error {
	switch d.Style {
	case "", StyleAnt, StyleUnderline, StyleNone:
		if d.Prefix != "" || d.Suffix != "" || d.Escape != "" {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field,
				fmt.Sprintf("prefix, suffix and escape require style %q", StyleCustom))
		}
		return nil
	case StyleCustom:
		if d.Prefix == "" || d.Suffix == "" {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field, "custom style requires prefix and suffix")
		}
		if utf8.RuneCountInString(d.Escape) > 1 {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field+".escape", "escape must be a single character")
		}
		if _, err := d.Build(); err != nil {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field, err.Error())
		}
		return nil
	default:
		return NewConfigErrorWithField(ConfigValidationFailed, "", field+".style",
			fmt.Sprintf("invalid style: %s (must be ant, underline, none, or custom)", d.Style))
	}
}

func validateSingleChar(field string, value *string) error {
	if value != nil && utf8.RuneCountInString(*value) > 1 {
		return NewConfigErrorWithField(ConfigValidationFailed, "", field,
			fmt.Sprintf("%q must be empty or a single character", *value))
	}
	return nil
}

func validateForks(forks map[string]ForkConfig) error {
	for _, trigger := range sortedKeys(forks) {
		fork := forks[trigger]
		field := "forks." + trigger
		if utf8.RuneCountInString(trigger) != 1 {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field, "fork trigger must be a single character")
		}
		hasValues := fork.Variable != "" || len(fork.Values) > 0
		hasExpr := fork.Expr != ""
		if hasValues == hasExpr {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field, "fork requires exactly one of values or expr")
		}
		if hasValues && fork.Variable == "" {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field+".variable", "fork with values requires a variable")
		}
		if hasValues && len(fork.Values) == 0 {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field+".values", "fork requires at least one value")
		}
	}
	return nil
}

func validateGenerators(generators map[string]GeneratorConfig) error {
	for _, name := range sortedKeys(generators) {
		gen := generators[name]
		field := "generators." + name
		if gen.Kind != KindFile && gen.Kind != KindDirectory {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field+".kind",
				fmt.Sprintf("invalid kind: %q (must be file or directory)", gen.Kind))
		}
		if (gen.Expr == "") == (gen.Builtin == "") {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field, "generator requires exactly one of expr or builtin")
		}
		if gen.Builtin != "" {
			if gen.Builtin != BuiltinUUID {
				return NewConfigErrorWithField(ConfigValidationFailed, "", field+".builtin",
					fmt.Sprintf("unknown builtin: %s", gen.Builtin))
			}
			if gen.Kind != KindFile {
				return NewConfigErrorWithField(ConfigValidationFailed, "", field+".kind",
					fmt.Sprintf("builtin %s creates a file", gen.Builtin))
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Build returns the Substitution for d, or nil for style none.
func (d DelimiterConfig) Build() (*subst.Substitution, error) {
	switch d.Style {
	case StyleAnt:
		return subst.Ant(), nil
	case StyleUnderline:
		return subst.Underline(), nil
	case StyleNone, "":
		return nil, nil
	case StyleCustom:
		escape := subst.NoEscape
		if d.Escape != "" {
			escape, _ = utf8.DecodeRuneInString(d.Escape)
		}
		return subst.New(d.Prefix, d.Suffix, escape)
	default:
		return nil, fmt.Errorf("invalid style: %s", d.Style)
	}
}

// CharOf returns the single character of value, or 0 when value is nil or
// empty.
func CharOf(value *string) rune {
	if value == nil || *value == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(*value)
	return r
}
