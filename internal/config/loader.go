package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/mlhartme/sushi-sub000/internal/debug"
)

// Loader defines the interface for loading configuration files.
type Loader interface {
	// Load loads configuration from the specified file path.
	Load(path string) (*Config, error)
	// LoadOrDefault loads configuration or returns defaults if file doesn't exist.
	LoadOrDefault(path string) (*Config, error)
	// Validate validates the configuration.
	Validate(config *Config) error
}

// FileLoader implements the Loader interface for file-based configuration loading.
// The format is chosen by file extension: YAML, TOML or JSON.
type FileLoader struct{}

// NewLoader creates a new FileLoader instance.
func NewLoader() Loader {
	return &FileLoader{}
}

// Load loads configuration from the specified file path. Unknown keys are
// rejected so typos do not pass silently.
func (l *FileLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigErrorWithCause(ConfigNotFound, path, "configuration file not found", err)
		}
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to read configuration file", err)
	}
	debug.Debug("[config] Loading configuration: %s (%d bytes)", path, len(data))

	var cfg Config
	if err := decodeStrict(path, data, &cfg); err != nil {
		return nil, err
	}

	// Merge with defaults for any missing fields
	mergeConfig(&cfg, DefaultConfig())

	if err := l.Validate(&cfg); err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.File = path
		}
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration or returns defaults if file doesn't exist.
func (l *FileLoader) LoadOrDefault(path string) (*Config, error) {
	cfg, err := l.Load(path)
	if err != nil {
		// If file not found, return defaults
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Type == ConfigNotFound {
			debug.Debug("[config] No configuration at %s, using defaults", path)
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration.
func (l *FileLoader) Validate(config *Config) error {
	return Validate(config)
}

// Discover returns the first config file present in sourceRoot, if any.
func Discover(sourceRoot string) (string, bool) {
	for _, name := range configFileNames {
		candidate := filepath.Join(sourceRoot, name)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			debug.Debug("[config] Discovered configuration: %s", candidate)
			return candidate, true
		}
	}
	return "", false
}

// LoadForSource loads the explicit config path if given, else the config
// discovered in sourceRoot, else the defaults.
func LoadForSource(explicitPath, sourceRoot string) (*Config, string, error) {
	loader := NewLoader()
	if explicitPath != "" {
		cfg, err := loader.Load(explicitPath)
		return cfg, explicitPath, err
	}
	if path, ok := Discover(sourceRoot); ok {
		cfg, err := loader.Load(path)
		return cfg, path, err
	}
	return DefaultConfig(), "", nil
}

// LoadVariables loads a flat variables file. The format is chosen by
// extension; nested values are rejected.
func LoadVariables(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigErrorWithCause(ConfigNotFound, path, "variables file not found", err)
		}
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to read variables file", err)
	}

	raw := map[string]any{}
	if err := decode(path, data, &raw); err != nil {
		return nil, err
	}
	vars, err := StringifyVariables(raw)
	if err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "invalid variables file", err)
	}
	debug.Debug("[config] Loaded %d variables from %s", len(vars), path)
	return vars, nil
}

// ParseAssignments parses key=value pairs. The value may be empty and may
// contain further '=' characters.
func ParseAssignments(assignments []string) (map[string]string, error) {
	result := make(map[string]string, len(assignments))
	for _, assignment := range assignments {
		key, value, ok := strings.Cut(assignment, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, NewConfigErrorWithField(ConfigInvalid, "", "set",
				fmt.Sprintf("invalid assignment %q (expected key=value)", assignment))
		}
		result[key] = value
	}
	return result, nil
}

// StringifyVariables converts scalar values to their string form.
func StringifyVariables(raw map[string]any) (map[string]string, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make(map[string]string, len(raw))
	for _, k := range keys {
		s, err := stringify(raw[k])
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", k, err)
		}
		result[k] = s
	}
	return result, nil
}

func stringify(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		// JSON numbers arrive as float64
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unsupported value type %T (only scalars are allowed)", value)
	}
}

// decodeStrict decodes data into v by extension, rejecting unknown keys.
func decodeStrict(path string, data []byte, v any) error {
	switch format(path) {
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return NewConfigErrorWithCause(ConfigInvalid, path, "invalid YAML", err)
		}
		return nil
	case "toml":
		md, err := toml.Decode(string(data), v)
		if err != nil {
			return NewConfigErrorWithCause(ConfigInvalid, path, "invalid TOML", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return NewConfigErrorWithField(ConfigInvalid, path, undecoded[0].String(), "unknown configuration key")
		}
		return nil
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return NewConfigErrorWithCause(ConfigInvalid, path, "invalid JSON syntax", err)
		}
		return nil
	default:
		return NewConfigError(ConfigInvalid, path, "unsupported file extension (expected .yaml, .yml, .toml or .json)")
	}
}

// decode decodes data into v by extension.
func decode(path string, data []byte, v any) error {
	switch format(path) {
	case "yaml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return NewConfigErrorWithCause(ConfigInvalid, path, "invalid YAML", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, v); err != nil {
			return NewConfigErrorWithCause(ConfigInvalid, path, "invalid TOML", err)
		}
	case "json":
		if err := json.Unmarshal(data, v); err != nil {
			return NewConfigErrorWithCause(ConfigInvalid, path, "invalid JSON syntax", err)
		}
	default:
		return NewConfigError(ConfigInvalid, path, "unsupported file extension (expected .yaml, .yml, .toml or .json)")
	}
	return nil
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	default:
		return ""
	}
}

// mergeConfig merges missing fields from defaults into cfg.
func mergeConfig(cfg, defaults *Config) {
	// Substitution
	if cfg.Substitution.Path.Style == "" {
		cfg.Substitution.Path.Style = defaults.Substitution.Path.Style
	}
	if cfg.Substitution.Content.Style == "" {
		cfg.Substitution.Content.Style = defaults.Substitution.Content.Style
	}

	// Copy
	if cfg.Copy.CallPrefix == nil {
		cfg.Copy.CallPrefix = defaults.Copy.CallPrefix
	}
	if cfg.Copy.ContextDelimiter == nil {
		cfg.Copy.ContextDelimiter = defaults.Copy.ContextDelimiter
	}
	if cfg.Copy.Exclude == nil {
		cfg.Copy.Exclude = defaults.Copy.Exclude
	}
	if len(cfg.Copy.BinaryExtensions) == 0 {
		cfg.Copy.BinaryExtensions = defaults.Copy.BinaryExtensions
	}

	// Diff
	if cfg.Diff.Context == nil {
		cfg.Diff.Context = defaults.Diff.Context
	}
	if cfg.Diff.Range == nil {
		cfg.Diff.Range = defaults.Diff.Range
	}

	if cfg.Variables == nil {
		cfg.Variables = defaults.Variables
	}
	if cfg.Forks == nil {
		cfg.Forks = defaults.Forks
	}
	if cfg.Generators == nil {
		cfg.Generators = defaults.Generators
	}
}

// ExpandPath expands ~ to home directory and evaluates relative paths.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		if path[1] == filepath.Separator || path[1] == '/' {
			return filepath.Join(homeDir, path[2:]), nil
		}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	return absPath, nil
}
