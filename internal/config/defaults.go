package config

// Config file names searched in a source root, in order.
var configFileNames = []string{
	".sushi.yaml",
	".sushi.yml",
	".sushi.toml",
	".sushi.json",
}

// SpecialFiles returns the config file names. They are never copied or diffed.
func SpecialFiles() []string {
	return append([]string(nil), configFileNames...)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	callPrefix := "@"
	contextDelimiter := ":"
	context := 3
	rangeHeaders := true
	return &Config{
		Substitution: SubstitutionConfig{
			Path:    DelimiterConfig{Style: StyleUnderline},
			Content: DelimiterConfig{Style: StyleAnt},
		},
		Copy: CopyConfig{
			CallPrefix:       &callPrefix,
			ContextDelimiter: &contextDelimiter,
			Modes:            false,
			Exclude:          DefaultExcludePatterns(),
			BinaryExtensions: DefaultBinaryExtensions(),
		},
		Diff: DiffConfig{
			Context: &context,
			Range:   &rangeHeaders,
		},
		Variables:  map[string]any{},
		Forks:      map[string]ForkConfig{},
		Generators: map[string]GeneratorConfig{},
	}
}

// DefaultExcludePatterns returns the default exclude patterns.
func DefaultExcludePatterns() []string {
	return []string{
		".DS_Store",
		"Thumbs.db",
		"*.swp",
		"*.swo",
		"*~",
		".git",
	}
}

// DefaultBinaryExtensions returns the default binary file extensions.
func DefaultBinaryExtensions() []string {
	return []string{
		// Images
		".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico",
		// Documents
		".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
		// Archives
		".zip", ".tar", ".gz", ".bz2", ".7z", ".rar", ".jar",
		// Executables and libraries
		".exe", ".dll", ".so", ".dylib", ".a", ".class",
		// Fonts
		".woff", ".woff2", ".ttf", ".eot", ".otf",
		// Media
		".mp3", ".mp4", ".avi", ".mov", ".wav",
		// Databases
		".db", ".sqlite", ".sqlite3",
	}
}
