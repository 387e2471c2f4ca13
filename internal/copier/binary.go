package copier

import (
	"bytes"
	"path"
	"strings"
)

// DefaultBinaryExtensions returns file extensions copied without content
// substitution.
func DefaultBinaryExtensions() []string {
	return []string{
		// Images
		".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico",
		// Archives
		".zip", ".tar", ".gz", ".bz2", ".xz", ".rar", ".7z", ".jar",
		// Executables and libraries
		".exe", ".dll", ".so", ".dylib", ".bin", ".a", ".class",
		// Media
		".mp3", ".mp4", ".avi", ".mov", ".wav",
		// Documents
		".pdf", ".doc", ".docx", ".xls", ".xlsx",
		// Fonts
		".ttf", ".otf", ".woff", ".woff2",
	}
}

// sniffLen is how much content is checked for NUL bytes.
const sniffLen = 512

// hasBinaryExtension reports whether name ends in one of extensions,
// compared case-insensitively.
func hasBinaryExtension(name string, extensions []string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return false
	}
	for _, candidate := range extensions {
		if ext == strings.ToLower(candidate) {
			return true
		}
	}
	return false
}

// isBinaryContent reports whether content appears to be binary, i.e. has
// a NUL byte within its first 512 bytes.
func isBinaryContent(content []byte) bool {
	checkLen := min(len(content), sniffLen)
	return bytes.IndexByte(content[:checkLen], 0) != -1
}
