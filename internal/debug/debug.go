// Package debug provides process-wide debug logging for sushi.
// Messages carry a "[component]" prefix, e.g. debug.Debug("[copier] ...").
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	mu      sync.RWMutex
	enabled bool
	noColor bool
	out     io.Writer = os.Stderr
)

var (
	tagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	timeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
)

// SetDebug enables or disables debug mode
func SetDebug(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = enable
}

// IsEnabled returns whether debug mode is enabled
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetNoColor enables or disables colored output
func SetNoColor(disable bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = disable
}

// SetOutput redirects debug output. It returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

// useColor reports whether styling applies: not disabled and writing to a terminal.
func useColor(w io.Writer) bool {
	if noColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func emit(line func(color bool, timestamp string) string) {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintln(out, line(useColor(out), timestamp))
}

// Debug prints a debug message with timestamp
func Debug(format string, args ...interface{}) {
	if !IsEnabled() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	emit(func(color bool, ts string) string {
		if color {
			return tagStyle.Render("[DEBUG]") + " " + timeStyle.Render(ts) + " " + msg
		}
		return "[DEBUG] " + ts + " " + msg
	})
}

// DebugSection prints a section header for debug output
func DebugSection(section string) {
	emit(func(color bool, ts string) string {
		if color {
			return tagStyle.Render("[DEBUG]") + " " + timeStyle.Render(ts) + " " + keyStyle.Render("=== "+section+" ===")
		}
		return "[DEBUG] " + ts + " === " + section + " ==="
	})
}

// DebugValue prints key=value style debug info
func DebugValue(key string, value interface{}) {
	emit(func(color bool, ts string) string {
		if color {
			return fmt.Sprintf("%s %s %s = %v", tagStyle.Render("[DEBUG]"), timeStyle.Render(ts), keyStyle.Render(key), value)
		}
		return fmt.Sprintf("[DEBUG] %s %s = %v", ts, key, value)
	})
}
