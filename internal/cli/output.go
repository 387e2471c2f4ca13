package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/mlhartme/sushi-sub000/internal/diff"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	rangeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// colorEnabled reports whether w gets styled output.
func colorEnabled(w io.Writer) bool {
	if globalNoColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func styled(color bool, style lipgloss.Style, s string) string {
	if !color {
		return s
	}
	return style.Render(s)
}

// printInfo prints an informational message
func printInfo(msg string) {
	if globalQuiet {
		return
	}
	fmt.Println(msg)
}

// printSuccess prints a success message
func printSuccess(msg string) {
	if globalQuiet {
		return
	}
	fmt.Printf("%s %s\n", styled(colorEnabled(os.Stdout), successStyle, "✓"), msg)
}

// printWarning prints a warning message
func printWarning(msg string) {
	if globalQuiet {
		return
	}
	fmt.Printf("%s %s\n", styled(colorEnabled(os.Stdout), warningStyle, "⚠"), msg)
}

// printErrorMsg prints an error message (different from printError which takes error type)
func printErrorMsg(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", styled(colorEnabled(os.Stderr), errorStyle, "✗"), msg)
}

// printProgress prints a progress indicator
func printProgress(msg string) {
	if globalQuiet {
		return
	}
	fmt.Printf("%s %s\n", styled(colorEnabled(os.Stdout), infoStyle, "→"), msg)
}

// colorizeDiff styles a rendered diff line by line.
func colorizeDiff(text string, color bool) string {
	if !color || text == "" {
		return text
	}
	lines := strings.SplitAfter(text, "\n")
	var sb strings.Builder
	for _, line := range lines {
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "###"):
			body = headerStyle.Render(body)
		case strings.HasPrefix(body, "@@"):
			body = rangeStyle.Render(body)
		case strings.HasPrefix(body, "+"):
			body = successStyle.Render(body)
		case strings.HasPrefix(body, "-"):
			body = errorStyle.Render(body)
		case strings.HasPrefix(body, "mode "):
			body = warningStyle.Render(body)
		}
		sb.WriteString(body)
		if strings.HasSuffix(line, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// colorizeBrief styles the marker column of a brief report.
func colorizeBrief(report *diff.Report, color bool) string {
	if !color {
		return report.Brief()
	}
	var sb strings.Builder
	for _, e := range report.Entries {
		style := mutedStyle
		switch e.Marker {
		case diff.Added:
			style = successStyle
		case diff.Removed:
			style = errorStyle
		case diff.Modified, diff.ModeChanged:
			style = warningStyle
		}
		fmt.Fprintf(&sb, "%s %s\n", style.Render(string(e.Marker)), e.Path)
	}
	return sb.String()
}
