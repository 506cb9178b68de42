package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

var out io.Writer = os.Stdout

// SetOutput redirects everything printed by this package. It returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	previous := out
	out = w
	return previous
}

func Success(format string, args ...interface{}) {
	fmt.Fprint(out, successStyle.Render("✓ "))
	fmt.Fprintf(out, format+"\n", args...)
}

func Warning(format string, args ...interface{}) {
	fmt.Fprint(out, warningStyle.Render("⚠ "))
	fmt.Fprintf(out, format+"\n", args...)
}

func Error(format string, args ...interface{}) {
	fmt.Fprint(out, errorStyle.Render("✗ "))
	fmt.Fprintf(out, format+"\n", args...)
}

func Info(format string, args ...interface{}) {
	fmt.Fprint(out, infoStyle.Render("ℹ "))
	fmt.Fprintf(out, format+"\n", args...)
}

func Muted(format string, args ...interface{}) {
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

func Primary(format string, args ...interface{}) {
	fmt.Fprintln(out, primaryStyle.Render(fmt.Sprintf(format, args...)))
}

// Section prints a title underlined to its own width.
func Section(title string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, primaryStyle.Render(title))
	fmt.Fprintln(out, mutedStyle.Render(strings.Repeat("═", lipgloss.Width(title))))
	fmt.Fprintln(out)
}

// Money renders an amount with two decimals; negative amounts are highlighted.
func Money(amount decimal.Decimal) string {
	text := amount.StringFixed(2)
	if amount.IsNegative() {
		return errorStyle.Render(text)
	}
	return text
}

// StatusIcon maps round and transaction states onto a colored glyph.
func StatusIcon(status string) string {
	switch status {
	case "accepted", "confirmed", "ok":
		return successStyle.Render("✓")
	case "open", "pending":
		return warningStyle.Render("○")
	case "declined", "failed":
		return errorStyle.Render("✗")
	default:
		return mutedStyle.Render("•")
	}
}

// Table writes tab-aligned rows under a header.
func Table(header []string, rows [][]string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func JSON(value interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
