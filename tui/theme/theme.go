// Package theme holds the lipgloss styles used for human-readable output:
// status summaries, the session-end notification and the log formatter.
package theme

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme groups the styles shared across commands.
type Theme struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Box     lipgloss.Style
}

// DefaultTheme is the theme used by every command.
var DefaultTheme = newTheme()

func newTheme() *Theme {
	green := lipgloss.AdaptiveColor{Light: "#2f7d32", Dark: "#98bb6c"}
	red := lipgloss.AdaptiveColor{Light: "#b3261e", Dark: "#e46876"}
	yellow := lipgloss.AdaptiveColor{Light: "#8a6d00", Dark: "#e6c384"}
	blue := lipgloss.AdaptiveColor{Light: "#1f5fa8", Dark: "#7e9cd8"}
	violet := lipgloss.AdaptiveColor{Light: "#6b3fa0", Dark: "#957fb8"}
	muted := lipgloss.AdaptiveColor{Light: "#6c6c6c", Dark: "#727169"}

	return &Theme{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(blue),
		Success: lipgloss.NewStyle().Foreground(green),
		Error:   lipgloss.NewStyle().Foreground(red).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(yellow),
		Info:    lipgloss.NewStyle().Foreground(blue),
		Muted:   lipgloss.NewStyle().Foreground(muted),
		Accent:  lipgloss.NewStyle().Foreground(violet).Bold(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
	}
}

// InitializeColor honors CLICOLOR_FORCE / COLORTERM so styled output stays
// colored when piped, and NO_COLOR to disable it entirely.
func InitializeColor() {
	switch {
	case os.Getenv("NO_COLOR") != "":
		lipgloss.SetColorProfile(termenv.Ascii)
	case os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// RenderStatus renders text with the appropriate status style.
func RenderStatus(status, text string) string {
	switch status {
	case "success":
		return DefaultTheme.Success.Render(text)
	case "error":
		return DefaultTheme.Error.Render(text)
	case "warning":
		return DefaultTheme.Warning.Render(text)
	case "info":
		return DefaultTheme.Info.Render(text)
	default:
		return text
	}
}

// RenderBox renders content inside a styled box.
func RenderBox(content string) string {
	return DefaultTheme.Box.Render(content)
}
