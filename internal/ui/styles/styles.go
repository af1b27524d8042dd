// Package styles provides shared lipgloss styles for terminal output.
//
// Styles always render full-color ANSI sequences. Write styled text
// through [NewWriter] so it is downsampled to what the destination
// supports, or stripped entirely when it is not a terminal.
package styles

import (
	"image/color"
	"io"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
)

// Palette
var (
	// Primary is the main accent color (cyan/teal)
	Primary color.Color = lipgloss.Color("62")

	// Accent is the highlight color for selected items (pink)
	Accent color.Color = lipgloss.Color("212")

	// Success is used for positive outcomes (green)
	Success color.Color = lipgloss.Color("82")

	// Error is used for error messages (red)
	Error color.Color = lipgloss.Color("196")

	// Warning is used for warnings (orange)
	Warning color.Color = lipgloss.Color("214")

	// Muted is used for secondary text (gray)
	Muted color.Color = lipgloss.Color("240")
)

var (
	TitleStyle   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	AccentStyle  = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
)

// NewWriter wraps w so styled output matches the color profile detected
// for it from environ (TERM, NO_COLOR, CLICOLOR_FORCE and friends).
func NewWriter(w io.Writer, environ []string) *colorprofile.Writer {
	return colorprofile.NewWriter(w, environ)
}

// Profile detects the color profile of w.
func Profile(w io.Writer, environ []string) colorprofile.Profile {
	return colorprofile.Detect(w, environ)
}
