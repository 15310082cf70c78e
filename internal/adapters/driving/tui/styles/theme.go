// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette of the TUI.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color

	// Completed marks finished requirements.
	Completed lipgloss.Color

	// Critical marks critical requirements that are still open.
	Critical lipgloss.Color

	// Missing marks child-of references to unknown requirements.
	Missing lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#2E7D32"), // Snake green
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Border:     lipgloss.Color("#45475A"), // Border gray
		Completed:  lipgloss.Color("#A6E3A1"), // Green
		Critical:   lipgloss.Color("#F38BA8"), // Red
		Missing:    lipgloss.Color("#F9E2AF"), // Yellow
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	Selected  lipgloss.Style
	Completed lipgloss.Style
	Critical  lipgloss.Style
	Missing   lipgloss.Style
	Error     lipgloss.Style

	// InputField frames the filter input.
	InputField lipgloss.Style

	// StatusBar is the bottom line with counts and key hints.
	StatusBar lipgloss.Style

	// Panel frames the requirement detail.
	Panel lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Completed: lipgloss.NewStyle().
			Foreground(theme.Completed),

		Critical: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Critical),

		Missing: lipgloss.NewStyle().
			Italic(true).
			Foreground(theme.Missing),

		Error: lipgloss.NewStyle().
			Foreground(theme.Critical),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#181825")).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Marker renders the status column of a requirement: a check box and a
// critical flag.
func (s *Styles) Marker(completed, critical bool) string {
	box := "[ ]"
	if completed {
		box = s.Completed.Render("[x]")
	}
	if critical {
		return box + s.Critical.Render("!")
	}
	return box + " "
}
