// Package theme models the light/dark colour scheme toggle.
package theme

import "strings"

// Theme is the active colour scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Default is applied when no preference has been stored.
const Default = Light

// Parse converts a stored value into a Theme, falling back to Default.
func Parse(raw string) Theme {
	switch Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case Dark:
		return Dark
	case Light:
		return Light
	default:
		return Default
	}
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// IsDark reports whether t is the dark scheme.
func (t Theme) IsDark() bool { return t == Dark }

// Icon is the glyph the toggle button shows: a sun while dark (switch to
// light), a moon while light.
func (t Theme) Icon() string {
	if t == Dark {
		return "☀️"
	}
	return "🌙"
}

// ToggleLabel is the accessible label for the toggle button.
func (t Theme) ToggleLabel() string {
	if t == Dark {
		return "Switch to light mode"
	}
	return "Switch to dark mode"
}

func (t Theme) String() string { return string(t) }
