// Package uiutil holds small presentation helpers shared by handlers and templates.
package uiutil

import (
	"strings"
	"time"
)

const FriendlyDateTimeLayout = "Jan 2, 2006 3:04 PM"

// FormatFriendlyDateTime returns a consistent, user-friendly local timestamp representation.
func FormatFriendlyDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(FriendlyDateTimeLayout)
}

// Greeting returns a time-of-day greeting, addressed to name when known.
func Greeting(now time.Time, name string) string {
	var g string
	switch h := now.Hour(); {
	case h < 12:
		g = "Good morning"
	case h < 18:
		g = "Good afternoon"
	default:
		g = "Good evening"
	}
	if name = strings.TrimSpace(name); name != "" {
		return g + ", " + name
	}
	return g
}

// DisplayName derives a short name from an email address when no name is known.
func DisplayName(name, email string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}
