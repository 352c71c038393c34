// Package viewmodel holds the typed data the page templates render.
package viewmodel

import (
	"time"

	"github.com/expensetracker/web/internal/domain/theme"
	"github.com/expensetracker/web/internal/http/ui/navbar"
)

// User represents the signed-in visitor exposed to templates.
type User struct {
	Email     string
	Name      string
	ExpiresAt time.Time
}

// Toast is a transient notification rendered in the toast stack.
type Toast struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Toast types.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// Layout captures shared chrome metadata (title, navbar, theme, session flag).
type Layout struct {
	Title       string
	CurrentPage string
	CurrentPath string
	CSRFToken   string
	HasSession  bool
	User        *User
	Theme       theme.Theme
	Navbar      navbar.Navbar
	Toasts      []Toast
}

// Page is the root value every full or partial page render receives.
type Page struct {
	Layout
	Content any
}
