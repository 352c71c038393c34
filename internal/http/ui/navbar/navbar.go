// Package navbar builds the navigation bar view-model: which links a visitor
// sees, which one is active, and the state of the mobile slide-in menu.
package navbar

import (
	"net/url"

	"github.com/expensetracker/web/internal/domain/theme"
)

// Route paths the navbar links to.
const (
	PathHome         = "/home"
	PathTransactions = "/transactions"
	PathBudget       = "/budget"
	PathCharts       = "/charts"
	PathLogin        = "/login"
	PathSignup       = "/signup"
	PathLogout       = "/logout"
	PathTheme        = "/theme"
)

// MenuParam is the query parameter that carries the open mobile menu.
const MenuParam = "menu"

// Link is one navbar entry. Action links submit a POST form instead of
// navigating.
type Link struct {
	Label  string
	Path   string
	Action bool
	Active bool
}

// LinkSet returns the links for a visitor with or without a session. The two
// sets never share an entry.
func LinkSet(hasSession bool) []Link {
	if hasSession {
		return []Link{
			{Label: "Home", Path: PathHome},
			{Label: "Transactions", Path: PathTransactions},
			{Label: "Budget", Path: PathBudget},
			{Label: "Charts", Path: PathCharts},
			{Label: "Logout", Path: PathLogout, Action: true},
		}
	}
	return []Link{
		{Label: "Login", Path: PathLogin},
		{Label: "SignUp", Path: PathSignup},
	}
}

// Input is everything the navbar derives its view from.
type Input struct {
	HasSession  bool
	CurrentPath string
	Query       url.Values
	Menu        MenuState
	Theme       theme.Theme
}

// Navbar is the rendered view-model.
type Navbar struct {
	HasSession bool
	LogoHref   string
	Links      []Link
	Menu       MenuState

	// Menu control targets, each pointing at the state its event leads to.
	HamburgerHref string
	CloseHref     string
	OverlayHref   string

	ThemeAction string
	ThemeIcon   string
	ThemeLabel  string
	ReturnTo    string
}

// MenuOpen reports whether the mobile menu is rendered open.
func (n Navbar) MenuOpen() bool { return n.Menu == MenuOpen }

// Build derives the navbar for one render.
func Build(in Input) Navbar {
	path := in.CurrentPath
	if path == "" {
		path = "/"
	}

	links := LinkSet(in.HasSession)
	for i := range links {
		links[i].Active = !links[i].Action && links[i].Path == path
	}

	return Navbar{
		HasSession:    in.HasSession,
		LogoHref:      PathHome,
		Links:         links,
		Menu:          in.Menu,
		HamburgerHref: menuHref(path, in.Query, Next(in.Menu, EventHamburger)),
		CloseHref:     menuHref(path, in.Query, Next(in.Menu, EventClose)),
		OverlayHref:   menuHref(path, in.Query, Next(in.Menu, EventOverlay)),
		ThemeAction:   PathTheme,
		ThemeIcon:     in.Theme.Icon(),
		ThemeLabel:    in.Theme.ToggleLabel(),
		ReturnTo:      menuHref(path, in.Query, Next(in.Menu, EventLink)),
	}
}

// menuHref returns path with the query preserved and the menu parameter set
// for state.
func menuHref(path string, query url.Values, state MenuState) string {
	q := url.Values{}
	for k, v := range query {
		if k == MenuParam {
			continue
		}
		q[k] = append([]string(nil), v...)
	}
	if state == MenuOpen {
		q.Set(MenuParam, string(MenuOpen))
	}
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}
