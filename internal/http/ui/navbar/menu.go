package navbar

import "strings"

// MenuState is the mobile menu visibility.
type MenuState string

const (
	MenuClosed MenuState = "closed"
	MenuOpen   MenuState = "open"
)

// MenuEvent is a user interaction that can change the menu state.
type MenuEvent string

const (
	EventHamburger MenuEvent = "hamburger"
	EventOverlay   MenuEvent = "overlay"
	EventClose     MenuEvent = "close"
	EventLink      MenuEvent = "link"
	EventLogout    MenuEvent = "logout"
)

// ParseMenuState reads the menu query parameter. Anything but "open" is closed.
func ParseMenuState(raw string) MenuState {
	if strings.EqualFold(strings.TrimSpace(raw), string(MenuOpen)) {
		return MenuOpen
	}
	return MenuClosed
}

// Next returns the state after event. The hamburger toggles; every other
// event closes the menu.
func Next(state MenuState, event MenuEvent) MenuState {
	if event == EventHamburger {
		if state == MenuOpen {
			return MenuClosed
		}
		return MenuOpen
	}
	return MenuClosed
}
