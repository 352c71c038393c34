package viewmodel

import domainauth "github.com/expensetracker/web/internal/domain/auth"

// LoginForm is the login page content. The password is never echoed back.
type LoginForm struct {
	Email       string
	RedirectURI string
}

// SignupForm is the signup page content. The password is never echoed back.
type SignupForm struct {
	Name     string
	Email    string
	Strength StrengthMeter
}

// StrengthMeter is the password strength fragment. It stays hidden until the
// password field has content.
type StrengthMeter struct {
	Visible bool
	domainauth.Strength
}

// NewStrengthMeter evaluates password for display.
func NewStrengthMeter(password string) StrengthMeter {
	return StrengthMeter{
		Visible:  password != "",
		Strength: domainauth.EvaluatePassword(password),
	}
}

// Shell is the content of the signed-in placeholder views.
type Shell struct {
	Heading     string
	Description string
	Greeting    string
}

// ErrorPage is the content of the not-found and error views.
type ErrorPage struct {
	Code      int
	Message   string
	ShowLogin bool
	// RedirectURI brings the visitor back after logging in.
	RedirectURI string
}
