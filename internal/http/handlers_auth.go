package httpx

import (
	"net/http"
	"strings"
	"time"

	domainauth "github.com/expensetracker/web/internal/domain/auth"
	apperrors "github.com/expensetracker/web/internal/errors"
	"github.com/expensetracker/web/internal/http/ui/navbar"
	"github.com/expensetracker/web/internal/http/ui/viewmodel"
	"github.com/expensetracker/web/internal/service"
)

// Form field names shared with the templates.
const (
	fieldName        = "name"
	fieldEmail       = "email"
	fieldPassword    = "password"
	fieldRedirectURI = "redirect_uri"
)

// tmplStrengthMeter is the partial the signup page and /signup/strength share.
const tmplStrengthMeter = "strength-meter"

// Login renders the login form.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, pageRender{
		Page:    PageLogin,
		Content: viewmodel.LoginForm{RedirectURI: loginFormRedirect(r.URL.Query().Get(fieldRedirectURI))},
	})
}

// LoginSubmit authenticates against the upstream API. On success the session
// cookie is set and the visitor lands on /home (or the page that sent them to
// login). On failure the error is logged and shown as a toast; htmx keeps the
// form as typed, plain posts get the form back with the email filled in.
func (h *UIHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	creds := domainauth.Credentials{
		Email:    r.PostFormValue(fieldEmail),
		Password: r.PostFormValue(fieldPassword),
	}
	redirect := loginFormRedirect(r.PostFormValue(fieldRedirectURI))

	session, err := h.Auth.Login(r.Context(), creds)
	if err != nil {
		h.logger().WarnContext(r.Context(), "login failed", "error", err)
		toast := errorToast(err, service.MsgLoginFailed)
		if IsHTMX(r) {
			triggerToast(w, toast)
			HTMX(w).NoSwap()
			return
		}
		h.renderPage(w, r, pageRender{
			Page:    PageLogin,
			Content: viewmodel.LoginForm{Email: creds.Email, RedirectURI: redirect},
			Status:  statusForError(err),
			Toast:   &toast,
		})
		return
	}

	h.Cookies.SetSession(w, r, session)
	if redirect == "" {
		redirect = navbar.PathHome
	}
	NavigateWithin(w, r, redirect)
}

// loginFormRedirect keeps a same-origin return path for after login. The root
// and the auth pages themselves are dropped so login always lands somewhere
// useful.
func loginFormRedirect(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	p := safeRedirectPath(raw)
	switch {
	case p == "/",
		strings.HasPrefix(p, navbar.PathLogin),
		strings.HasPrefix(p, navbar.PathSignup),
		strings.HasPrefix(p, navbar.PathLogout):
		return ""
	}
	return p
}

// Signup renders the signup form with an empty strength meter.
func (h *UIHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, pageRender{
		Page:    PageSignup,
		Content: viewmodel.SignupForm{Strength: viewmodel.NewStrengthMeter("")},
	})
}

// SignupSubmit validates locally, registers upstream, and sends the visitor to
// /login with a success toast. Validation failures never reach the API.
func (h *UIHandlers) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	req := domainauth.SignupRequest{
		Name:     r.PostFormValue(fieldName),
		Email:    r.PostFormValue(fieldEmail),
		Password: r.PostFormValue(fieldPassword),
	}

	if err := h.Auth.Signup(r.Context(), req); err != nil {
		if !apperrors.IsValidation(err) {
			h.logger().WarnContext(r.Context(), "signup failed", "error", err)
		}
		toast := errorToast(err, service.MsgSignupFailed)
		if IsHTMX(r) {
			triggerToast(w, toast)
			HTMX(w).NoSwap()
			return
		}
		h.renderPage(w, r, pageRender{
			Page: PageSignup,
			Content: viewmodel.SignupForm{
				Name:     req.Name,
				Email:    req.Email,
				Strength: viewmodel.NewStrengthMeter(""),
			},
			Status: statusForError(err),
			Toast:  &toast,
		})
		return
	}

	h.Cookies.SetFlash(w, r, viewmodel.Toast{Message: service.MsgSignupSuccess, Type: viewmodel.ToastSuccess})
	NavigateWithin(w, r, navbar.PathLogin)
}

// SignupStrength renders the strength meter for the posted password.
func (h *UIHandlers) SignupStrength(w http.ResponseWriter, r *http.Request) {
	meter := viewmodel.NewStrengthMeter(r.PostFormValue(fieldPassword))
	if h.T == nil {
		http.Error(w, "templates unavailable", http.StatusInternalServerError)
		return
	}
	if err := h.T.RenderFragment(w, tmplStrengthMeter, meter); err != nil {
		h.logAndRenderTemplateError(w, r, err, "strength meter")
	}
}

// Logout revokes the session and forces a full page load of /login so no
// signed-in page state survives. It works even when the session has already
// expired: the cookie is always cleared.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if id := h.Cookies.SessionID(r); id != "" {
		if err := h.Auth.Logout(r.Context(), id); err != nil {
			h.logger().ErrorContext(r.Context(), "logout failed", "error", err)
		}
	}
	h.Cookies.ClearSession(w, r)
	Navigate(w, r, navbar.PathLogin)
}

// ToggleTheme flips the stored colour scheme. htmx callers refresh in place;
// plain posts go back to the page they came from.
func (h *UIHandlers) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	h.Cookies.SetTheme(w, r, h.Cookies.Theme(r).Toggle())
	if IsHTMX(r) {
		HTMX(w).Refresh()
		return
	}
	http.Redirect(w, r, safeRedirectPath(r.PostFormValue(fieldRedirectURI)), http.StatusSeeOther)
}

type authStatusUser struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type authStatusResponse struct {
	Authenticated bool            `json:"authenticated"`
	User          *authStatusUser `json:"user,omitempty"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
}

// AuthStatus reports whether the request carries a live session.
func (h *UIHandlers) AuthStatus(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteJSON(w, http.StatusOK, authStatusResponse{})
		return
	}

	resp := authStatusResponse{
		Authenticated: true,
		User:          &authStatusUser{Email: session.Email, Name: session.Name},
	}
	if !session.ExpiresAt.IsZero() {
		exp := session.ExpiresAt.UTC()
		resp.ExpiresAt = &exp
	}
	WriteJSON(w, http.StatusOK, resp)
}
