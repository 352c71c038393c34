package httpx

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	domainauth "github.com/expensetracker/web/internal/domain/auth"
	"github.com/expensetracker/web/internal/domain/theme"
	"github.com/expensetracker/web/internal/http/ui/viewmodel"
)

// Cookie names.
const (
	DefaultSessionCookieName = "session_id"
	ThemeCookieName          = "theme"
	FlashCookieName          = "flash"
)

const (
	themeCookieMaxAge = 365 * 24 * 3600
	flashCookieMaxAge = 60
)

// CookieConfig carries the attributes shared by every cookie the UI sets.
type CookieConfig struct {
	SessionName string
	Domain      string
	// Secure forces the Secure attribute; otherwise it follows the request scheme.
	Secure bool
}

func (c CookieConfig) sessionName() string {
	if c.SessionName == "" {
		return DefaultSessionCookieName
	}
	return c.SessionName
}

func (c CookieConfig) secure(r *http.Request) bool {
	return c.Secure || isSecureRequest(r)
}

// SetSession writes the session cookie, expiring with the session itself.
func (c CookieConfig) SetSession(w http.ResponseWriter, r *http.Request, s *domainauth.Session) {
	cookie := &http.Cookie{
		Name:     c.sessionName(),
		Value:    s.ID,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
	}
	if !s.ExpiresAt.IsZero() {
		cookie.Expires = s.ExpiresAt.UTC()
		cookie.MaxAge = max(int(time.Until(s.ExpiresAt).Seconds()), 1)
	}
	http.SetCookie(w, cookie)
}

// SessionID returns the session cookie value, or "".
func (c CookieConfig) SessionID(r *http.Request) string {
	cookie, err := r.Cookie(c.sessionName())
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ClearSession expires the session cookie.
func (c CookieConfig) ClearSession(w http.ResponseWriter, r *http.Request) {
	c.clear(w, r, c.sessionName())
}

// clear expires a cookie, mirroring the attributes used when it was set so
// browsers match and drop it.
func (c CookieConfig) clear(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.secure(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// Theme reads the visitor's colour scheme, defaulting to light.
func (c CookieConfig) Theme(r *http.Request) theme.Theme {
	cookie, err := r.Cookie(ThemeCookieName)
	if err != nil {
		return theme.Default
	}
	return theme.Parse(cookie.Value)
}

// SetTheme persists the colour scheme for a year. It is readable by scripts so
// the page can apply it before first paint.
func (c CookieConfig) SetTheme(w http.ResponseWriter, r *http.Request, t theme.Theme) {
	http.SetCookie(w, &http.Cookie{
		Name:     ThemeCookieName,
		Value:    t.String(),
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: false,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   themeCookieMaxAge,
	})
}

// SetFlash stores a toast to show on the next full page render.
func (c CookieConfig) SetFlash(w http.ResponseWriter, r *http.Request, toast viewmodel.Toast) {
	b, err := json.Marshal(toast)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   flashCookieMaxAge,
	})
}

// PopFlash returns the pending toast, if any, and clears it.
func (c CookieConfig) PopFlash(w http.ResponseWriter, r *http.Request) (viewmodel.Toast, bool) {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return viewmodel.Toast{}, false
	}
	c.clear(w, r, FlashCookieName)

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return viewmodel.Toast{}, false
	}
	var toast viewmodel.Toast
	if err := json.Unmarshal(raw, &toast); err != nil || toast.Message == "" {
		return viewmodel.Toast{}, false
	}
	return toast, true
}
