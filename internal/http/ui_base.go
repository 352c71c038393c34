package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/expensetracker/web/internal/domain/auth"
	apperrors "github.com/expensetracker/web/internal/errors"
	"github.com/expensetracker/web/internal/http/ui/navbar"
	"github.com/expensetracker/web/internal/http/ui/viewmodel"
	"github.com/expensetracker/web/internal/service"
)

// AuthService is the slice of the auth service the UI handlers need.
type AuthService interface {
	Login(ctx context.Context, creds domainauth.Credentials) (*domainauth.Session, error)
	Signup(ctx context.Context, req domainauth.SignupRequest) error
	Logout(ctx context.Context, sessionID string) error
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// Compile-time interface assertion.
var _ AuthService = (*service.AuthService)(nil)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T       *TemplateRenderer
	Auth    AuthService
	Cookies CookieConfig
	IsDev   bool // Development mode flag for enhanced error reporting
	Logger  *slog.Logger
	Now     func() time.Time
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// buildLayout constructs shared layout data from the request, its session and
// its cookies. A pending flash toast is consumed here: partial renders fire it
// through Hx-Trigger, full renders place it in the toast stack.
func (h *UIHandlers) buildLayout(w http.ResponseWriter, r *http.Request, page string) viewmodel.Layout {
	session := GetSessionFromContext(r.Context())
	current := h.Cookies.Theme(r)
	query := r.URL.Query()

	layout := viewmodel.Layout{
		Title:       PageTitle(page),
		CurrentPage: page,
		CurrentPath: r.URL.Path,
		CSRFToken:   GetCSRFToken(r),
		HasSession:  session != nil,
		Theme:       current,
		Navbar: navbar.Build(navbar.Input{
			HasSession:  session != nil,
			CurrentPath: r.URL.Path,
			Query:       query,
			Menu:        navbar.ParseMenuState(query.Get(navbar.MenuParam)),
			Theme:       current,
		}),
	}

	if session != nil {
		layout.User = &viewmodel.User{
			Email:     session.Email,
			Name:      session.Name,
			ExpiresAt: session.ExpiresAt,
		}
	}

	if toast, ok := h.Cookies.PopFlash(w, r); ok {
		if WantsPartial(r) {
			triggerToast(w, toast)
		} else {
			layout.Toasts = append(layout.Toasts, toast)
		}
	}

	return layout
}

// pageRender describes one page response.
type pageRender struct {
	Page    string
	Content any
	Status  int
	// Toast is shown with this response only.
	Toast *viewmodel.Toast
}

// renderPage renders a page, returning only the app fragment to htmx.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, p pageRender) {
	layout := h.buildLayout(w, r, p.Page)
	partial := WantsPartial(r)

	if p.Toast != nil {
		if partial {
			triggerToast(w, *p.Toast)
		} else {
			layout.Toasts = append(layout.Toasts, *p.Toast)
		}
	}

	if h.T == nil {
		http.Error(w, "templates unavailable", http.StatusInternalServerError)
		return
	}

	err := h.T.Render(w, RenderOptions{
		Page:    p.Page,
		Data:    viewmodel.Page{Layout: layout, Content: p.Content},
		Status:  p.Status,
		Partial: partial,
	})
	if err != nil {
		h.logAndRenderTemplateError(w, r, err, "page "+p.Page)
	}
}

// statusForError maps an auth failure to the status of a re-rendered form.
func statusForError(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, where string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", where,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		if _, writeErr := w.Write([]byte(`<div class="template-error">` +
			`<h2>Template Rendering Error</h2>` +
			`<p><strong>Context:</strong> ` + html.EscapeString(where) + `</p>` +
			`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
			`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}
