package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	web "github.com/expensetracker/web"
	"github.com/expensetracker/web/internal/http/assets"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth    AuthService
	Cookies CookieConfig

	// Ready backs /readyz. Optional.
	Ready ReadinessCheck

	// TemplateFS and StaticFS override where templates and static files are
	// read from. When nil they come from disk in dev mode and from the
	// embedded filesystem otherwise.
	TemplateFS fs.FS
	StaticFS   fs.FS

	IsDev  bool         // Development mode flag for hot reloading, etc.
	Logger *slog.Logger // Logger for template and HTTP errors (optional)
	Now    func() time.Time
}

// NewRouter creates and configures the HTTP router with browser, CSRF, and
// session middleware.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Auth == nil {
		return nil, errors.New("router: Auth service is required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templateFS, staticFS, err := resolveFilesystems(services)
	if err != nil {
		return nil, err
	}

	resolver, err := assets.NewAssetResolver(assets.Options{FS: staticFS, DevMode: services.IsDev, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("asset resolver: %w", err)
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		Resolver:   resolver,
		DevMode:    services.IsDev,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("template renderer: %w", err)
	}

	ui := &UIHandlers{
		T:       tr,
		Auth:    services.Auth,
		Cookies: services.Cookies,
		IsDev:   services.IsDev,
		Logger:  logger,
		Now:     services.Now,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /readyz", readyHandler(services.Ready, logger))
	mux.Handle("GET /static/", staticWithCacheHeaders(
		http.StripPrefix("/static/", http.FileServerFS(staticFS)), services.IsDev))
	mux.HandleFunc("GET /auth/status", ui.AuthStatus)
	registerUIRoutes(mux, ui)

	var handler http.Handler = mux
	handler = LoadSession(SessionLoaderConfig{
		Sessions:   services.Auth,
		CookieName: services.Cookies.sessionName(),
		Logger:     logger,
	})(handler)
	handler = CSRFProtection(CSRFConfig{
		CookieDomain: services.Cookies.Domain,
		Secure:       services.Cookies.Secure,
	})(handler)
	return BrowserDetection()(handler), nil
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers) {
	requireSession := RequireSessionBrowser()

	mux.HandleFunc("GET /{$}", h.Landing)
	mux.HandleFunc("GET /login", h.Login)
	mux.HandleFunc("POST /login", h.LoginSubmit)
	mux.HandleFunc("GET /signup", h.Signup)
	mux.HandleFunc("POST /signup", h.SignupSubmit)
	mux.HandleFunc("POST /signup/strength", h.SignupStrength)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("POST /theme", h.ToggleTheme)

	for path, page := range map[string]string{
		"/home":         PageHome,
		"/transactions": PageTransactions,
		"/budget":       PageBudget,
		"/charts":       PageCharts,
		"/add":          PageAdd,
	} {
		mux.Handle("GET "+path, requireSession(h.Shell(page)))
	}

	// Everything unmatched, including unknown methods on known paths.
	mux.HandleFunc("/", h.NotFound)
}

// resolveFilesystems picks template and static sources.
// Dev mode reads from disk so edits show up on reload; otherwise the embedded copies are used.
func resolveFilesystems(services RouterServices) (fs.FS, fs.FS, error) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS

	if templateFS == nil {
		if services.IsDev {
			templateFS = os.DirFS(TemplatePathFromRoot)
		} else {
			sub, err := fs.Sub(web.TemplateFS, TemplatePathFromRoot)
			if err != nil {
				return nil, nil, fmt.Errorf("templates sub-filesystem: %w", err)
			}
			templateFS = sub
		}
	}

	if staticFS == nil {
		if services.IsDev {
			staticFS = os.DirFS(StaticPathFromRoot)
		} else {
			sub, err := fs.Sub(web.StaticFS, StaticPathFromRoot)
			if err != nil {
				return nil, nil, fmt.Errorf("static sub-filesystem: %w", err)
			}
			staticFS = sub
		}
	}

	return templateFS, staticFS, nil
}

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
// Versioned URLs (?v=<hash>) change whenever the content does, so they can be
// cached for a year.
func staticWithCacheHeaders(handler http.Handler, isDev bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isDev && r.URL.Query().Get(assets.VersionParam) != "" {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}
