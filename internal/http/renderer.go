package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/expensetracker/web/internal/http/assets"
	corefuncs "github.com/expensetracker/web/internal/http/templates/core"
)

// Template names every page set defines.
const (
	tmplLayout  = "layout"
	tmplPartial = "partial"
)

// ErrUnknownPage is returned when rendering a page with no content template.
var ErrUnknownPage = errors.New("unknown page")

// TemplateRenderer renders HTML templates for UI responses. The layout and
// partials are parsed up front; each page's content template is parsed the
// first time that page is rendered.
type TemplateRenderer struct {
	fsys    fs.FS
	funcs   template.FuncMap
	devMode bool
	logger  *slog.Logger

	// base is only ever cloned, never executed, so clones stay legal.
	base      *template.Template
	fragments *template.Template
	pages     map[string]*lazyPage
}

type lazyPage struct {
	load   func() (*template.Template, error)
	loaded atomic.Bool
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS                 // Filesystem containing templates (required)
	Resolver   *assets.AssetResolver // Resolves asset URLs (optional)
	DevMode    bool                  // Re-parse templates on every render
	Logger     *slog.Logger          // Logger for template errors (optional)
}

// NewTemplateRenderer constructs a renderer from the provided config.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tr := &TemplateRenderer{
		fsys:    cfg.TemplateFS,
		funcs:   corefuncs.Funcs(corefuncs.Deps{Resolver: cfg.Resolver}),
		devMode: cfg.DevMode,
		logger:  logger,
		pages:   make(map[string]*lazyPage, len(Pages())),
	}

	base, err := tr.parseBase()
	if err != nil {
		logger.Error("template parsing failed",
			slog.Any("error", err),
			slog.String("phase", "initialization"),
		)
		return nil, err
	}
	tr.base = base

	fragments, err := base.Clone()
	if err != nil {
		return nil, err
	}
	tr.fragments = fragments

	for _, page := range Pages() {
		tr.pages[page] = tr.newLazyPage(page)
	}
	return tr, nil
}

func (tr *TemplateRenderer) parseBase() (*template.Template, error) {
	return template.New("root").Funcs(tr.funcs).ParseFS(tr.fsys, "layout.tmpl", "partials/*.tmpl")
}

func (tr *TemplateRenderer) newLazyPage(page string) *lazyPage {
	lp := &lazyPage{}
	lp.load = sync.OnceValues(func() (*template.Template, error) {
		lp.loaded.Store(true)
		return tr.parsePage(tr.base, page)
	})
	return lp
}

func (tr *TemplateRenderer) parsePage(base *template.Template, page string) (*template.Template, error) {
	set, err := base.Clone()
	if err != nil {
		return nil, err
	}
	set, err = set.ParseFS(tr.fsys, "pages/"+page+".tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", page, err)
	}
	return set, nil
}

// Loaded reports whether page's content template has been parsed yet.
func (tr *TemplateRenderer) Loaded(page string) bool {
	lp, ok := tr.pages[page]
	return ok && lp.loaded.Load()
}

// pageSet returns the template set for page. In dev mode every call re-parses
// from disk so template edits show up on reload.
func (tr *TemplateRenderer) pageSet(page string) (*template.Template, error) {
	lp, ok := tr.pages[page]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, page)
	}
	if !tr.devMode {
		return lp.load()
	}

	lp.loaded.Store(true)
	base, err := tr.parseBase()
	if err != nil {
		return nil, err
	}
	return tr.parsePage(base, page)
}

// RenderOptions describes one page render.
type RenderOptions struct {
	Page    string
	Data    any
	Status  int
	Partial bool
}

// Render renders page inside the full layout, or only the app fragment when
// Partial is set.
func (tr *TemplateRenderer) Render(w http.ResponseWriter, opts RenderOptions) error {
	set, err := tr.pageSet(opts.Page)
	if err != nil {
		tr.logTemplateError(opts.Page, err)
		return err
	}

	name := tmplLayout
	if opts.Partial {
		name = tmplPartial
	}
	return tr.execute(w, set, name, opts)
}

// RenderFragment renders a named partial outside any page.
func (tr *TemplateRenderer) RenderFragment(w http.ResponseWriter, name string, data any) error {
	set := tr.fragments
	if tr.devMode {
		base, err := tr.parseBase()
		if err != nil {
			tr.logTemplateError(name, err)
			return err
		}
		set = base
	}
	return tr.execute(w, set, name, RenderOptions{Data: data})
}

func (tr *TemplateRenderer) execute(w http.ResponseWriter, set *template.Template, name string, opts RenderOptions) error {
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, opts.Data); err != nil {
		tr.logTemplateError(name, err)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if opts.Status != 0 {
		w.WriteHeader(opts.Status)
	}
	if _, err := buf.WriteTo(w); err != nil {
		tr.logger.Error("failed to write rendered template",
			slog.String("template", name),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// logTemplateError logs a template execution error with context.
func (tr *TemplateRenderer) logTemplateError(templateName string, err error) {
	tr.logger.Error("template execution failed",
		slog.String("template", templateName),
		slog.Any("error", err),
	)
}
