package httpx

import (
	"errors"
	"net/http"

	"github.com/expensetracker/web/internal/http/ui/viewmodel"
	"github.com/expensetracker/web/internal/http/uiutil"
)

// shellCopy is the static text of the signed-in views. Their data lives in
// the upstream API and is not rendered here yet.
//
//nolint:gochecknoglobals // static read-only lookup
var shellCopy = map[string]viewmodel.Shell{
	PageHome: {
		Heading:     "Overview",
		Description: "Your spending at a glance.",
	},
	PageTransactions: {
		Heading:     "Transactions",
		Description: "Every expense and income entry you have recorded.",
	},
	PageBudget: {
		Heading:     "Budget",
		Description: "Monthly limits per category and how close you are to them.",
	},
	PageCharts: {
		Heading:     "Charts",
		Description: "Where your money goes, month by month.",
	},
	PageAdd: {
		Heading:     "Add Transaction",
		Description: "Record a new expense or income entry.",
	},
}

// Landing renders the public marketing page.
func (h *UIHandlers) Landing(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, pageRender{Page: PageLanding})
}

// Shell returns a handler for one of the signed-in views.
func (h *UIHandlers) Shell(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content := shellCopy[page]
		if session := GetSessionFromContext(r.Context()); session != nil && page == PageHome {
			content.Greeting = uiutil.Greeting(h.now(), uiutil.DisplayName(session.Name, session.Email))
		}
		h.renderPage(w, r, pageRender{Page: page, Content: content})
	}
}

// NotFound handles 404 errors with auth-aware behavior.
// For browser requests, it renders an HTML error page.
// For API requests, it returns a JSON error response.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		h.renderBrowserNotFound(w, r)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusNotFound,
		ErrCode: "not_found",
		Err:     errors.New("not found"),
	})
}

func (h *UIHandlers) renderBrowserNotFound(w http.ResponseWriter, r *http.Request) {
	if h.T == nil {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}
	status := http.StatusNotFound
	if WantsPartial(r) {
		// htmx does not swap error responses.
		status = http.StatusOK
	}
	h.renderPage(w, r, pageRender{
		Page: PageError,
		Content: viewmodel.ErrorPage{
			Code:        http.StatusNotFound,
			Message:     "The page you're looking for doesn't exist.",
			ShowLogin:   !HasSession(r.Context()),
			RedirectURI: loginFormRedirect(r.URL.RequestURI()),
		},
		Status: status,
	})
}
