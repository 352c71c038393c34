package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
// Each page maps to one lazily parsed template file under pages/.
const (
	PageLanding      = "landing"
	PageLogin        = "login"
	PageSignup       = "signup"
	PageHome         = "home"
	PageTransactions = "transactions"
	PageBudget       = "budget"
	PageCharts       = "charts"
	PageAdd          = "add"
	PageError        = "error"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"
	TemplatePathFromTest = "../../frontend/templates"
	StaticPathFromRoot   = "frontend/static"
	StaticPathFromTest   = "../../frontend/static"
)

const appName = "Expensetracker"

// Page titles are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup
var pageTitles = map[string]string{
	PageLanding:      "Track every expense",
	PageLogin:        "Login",
	PageSignup:       "Sign Up",
	PageHome:         "Home",
	PageTransactions: "Transactions",
	PageBudget:       "Budget",
	PageCharts:       "Charts",
	PageAdd:          "Add Transaction",
	PageError:        "Error",
}

// Pages returns every page identifier that has a content template.
func Pages() []string {
	return []string{
		PageLanding, PageLogin, PageSignup,
		PageHome, PageTransactions, PageBudget, PageCharts, PageAdd,
		PageError,
	}
}

// PageTitle returns the document title for page.
func PageTitle(page string) string {
	if t, ok := pageTitles[page]; ok {
		return t + " | " + appName
	}
	return appName
}
