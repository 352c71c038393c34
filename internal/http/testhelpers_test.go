package httpx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/expensetracker/web/internal/adapters/memory"
	domainauth "github.com/expensetracker/web/internal/domain/auth"
	"github.com/expensetracker/web/internal/http/ui/viewmodel"
	"github.com/expensetracker/web/internal/mocks"
	"github.com/expensetracker/web/internal/service"
)

const (
	testCSRFToken = "test-token"
	testSessionID = "sess-1"
	testEmail     = "ada@example.com"
)

// testNow stays close to wall time because the memory store checks expiry against time.Now.
var testNow = time.Now().Truncate(time.Second) //nolint:gochecknoglobals // shared test clock

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Logger:     discardLogger(),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// testEnv is the full router wired to a real AuthService over a mocked
// upstream API and an in-memory session store.
type testEnv struct {
	api      *mocks.MockAuthAPI
	sessions *memory.SessionStore
	handler  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAuthAPI(ctrl)
	sessions := memory.NewSessionStore()
	logger := discardLogger()
	clock := func() time.Time { return testNow }

	auth := service.NewAuthService(service.AuthServiceOptions{
		API:        api,
		Sessions:   sessions,
		Logger:     logger,
		SessionTTL: time.Hour,
		Now:        clock,
	})

	handler, err := NewRouter(RouterServices{
		Auth:       auth,
		TemplateFS: os.DirFS(TemplatePathFromTest),
		StaticFS:   os.DirFS(StaticPathFromTest),
		Logger:     logger,
		Now:        clock,
	})
	require.NoError(t, err)

	return &testEnv{api: api, sessions: sessions, handler: handler}
}

// signIn stores a live session and returns its ID.
func (e *testEnv) signIn(t *testing.T) string {
	t.Helper()
	require.NoError(t, e.sessions.Save(context.Background(), domainauth.Session{
		ID:        testSessionID,
		Token:     "tok",
		Email:     testEmail,
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	return testSessionID
}

type testRequest struct {
	Method  string
	Path    string
	Form    url.Values
	HTMX    bool
	Accept  string
	Session string
	Cookies []*http.Cookie
	Header  http.Header
	// NoCSRF omits the CSRF cookie and form field.
	NoCSRF bool
}

func (e *testEnv) do(req testRequest) *httptest.ResponseRecorder {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Form != nil {
		form := url.Values{}
		for k, v := range req.Form {
			form[k] = v
		}
		if !req.NoCSRF {
			form.Set(DefaultCSRFCookieName, testCSRFToken)
		}
		body = strings.NewReader(form.Encode())
	}

	r := httptest.NewRequest(method, req.Path, body)
	if req.Form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if !req.NoCSRF {
		r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	}
	if req.HTMX {
		r.Header.Set("Hx-Request", "true")
	}
	accept := req.Accept
	if accept == "" {
		accept = "text/html"
	}
	r.Header.Set("Accept", accept)
	if req.Session != "" {
		r.AddCookie(&http.Cookie{Name: DefaultSessionCookieName, Value: req.Session})
	}
	for _, c := range req.Cookies {
		r.AddCookie(c)
	}
	for k, v := range req.Header {
		r.Header[k] = v
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, r)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	resp := rec.Result()
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// triggeredToast decodes the showToast payload from Hx-Trigger.
func triggeredToast(t *testing.T, rec *httptest.ResponseRecorder) viewmodel.Toast {
	t.Helper()
	raw := rec.Header().Get("Hx-Trigger")
	require.NotEmpty(t, raw, "expected Hx-Trigger header")

	var payload map[string]viewmodel.Toast
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	toast, ok := payload["showToast"]
	require.True(t, ok, "expected showToast event in %s", raw)
	return toast
}
