package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/expensetracker/web/internal/domain/auth"
	"github.com/expensetracker/web/internal/http/ui/viewmodel"
	"github.com/expensetracker/web/internal/ports"
	"github.com/expensetracker/web/internal/service"
)

func loginForm(email, password string) url.Values {
	return url.Values{"email": {email}, "password": {password}}
}

func signupForm(name, email, password string) url.Values {
	return url.Values{"name": {name}, "email": {email}, "password": {password}}
}

func TestLoginPage_RendersEmptyForm(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(testRequest{Path: "/login?redirect_uri=%2Fbudget"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Welcome Back")
	assert.Contains(t, body, `name="email"`)
	assert.Contains(t, body, `value="/budget"`)
	assert.Contains(t, body, `<title>Login | Expensetracker</title>`)
}

func TestLoginSubmit_SuccessSetsSessionAndGoesHome(t *testing.T) {
	env := newTestEnv(t)
	env.api.EXPECT().
		Login(gomock.Any(), domainauth.Credentials{Email: testEmail, Password: "secret"}).
		Return(domainauth.Token{Value: "tok"}, nil)

	rec := env.do(testRequest{Method: http.MethodPost, Path: "/login", Form: loginForm(testEmail, "secret")})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))

	cookie := findCookie(rec, DefaultSessionCookieName)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 1, env.sessions.Len())

	sess, err := env.sessions.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
}

func TestLoginSubmit_HonorsSafeRedirect(t *testing.T) {
	tests := []struct {
		name     string
		redirect string
		want     string
	}{
		{name: "same origin path", redirect: "/budget?month=3", want: "/budget?month=3"},
		{name: "absolute url", redirect: "https://evil.example/steal", want: "/home"},
		{name: "scheme relative", redirect: "//evil.example", want: "/home"},
		{name: "auth page", redirect: "/login", want: "/home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.api.EXPECT().Login(gomock.Any(), gomock.Any()).Return(domainauth.Token{Value: "tok"}, nil)

			form := loginForm(testEmail, "secret")
			form.Set("redirect_uri", tt.redirect)
			rec := env.do(testRequest{Method: http.MethodPost, Path: "/login", Form: form})

			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestLoginSubmit_HTMXSuccessUsesLocation(t *testing.T) {
	env := newTestEnv(t)
	env.api.EXPECT().Login(gomock.Any(), gomock.Any()).Return(domainauth.Token{Value: "tok"}, nil)

	rec := env.do(testRequest{Method: http.MethodPost, Path: "/login", Form: loginForm(testEmail, "secret"), HTMX: true})

	require.Equal(t, http.StatusNoContent, rec.Code)
	var loc map[string]string
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("Hx-Location")), &loc))
	assert.Equal(t, "/home", loc["path"])
	assert.Equal(t, AppTarget, loc["target"])
	assert.NotNil(t, findCookie(rec, DefaultSessionCookieName))
}

func TestLoginSubmit_FailureShowsAPIMessage(t *testing.T) {
	env := newTestEnv(t)
	env.api.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		Return(domainauth.Token{}, &ports.APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials"})

	rec := env.do(testRequest{Method: http.MethodPost, Path: "/login", Form: loginForm(testEmail, "wrong"), HTMX: true})

	require.Equal(t, http.StatusNoContent, rec.Code)
	toast := triggeredToast(t, rec)
	assert.Equal(t, "Invalid credentials", toast.Message)
	assert.Equal(t, viewmodel.ToastError, toast.Type)
	assert.Nil(t, findCookie(rec, DefaultSessionCookieName))
	assert.Equal(t, 0, env.sessions.Len())
}

func TestLoginSubmit_FailureWithoutHTMXRerendersForm(t *testing.T) {
	env := newTestEnv(t)
	env.api.EXPECT().Login(gomock.Any(), gomock.Any()).Return(domainauth.Token{}, errors.New("connection refused"))

	rec := env.do(testRequest{Method: http.MethodPost, Path: "/login", Form: loginForm(testEmail, "hunter22")})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, service.MsgLoginFailed)
	assert.Contains(t, body, `value="ada@example.com"`)
	assert.NotContains(t, body, "hunter22")
}

func TestSignupSubmit_LocalValidationBlocksAPI(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{name: "missing name", form: signupForm("", testEmail, "secret1"), want: domainauth.MsgFillAllFields},
		{name: "missing email", form: signupForm("Ada", "", "secret1"), want: domainauth.MsgFillAllFields},
		{name: "missing password", form: signupForm("Ada", testEmail, ""), want: domainauth.MsgFillAllFields},
		{name: "five characters", form: signupForm("Ada", testEmail, "abcde"), want: domainauth.MsgPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No EXPECT: any upstream call fails the test.
			env := newTestEnv(t)

			rec := env.do(testRequest{Method: http.MethodPost, Path: "/signup", Form: tt.form, HTMX: true})

			require.Equal(t, http.StatusNoContent, rec.Code)
			toast := triggeredToast(t, rec)
			assert.Equal(t, tt.want, toast.Message)
			assert.Equal(t, viewmodel.ToastError, toast.Type)
		})
	}
}

func TestSignupSubmit_SixCharactersPassesRegardlessOfStrength(t *testing.T) {
	env := newTestEnv(t)
	env.api.EXPECT().
		Signup(gomock.Any(), domainauth.SignupRequest{Name: "Ada", Email: testEmail, Password: "abcdef"}).
		Return(nil)

	rec := env.do(testRequest{Method: http.MethodPost, Path: "/signup", Form: signupForm("Ada", testEmail, "abcdef")})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestSignupSubmit_SuccessFlashesOnLoginPage(t *testing.T) {
	env := newTestEnv(t)
	env.api.EXPECT().Signup(gomock.Any(), gomock.Any()).Return(nil)

	rec := env.do(testRequest{Method: http.MethodPost, Path: "/signup", Form: signupForm("Ada", testEmail, "Secret1!")})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	flash := findCookie(rec, FlashCookieName)
	require.NotNil(t, flash)

	next := env.do(testRequest{Path: "/login", Cookies: []*http.Cookie{flash}})
	require.Equal(t, http.StatusOK, next.Code)
	assert.Contains(t, next.Body.String(), service.MsgSignupSuccess)
	assert.Contains(t, next.Body.String(), "toast-success")

	cleared := findCookie(next, FlashCookieName)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestSignupSubmit_HTMXSuccessTriggersToastAfterLocation(t *testing.T) {
	env := newTestEnv(t)
	env.api.EXPECT().Signup(gomock.Any(), gomock.Any()).Return(nil)

	rec := env.do(testRequest{Method: http.MethodPost, Path: "/signup", Form: signupForm("Ada", testEmail, "Secret1!"), HTMX: true})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Hx-Location"), `"/login"`)
	flash := findCookie(rec, FlashCookieName)
	require.NotNil(t, flash)

	// htmx follows Hx-Location with a partial request.
	next := env.do(testRequest{Path: "/login", HTMX: true, Cookies: []*http.Cookie{flash}})
	require.Equal(t, http.StatusOK, next.Code)
	toast := triggeredToast(t, next)
	assert.Equal(t, service.MsgSignupSuccess, toast.Message)
	assert.Equal(t, viewmodel.ToastSuccess, toast.Type)
}

func TestSignupSubmit_APIFailure(t *testing.T) {
	t.Run("api message", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.EXPECT().
			Signup(gomock.Any(), gomock.Any()).
			Return(&ports.APIError{Status: http.StatusConflict, Message: "Email already registered"})

		rec := env.do(testRequest{Method: http.MethodPost, Path: "/signup", Form: signupForm("Ada", testEmail, "Secret1!"), HTMX: true})

		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "Email already registered", triggeredToast(t, rec).Message)
	})

	t.Run("generic fallback", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.EXPECT().Signup(gomock.Any(), gomock.Any()).Return(&ports.APIError{Status: http.StatusInternalServerError})

		rec := env.do(testRequest{Method: http.MethodPost, Path: "/signup", Form: signupForm("Ada", testEmail, "Secret1!"), HTMX: true})

		assert.Equal(t, service.MsgSignupFailed, triggeredToast(t, rec).Message)
	})

	t.Run("plain post keeps name and email only", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.EXPECT().
			Signup(gomock.Any(), gomock.Any()).
			Return(&ports.APIError{Status: http.StatusConflict, Message: "Email already registered"})

		rec := env.do(testRequest{Method: http.MethodPost, Path: "/signup", Form: signupForm("Ada", testEmail, "Secret1!")})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `value="Ada"`)
		assert.Contains(t, body, `value="ada@example.com"`)
		assert.NotContains(t, body, "Secret1!")
		assert.Contains(t, body, "Email already registered")
	})
}

func TestSignupStrength_RendersMeter(t *testing.T) {
	tests := []struct {
		password string
		label    string
		width    string
	}{
		{password: "abcdefgh", label: "Weak", width: "width: 25%"},
		{password: "Abcdefgh", label: "Medium", width: "width: 50%"},
		{password: "Abcdefg1", label: "Strong", width: "width: 75%"},
		{password: "Abcdefg1!", label: "Strong", width: "width: 100%"},
	}

	env := newTestEnv(t)
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			rec := env.do(testRequest{
				Method: http.MethodPost,
				Path:   "/signup/strength",
				Form:   url.Values{"password": {tt.password}},
				HTMX:   true,
			})

			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.True(t, strings.HasPrefix(body, `<div id="strength-meter"`), body)
			assert.Contains(t, body, "<strong>"+tt.label+"</strong>")
			assert.Contains(t, body, tt.width)
		})
	}

	t.Run("empty password hides meter", func(t *testing.T) {
		rec := env.do(testRequest{Method: http.MethodPost, Path: "/signup/strength", Form: url.Values{"password": {""}}, HTMX: true})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "is-hidden")
		assert.NotContains(t, rec.Body.String(), "Password strength")
	})
}

func TestLogout_ClearsSessionAndReloadsLogin(t *testing.T) {
	t.Run("plain post", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.signIn(t)
		env.api.EXPECT().Logout(gomock.Any(), "tok").Return(nil)

		rec := env.do(testRequest{Method: http.MethodPost, Path: "/logout", Form: url.Values{}, Session: id})

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		cookie := findCookie(rec, DefaultSessionCookieName)
		require.NotNil(t, cookie)
		assert.Negative(t, cookie.MaxAge)
		assert.Equal(t, 0, env.sessions.Len())
	})

	t.Run("htmx forces full navigation", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.signIn(t)
		env.api.EXPECT().Logout(gomock.Any(), "tok").Return(nil)

		rec := env.do(testRequest{Method: http.MethodPost, Path: "/logout", Form: url.Values{}, Session: id, HTMX: true})

		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Hx-Redirect"))
		assert.Empty(t, rec.Header().Get("Hx-Location"))
	})

	t.Run("upstream failure still logs out", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.signIn(t)
		env.api.EXPECT().Logout(gomock.Any(), "tok").Return(errors.New("upstream down"))

		rec := env.do(testRequest{Method: http.MethodPost, Path: "/logout", Form: url.Values{}, Session: id})

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, 0, env.sessions.Len())
	})

	t.Run("stale cookie", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(testRequest{Method: http.MethodPost, Path: "/logout", Form: url.Values{}, Session: "gone"})

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.NotNil(t, findCookie(rec, DefaultSessionCookieName))
	})
}

func TestToggleTheme(t *testing.T) {
	t.Run("plain post returns to page", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(testRequest{
			Method: http.MethodPost,
			Path:   "/theme",
			Form:   url.Values{"redirect_uri": {"/signup"}},
		})

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/signup", rec.Header().Get("Location"))
		cookie := findCookie(rec, ThemeCookieName)
		require.NotNil(t, cookie)
		assert.Equal(t, "dark", cookie.Value)
	})

	t.Run("toggles back to light", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(testRequest{
			Method:  http.MethodPost,
			Path:    "/theme",
			Form:    url.Values{"redirect_uri": {"https://evil.example"}},
			Cookies: []*http.Cookie{{Name: ThemeCookieName, Value: "dark"}},
		})

		assert.Equal(t, "/", rec.Header().Get("Location"))
		assert.Equal(t, "light", findCookie(rec, ThemeCookieName).Value)
	})

	t.Run("htmx refreshes", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(testRequest{Method: http.MethodPost, Path: "/theme", Form: url.Values{}, HTMX: true})

		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "true", rec.Header().Get("Hx-Refresh"))
	})
}

func TestAuthStatus(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(testRequest{Path: "/auth/status", Accept: "application/json"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())

	id := env.signIn(t)
	rec = env.do(testRequest{Path: "/auth/status", Accept: "application/json", Session: id})
	require.Equal(t, http.StatusOK, rec.Code)

	var got authStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Authenticated)
	require.NotNil(t, got.User)
	assert.Equal(t, testEmail, got.User.Email)
	assert.NotNil(t, got.ExpiresAt)
}

func TestPostWithoutCSRFTokenIsRejected(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(testRequest{Method: http.MethodPost, Path: "/login", Form: loginForm(testEmail, "secret"), NoCSRF: true, HTMX: true})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, msgCSRFFailed, triggeredToast(t, rec).Message)
}

func TestLoginFormRedirect(t *testing.T) {
	assert.Empty(t, loginFormRedirect(""))
	assert.Empty(t, loginFormRedirect("/"))
	assert.Empty(t, loginFormRedirect("/login?redirect_uri=%2Fhome"))
	assert.Empty(t, loginFormRedirect("/signup"))
	assert.Empty(t, loginFormRedirect("//evil.example"))
	assert.Equal(t, "/charts", loginFormRedirect("/charts"))
	assert.Equal(t, "/transactions?page=2", loginFormRedirect("/transactions?page=2"))
}
