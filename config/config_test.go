package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseAuthAPIEnv(t *testing.T) {
	t.Setenv("AUTH_API_BASE_URL", "https://api.example.com/api/")
	t.Setenv("AUTH_API_LOGIN_PATH", "v2/login")
	t.Setenv("AUTH_API_TIMEOUT", "3s")
	t.Setenv("AUTH_API_TOKEN_PATH", "data.accessToken")
	t.Setenv("AUTH_API_MESSAGE_PATH", "error.detail")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	expected := AuthAPIConfig{
		BaseURL:     "https://api.example.com/api",
		LoginPath:   "/v2/login",
		SignupPath:  "/auth/signup",
		LogoutPath:  "/auth/logout",
		Timeout:     3 * time.Second,
		TokenPath:   "data.accessToken",
		MessagePath: "error.detail",
	}

	if !reflect.DeepEqual(cfg.AuthAPI, expected) {
		t.Fatalf("unexpected auth api configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.AuthAPI)
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Session.CookieName != "session_id" {
		t.Errorf("expected default cookie name session_id, got %q", cfg.Session.CookieName)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("expected default session ttl 24h, got %v", cfg.Session.TTL)
	}
	if cfg.Redis.Enabled() {
		t.Errorf("expected redis to be disabled without a URI")
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.HTTP.Addr)
	}
}

func TestAuthAPIConfig_Sanitize(t *testing.T) {
	cfg := AuthAPIConfig{
		BaseURL:     " http://api.local/ ",
		Timeout:     0,
		TokenPath:   " ",
		MessagePath: "",
	}

	cfg.Sanitize()

	if cfg.BaseURL != "http://api.local" {
		t.Fatalf("expected trimmed base url, got %q", cfg.BaseURL)
	}
	if cfg.LoginPath != "/auth/login" || cfg.SignupPath != "/auth/signup" || cfg.LogoutPath != "/auth/logout" {
		t.Fatalf("expected default paths, got %q %q %q", cfg.LoginPath, cfg.SignupPath, cfg.LogoutPath)
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("expected timeout to fall back to default, got %v", cfg.Timeout)
	}
	if cfg.TokenPath != "token" || cfg.MessagePath != "message" {
		t.Fatalf("expected default jmespath expressions, got %q %q", cfg.TokenPath, cfg.MessagePath)
	}

	cfg.Timeout = 5 * time.Minute
	cfg.Sanitize()
	if cfg.Timeout != time.Minute {
		t.Fatalf("expected timeout to be clamped to 1m, got %v", cfg.Timeout)
	}
}

func TestSessionConfig_Sanitize(t *testing.T) {
	cfg := SessionConfig{CookieName: "  ", TTL: time.Second}
	cfg.Sanitize()

	if cfg.CookieName != "session_id" {
		t.Fatalf("expected cookie name default, got %q", cfg.CookieName)
	}
	if cfg.TTL != time.Minute {
		t.Fatalf("expected ttl floor of 1m, got %v", cfg.TTL)
	}
	if cfg.KeyPrefix == "" {
		t.Fatal("expected key prefix default")
	}
}

func TestHTTPConfig_SanitizeCookieDomain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "localhost", input: "localhost", expected: "localhost"},
		{name: "registrable domain", input: "Example.com", expected: "example.com"},
		{name: "leading dot", input: ".app.example.com", expected: "app.example.com"},
		{name: "public suffix", input: "com", expected: ""},
		{name: "multi-label public suffix", input: "co.uk", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := HTTPConfig{CookieDomain: tt.input, CompressionLevel: 6}
			cfg.Sanitize()
			if cfg.CookieDomain != tt.expected {
				t.Errorf("expected cookie domain %q, got %q", tt.expected, cfg.CookieDomain)
			}
		})
	}
}

func TestHTTPConfig_SanitizeCompressionLevel(t *testing.T) {
	cfg := HTTPConfig{CompressionLevel: 0}
	cfg.Sanitize()
	if cfg.CompressionLevel != 1 {
		t.Fatalf("expected level clamped to 1, got %d", cfg.CompressionLevel)
	}

	cfg.CompressionLevel = 12
	cfg.Sanitize()
	if cfg.CompressionLevel != 9 {
		t.Fatalf("expected level clamped to 9, got %d", cfg.CompressionLevel)
	}
}

func TestRedisConfig_Enabled(t *testing.T) {
	cfg := RedisConfig{URI: "  "}
	cfg.Sanitize()
	if cfg.Enabled() {
		t.Fatal("expected redis disabled for blank URI")
	}

	cfg = RedisConfig{UseSentinel: true}
	cfg.Sanitize()
	if cfg.UseSentinel {
		t.Fatal("expected sentinel disabled without nodes")
	}

	cfg = RedisConfig{URI: "redis://localhost:6379/0"}
	cfg.Sanitize()
	if !cfg.Enabled() {
		t.Fatal("expected redis enabled with URI")
	}
}

func TestAppConfig_SecureCookies(t *testing.T) {
	cfg := AppConfig{HTTP: HTTPConfig{BaseURL: "https://app.example.com"}}
	if !cfg.SecureCookies() {
		t.Fatal("expected secure cookies for https base url")
	}

	cfg.IsDev = true
	if cfg.SecureCookies() {
		t.Fatal("expected insecure cookies in dev mode")
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
		Prefix:        " app. ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
	if cfg.Prefix != "app" {
		t.Fatalf("expected prefix to be trimmed, got %q", cfg.Prefix)
	}
}
