package testutil

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	nativeapps "github.com/pressline/oauth-nativeapps"
	"github.com/pressline/oauth-nativeapps/registry"
)

// SilentLogger returns a logger that discards everything. Tests that
// assert on log output should use slog.New with their own handler.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// DefaultConfig returns a policy configuration with all defaults
// applied, suitable as a starting point for table tests.
func DefaultConfig() *nativeapps.Config {
	cfg := &nativeapps.Config{}
	cfg.ApplyDefaults()
	return cfg
}

// NativeClient returns a public, first-party client with a custom
// reverse-domain redirect scheme, scoring well above the default
// detection sensitivity.
func NativeClient() *registry.Client {
	return &registry.Client{
		ClientID:     "test-native-client",
		Confidential: false,
		ThirdParty:   false,
		Label:        "Example Mobile",
		RedirectURIs: []string{"com.example.app:/oauth/callback"},
		CreatedAt:    time.Now(),
	}
}

// WebClient returns a confidential, third-party client with an HTTPS
// redirect, scoring well below the default detection sensitivity.
func WebClient() *registry.Client {
	return &registry.Client{
		ClientID:     "test-web-client",
		SecretHash:   BcryptSecretHash,
		Confidential: true,
		ThirdParty:   true,
		Label:        "Example Portal",
		RedirectURIs: []string{"https://example.com/callback"},
		CreatedAt:    time.Now(),
	}
}

// TerminalClient returns a public client using a loopback redirect with
// an explicit port, the shape a CLI tool registers.
func TerminalClient() *registry.Client {
	return &registry.Client{
		ClientID:     "test-terminal-client",
		Confidential: false,
		Label:        "example-cli",
		RedirectURIs: []string{"http://127.0.0.1:8080/callback"},
		CreatedAt:    time.Now(),
	}
}

// BcryptSecretHash is the bcrypt hash of the string "secret", for tests
// that exercise confidential client verification.
const BcryptSecretHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// GenerateRandomString generates a random base64-encoded string.
func GenerateRandomString(length int) string {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("failed to generate random string: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length]
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error but got nil")
	}
}

// AssertEqual fails the test if got != want.
func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

// AssertTrue fails the test if condition is false.
func AssertTrue(t *testing.T, condition bool, message string) {
	t.Helper()
	if !condition {
		t.Errorf("assertion failed: %s", message)
	}
}

// AssertFalse fails the test if condition is true.
func AssertFalse(t *testing.T, condition bool, message string) {
	t.Helper()
	if condition {
		t.Errorf("assertion failed: %s", message)
	}
}

// HTTPRequest is a helper for making test HTTP requests.
type HTTPRequest struct {
	Method  string
	URL     string
	Headers map[string]string
}

// NewHTTPRequest creates a new HTTP request helper.
func NewHTTPRequest(method, url string) *HTTPRequest {
	return &HTTPRequest{
		Method:  method,
		URL:     url,
		Headers: make(map[string]string),
	}
}

// WithHeader adds a header to the request.
func (r *HTTPRequest) WithHeader(key, value string) *HTTPRequest {
	r.Headers[key] = value
	return r
}

// Do executes the HTTP request against the handler.
func (r *HTTPRequest) Do(handler http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(r.Method, r.URL, nil)
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}
