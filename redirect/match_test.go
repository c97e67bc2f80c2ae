package redirect

import "testing"

func TestMatchRegistered(t *testing.T) {
	registered := []string{
		"https://example.com/callback",
		"com.example.app:/oauth/callback",
		"http://127.0.0.1:8080/cb",
	}

	tests := []struct {
		name         string
		uri          string
		requireExact bool
		want         bool
	}{
		{"exact https match", "https://example.com/callback", true, true},
		{"exact custom scheme match", "com.example.app:/oauth/callback", true, true},
		{"unregistered URI", "https://evil.com/callback", false, false},
		{"case difference is a mismatch", "https://Example.com/callback", false, false},
		{"percent-encoding difference is a mismatch", "https://example.com/%63allback", false, false},
		{"trailing slash is a mismatch", "https://example.com/callback/", false, false},
		{"loopback port difference allowed when not exact", "http://127.0.0.1:51739/cb", false, true},
		{"loopback ephemeral registration matches runtime port", "http://127.0.0.1:8080/cb", false, true},
		{"loopback port difference rejected when exact", "http://127.0.0.1:51739/cb", true, false},
		{"loopback path difference still rejected", "http://127.0.0.1:51739/other", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchRegistered(registered, tt.uri, tt.requireExact)
			if got != tt.want {
				t.Errorf("MatchRegistered(%q, exact=%t) = %t, want %t", tt.uri, tt.requireExact, got, tt.want)
			}
		})
	}
}

func TestLoopbackPortEquivalenceLimits(t *testing.T) {
	tests := []struct {
		name       string
		registered string
		uri        string
		want       bool
	}{
		{"IPv6 loopback port swap", "http://[::1]:8080/cb", "http://[::1]:51739/cb", true},
		{"ephemeral placeholder to concrete port", "http://127.0.0.1:0/cb", "http://127.0.0.1:51739/cb", true},
		{"https never gets port leeway", "https://example.com:8080/cb", "https://example.com:9090/cb", false},
		{"non-loopback http never gets port leeway", "http://intranet:8080/cb", "http://intranet:9090/cb", false},
		{"host swap is not port equivalence", "http://127.0.0.1:8080/cb", "http://[::1]:8080/cb", false},
		{"query difference breaks equivalence", "http://127.0.0.1:8080/cb?a=1", "http://127.0.0.1:9090/cb?a=2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchRegistered([]string{tt.registered}, tt.uri, false)
			if got != tt.want {
				t.Errorf("MatchRegistered(%q -> %q) = %t, want %t", tt.registered, tt.uri, got, tt.want)
			}
		})
	}
}
