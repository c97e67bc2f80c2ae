package detector

import (
	"testing"

	nativeapps "github.com/pressline/oauth-nativeapps"
)

func TestDetectClientType(t *testing.T) {
	tests := []struct {
		name           string
		uris           []string
		wantType       nativeapps.ClientType
		wantConfidence nativeapps.ConfidenceTier
	}{
		{
			name:           "loopback with port is terminal",
			uris:           []string{"http://127.0.0.1:8080/cb"},
			wantType:       nativeapps.ClientTypeTerminal,
			wantConfidence: nativeapps.ConfidenceHigh,
		},
		{
			name:           "ephemeral port placeholder is terminal",
			uris:           []string{"http://127.0.0.1:0/cb"},
			wantType:       nativeapps.ClientTypeTerminal,
			wantConfidence: nativeapps.ConfidenceHigh,
		},
		{
			name:           "loopback without port is desktop",
			uris:           []string{"http://localhost/cb"},
			wantType:       nativeapps.ClientTypeDesktop,
			wantConfidence: nativeapps.ConfidenceHigh,
		},
		{
			name:           "reverse-domain scheme is mobile",
			uris:           []string{"com.example.app:/cb"},
			wantType:       nativeapps.ClientTypeMobile,
			wantConfidence: nativeapps.ConfidenceHigh,
		},
		{
			name:           "standard native scheme is mobile",
			uris:           []string{"myapp://cb"},
			wantType:       nativeapps.ClientTypeMobile,
			wantConfidence: nativeapps.ConfidenceHigh,
		},
		{
			name:           "unrecognized custom scheme is desktop",
			uris:           []string{"randomscheme://cb"},
			wantType:       nativeapps.ClientTypeDesktop,
			wantConfidence: nativeapps.ConfidenceHigh,
		},
		{
			name:           "https origin is web",
			uris:           []string{"https://example.com/cb"},
			wantType:       nativeapps.ClientTypeWeb,
			wantConfidence: nativeapps.ConfidenceHigh,
		},
		{
			name:           "empty list defaults to web at low confidence",
			uris:           nil,
			wantType:       nativeapps.ClientTypeWeb,
			wantConfidence: nativeapps.ConfidenceLow,
		},
		{
			name:           "only unusable URIs default to web at low confidence",
			uris:           []string{"", "javascript://x"},
			wantType:       nativeapps.ClientTypeWeb,
			wantConfidence: nativeapps.ConfidenceLow,
		},
		{
			name:           "unanimous multi-URI list keeps high confidence",
			uris:           []string{"com.example.app:/cb", "com.example.alt:/cb", "myapp://cb"},
			wantType:       nativeapps.ClientTypeMobile,
			wantConfidence: nativeapps.ConfidenceHigh,
		},
		{
			name:           "terminal beats mobile in a mixed list",
			uris:           []string{"com.example.app:/cb", "http://127.0.0.1:8080/cb"},
			wantType:       nativeapps.ClientTypeTerminal,
			wantConfidence: nativeapps.ConfidenceMedium,
		},
		{
			name:           "mobile beats web in a mixed list",
			uris:           []string{"https://example.com/cb", "com.example.app:/cb"},
			wantType:       nativeapps.ClientTypeMobile,
			wantConfidence: nativeapps.ConfidenceMedium,
		},
		{
			name:           "desktop beats web in a mixed list",
			uris:           []string{"https://example.com/cb", "randomscheme://cb"},
			wantType:       nativeapps.ClientTypeDesktop,
			wantConfidence: nativeapps.ConfidenceMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectClientType(tt.uris)
			if got.Type != tt.wantType || got.Confidence != tt.wantConfidence {
				t.Errorf("DetectClientType(%v) = (%s, %s), want (%s, %s)",
					tt.uris, got.Type, got.Confidence, tt.wantType, tt.wantConfidence)
			}
		})
	}
}

func TestDetectClientTypeDetails(t *testing.T) {
	got := DetectClientType([]string{"http://127.0.0.1:8080/cb", "bogus"})
	if len(got.Details) != 2 {
		t.Fatalf("got %d detail lines, want 2: %v", len(got.Details), got.Details)
	}
	if got.Details[0] != "http://127.0.0.1:8080/cb: terminal" {
		t.Errorf("Details[0] = %q", got.Details[0])
	}
	if got.Details[1] != "bogus: unrecognized" {
		t.Errorf("Details[1] = %q", got.Details[1])
	}
}
