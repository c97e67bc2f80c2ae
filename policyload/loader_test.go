package policyload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	nativeapps "github.com/pressline/oauth-nativeapps"
)

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEmptyIsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := &nativeapps.Config{}
	want.ApplyDefaults()
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Errorf("a missing policy file should fall back to defaults, got: %v", err)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := writePolicyFile(t, `
detection_sensitivity: 0.8
enhanced_pkce: enhanced
custom_schemes: native
require_exact_redirect_match: true
webview:
  policy: block
  whitelist:
    - "TrustedKiosk/"
  custom_message: "See https://example.com/oauth-help"
client_overrides:
  legacy-cli:
    loopback_redirects: native
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DetectionSensitivity != 0.8 {
		t.Errorf("DetectionSensitivity = %v, want 0.8", cfg.DetectionSensitivity)
	}
	if cfg.EnhancedPKCE != nativeapps.PKCEModeEnhanced {
		t.Errorf("EnhancedPKCE = %q, want enhanced", cfg.EnhancedPKCE)
	}
	if cfg.CustomSchemes != nativeapps.ClientKindNative {
		t.Errorf("CustomSchemes = %q, want native", cfg.CustomSchemes)
	}
	if !cfg.RequireExactRedirectMatch {
		t.Error("RequireExactRedirectMatch should be true")
	}
	if cfg.Webview.Policy != nativeapps.WebviewPolicyBlock {
		t.Errorf("Webview.Policy = %q, want block", cfg.Webview.Policy)
	}
	if len(cfg.Webview.Whitelist) != 1 || cfg.Webview.Whitelist[0] != "TrustedKiosk/" {
		t.Errorf("Webview.Whitelist = %v", cfg.Webview.Whitelist)
	}
	if got := cfg.ClientOverrides["legacy-cli"].LoopbackRedirects; got != nativeapps.ClientKindNative {
		t.Errorf("override LoopbackRedirects = %q, want native", got)
	}

	// Unset fields still get their defaults.
	if cfg.LoopbackRedirects != nativeapps.ClientKindAuto {
		t.Errorf("LoopbackRedirects = %q, want auto-detect default", cfg.LoopbackRedirects)
	}
	if cfg.Webview.AuthorizationPath != nativeapps.DefaultAuthorizationPath {
		t.Errorf("AuthorizationPath = %q, want default", cfg.Webview.AuthorizationPath)
	}
}

func TestLoadEnvironmentOverlay(t *testing.T) {
	path := writePolicyFile(t, `
webview:
  policy: warn
`)
	t.Setenv("NATIVEAPPS_WEBVIEW__POLICY", "block")
	t.Setenv("NATIVEAPPS_DETECTION_SENSITIVITY", "0.9")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Webview.Policy != nativeapps.WebviewPolicyBlock {
		t.Errorf("Webview.Policy = %q, environment should override the file", cfg.Webview.Policy)
	}
	if cfg.DetectionSensitivity != 0.9 {
		t.Errorf("DetectionSensitivity = %v, want 0.9 from environment", cfg.DetectionSensitivity)
	}
}

func TestLoadPreservesExplicitZeroSensitivity(t *testing.T) {
	// 0 is a legal threshold (every client scores as native) and must not
	// be confused with the key being absent.
	t.Run("from file", func(t *testing.T) {
		cfg, err := Load(writePolicyFile(t, "detection_sensitivity: 0\n"))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.DetectionSensitivity != 0 {
			t.Errorf("DetectionSensitivity = %v, want explicit 0 preserved", cfg.DetectionSensitivity)
		}
	})

	t.Run("from environment", func(t *testing.T) {
		t.Setenv("NATIVEAPPS_DETECTION_SENSITIVITY", "0")
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.DetectionSensitivity != 0 {
			t.Errorf("DetectionSensitivity = %v, want explicit 0 preserved", cfg.DetectionSensitivity)
		}
	})

	t.Run("absent key still defaults", func(t *testing.T) {
		cfg, err := Load(writePolicyFile(t, "webview:\n  policy: warn\n"))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.DetectionSensitivity != nativeapps.DefaultDetectionSensitivity {
			t.Errorf("DetectionSensitivity = %v, want default %v", cfg.DetectionSensitivity, nativeapps.DefaultDetectionSensitivity)
		}
	})
}

func TestLoadCarriesUnknownEnumValues(t *testing.T) {
	// Unknown enum strings must survive loading untouched so that
	// ValidateConfiguration reports them and runtime resolution degrades
	// instead of silently normalizing.
	path := writePolicyFile(t, `
enhanced_pkce: mandatory
webview:
  policy: deny
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EnhancedPKCE != nativeapps.PKCEMode("mandatory") {
		t.Errorf("EnhancedPKCE = %q, unknown values must be preserved", cfg.EnhancedPKCE)
	}
	if cfg.Webview.Policy != nativeapps.WebviewPolicy("deny") {
		t.Errorf("Webview.Policy = %q, unknown values must be preserved", cfg.Webview.Policy)
	}
	if errs := nativeapps.ValidateConfiguration(cfg); len(errs) != 2 {
		t.Errorf("validation should flag both unknown values, got: %v", errs)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writePolicyFile(t, "webview: [not: a: mapping")
	if _, err := Load(path); err == nil {
		t.Error("malformed YAML should fail loading")
	}
}
