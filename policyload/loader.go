// Package policyload loads the native-apps policy configuration from a
// YAML file plus NATIVEAPPS_-prefixed environment variable overlays.
//
// Loading never rejects unknown enum strings: they are carried into the
// typed configuration as-is so that nativeapps.ValidateConfiguration can
// report them and runtime resolution can degrade to auto-detect.
package policyload

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	nativeapps "github.com/pressline/oauth-nativeapps"
)

// EnvPrefix is the prefix for environment variable overrides. Nested
// keys use a double underscore, e.g. NATIVEAPPS_WEBVIEW__POLICY=block.
const EnvPrefix = "NATIVEAPPS_"

// rawConfig is the wire shape of the policy file. Enum-valued fields are
// plain strings here; Load casts them without validation.
type rawConfig struct {
	DetectionSensitivity              float64                `koanf:"detection_sensitivity"`
	EnhancedPKCE                      string                 `koanf:"enhanced_pkce"`
	CustomSchemes                     string                 `koanf:"custom_schemes"`
	LoopbackRedirects                 string                 `koanf:"loopback_redirects"`
	RequireExactRedirectMatch         bool                   `koanf:"require_exact_redirect_match"`
	AllowPlainPKCE                    bool                   `koanf:"allow_plain_pkce"`
	DisableChallengeMethodEnforcement bool                   `koanf:"disable_challenge_method_enforcement"`
	LogDecisions                      bool                   `koanf:"log_decisions"`
	Webview                           rawWebview             `koanf:"webview"`
	ClientOverrides                   map[string]rawOverride `koanf:"client_overrides"`
}

type rawWebview struct {
	Policy            string   `koanf:"policy"`
	Whitelist         []string `koanf:"whitelist"`
	CustomPatterns    []string `koanf:"custom_patterns"`
	CustomMessage     string   `koanf:"custom_message"`
	AuthorizationPath string   `koanf:"authorization_path"`
}

type rawOverride struct {
	EnhancedPKCE      string `koanf:"enhanced_pkce"`
	CustomSchemes     string `koanf:"custom_schemes"`
	LoopbackRedirects string `koanf:"loopback_redirects"`
}

// Load reads the policy file at path (optional: a missing file is not an
// error, env-only configuration is supported), overlays NATIVEAPPS_
// environment variables, applies defaults and returns the typed
// configuration. The result may still fail ValidateConfiguration; Load
// does not validate.
func Load(path string) (*nativeapps.Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("loading policy file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("checking policy file %s: %w", path, err)
		}
	}

	// NATIVEAPPS_WEBVIEW__POLICY -> webview.policy
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment overrides: %w", err)
	}

	var raw rawConfig
	if err := k.Unmarshal("", &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling policy configuration: %w", err)
	}

	cfg := fromRaw(raw)
	cfg.ApplyDefaults()

	// In a directly constructed Config the zero value of
	// DetectionSensitivity means "unset" and ApplyDefaults fills it in.
	// Here the loader knows whether the key was actually provided, so an
	// operator configuring an explicit 0 (every client scores as native)
	// keeps it.
	if k.Exists("detection_sensitivity") {
		cfg.DetectionSensitivity = raw.DetectionSensitivity
	}
	return cfg, nil
}

// fromRaw casts raw string fields into their typed enums. Unknown values
// survive the cast verbatim so validation sees them.
func fromRaw(raw rawConfig) *nativeapps.Config {
	cfg := &nativeapps.Config{
		DetectionSensitivity:              raw.DetectionSensitivity,
		EnhancedPKCE:                      nativeapps.PKCEMode(raw.EnhancedPKCE),
		CustomSchemes:                     nativeapps.ClientKind(raw.CustomSchemes),
		LoopbackRedirects:                 nativeapps.ClientKind(raw.LoopbackRedirects),
		RequireExactRedirectMatch:         raw.RequireExactRedirectMatch,
		AllowPlainPKCE:                    raw.AllowPlainPKCE,
		DisableChallengeMethodEnforcement: raw.DisableChallengeMethodEnforcement,
		LogDecisions:                      raw.LogDecisions,
		Webview: nativeapps.WebviewConfig{
			Policy:            nativeapps.WebviewPolicy(raw.Webview.Policy),
			Whitelist:         raw.Webview.Whitelist,
			CustomPatterns:    raw.Webview.CustomPatterns,
			CustomMessage:     raw.Webview.CustomMessage,
			AuthorizationPath: raw.Webview.AuthorizationPath,
		},
	}
	if len(raw.ClientOverrides) > 0 {
		cfg.ClientOverrides = make(map[string]nativeapps.ClientOverride, len(raw.ClientOverrides))
		for id, o := range raw.ClientOverrides {
			cfg.ClientOverrides[id] = nativeapps.ClientOverride{
				EnhancedPKCE:      nativeapps.PKCEMode(o.EnhancedPKCE),
				CustomSchemes:     nativeapps.ClientKind(o.CustomSchemes),
				LoopbackRedirects: nativeapps.ClientKind(o.LoopbackRedirects),
			}
		}
	}
	return cfg
}
