package nativeapps

import (
	"log/slog"
)

// DefaultDetectionSensitivity is the score threshold above which a client
// is considered native when no manual override applies.
const DefaultDetectionSensitivity = 0.7

// DefaultAuthorizationPath is the authorization endpoint path the webview
// interceptor recognizes when none is configured.
const DefaultAuthorizationPath = "/oauth/authorize"

// Config is the policy configuration snapshot for the native-apps core.
// It is supplied by the surrounding server (or loaded at the boundary via
// the policyload package) and treated as read-only by every component.
//
// All fields have safe defaults: the zero value, after ApplyDefaults,
// yields auto-detection with warn-only webview handling.
type Config struct {
	// DetectionSensitivity is the confidence threshold in [0, 1] for the
	// native/web decision. The zero value means "unset" to ApplyDefaults;
	// to run with an effective threshold of 0 (every client scores as
	// native), set it after ApplyDefaults or load it through policyload,
	// which preserves an explicitly configured 0.
	// Default: 0.7
	DetectionSensitivity float64

	// EnhancedPKCE is the global enhanced-PKCE policy. Auto-detect
	// requires S256 only for clients classified as native.
	// Default: auto-detect
	EnhancedPKCE PKCEMode

	// CustomSchemes controls whether custom URI scheme redirects are
	// permitted: "native" or "auto-detect" permits them, "web" forbids
	// them. Dangerous schemes are rejected regardless of this setting.
	// Default: auto-detect
	CustomSchemes ClientKind

	// LoopbackRedirects controls whether loopback interface redirects
	// (http://127.0.0.1, http://[::1]) are permitted, with the same
	// semantics as CustomSchemes.
	// Default: auto-detect
	LoopbackRedirects ClientKind

	// RequireExactRedirectMatch requires byte-equality between a request
	// redirect URI and a registered one. No normalization is performed,
	// preventing encoding-trick bypasses.
	// Default: false
	RequireExactRedirectMatch bool

	// AllowPlainPKCE permits the deprecated 'plain' code challenge
	// method. Consumed by the metadata collaborator, not by this core.
	// Default: false
	AllowPlainPKCE bool

	// DisableChallengeMethodEnforcement turns off code-challenge-method
	// enforcement. Combining this with EnhancedPKCE=enhanced is a
	// contradiction flagged by ValidateConfiguration.
	// Default: false (enforcement on)
	DisableChallengeMethodEnforcement bool

	// LogDecisions enables audit logging of every classification
	// decision, not only failures and violations.
	// Default: false
	LogDecisions bool

	// Webview holds embedded-browser detection policy.
	Webview WebviewConfig

	// ClientOverrides maps a client identifier to its per-client policy
	// overrides. Overrides take precedence over the global settings.
	ClientOverrides map[string]ClientOverride
}

// WebviewConfig holds embedded-browser detection configuration.
type WebviewConfig struct {
	// Policy is what to do when an embedded webview is detected.
	// Default: warn
	Policy WebviewPolicy

	// Whitelist lists user-agent regex patterns that are always allowed,
	// checked before any signature matching.
	Whitelist []string

	// CustomPatterns lists additional operator-supplied webview
	// signature regex patterns (category "custom").
	CustomPatterns []string

	// CustomMessage is an optional operator message appended to the
	// structured block response.
	CustomMessage string

	// AuthorizationPath is the authorization endpoint path used to
	// recognize authorization requests.
	// Default: /oauth/authorize
	AuthorizationPath string
}

// ClientOverride carries per-client tri-state policy overrides. An unset
// or auto-detect value falls through to the global setting.
type ClientOverride struct {
	// EnhancedPKCE overrides the global enhanced-PKCE policy.
	EnhancedPKCE PKCEMode

	// CustomSchemes overrides the global custom-scheme allowance.
	CustomSchemes ClientKind

	// LoopbackRedirects overrides the global loopback allowance.
	LoopbackRedirects ClientKind
}

// ApplyDefaults fills unset fields with the documented defaults. It never
// rejects anything: invalid values are left in place for
// ValidateConfiguration to report and for resolution-time degradation to
// handle.
func (c *Config) ApplyDefaults() {
	if c.DetectionSensitivity == 0 {
		c.DetectionSensitivity = DefaultDetectionSensitivity
	}
	if c.EnhancedPKCE == PKCEModeUnset {
		c.EnhancedPKCE = PKCEModeAuto
	}
	if c.CustomSchemes == ClientKindUnset {
		c.CustomSchemes = ClientKindAuto
	}
	if c.LoopbackRedirects == ClientKindUnset {
		c.LoopbackRedirects = ClientKindAuto
	}
	if c.Webview.Policy == "" {
		c.Webview.Policy = WebviewPolicyWarn
	}
	if c.Webview.AuthorizationPath == "" {
		c.Webview.AuthorizationPath = DefaultAuthorizationPath
	}
}

// OverrideFor returns the per-client override for clientID, or the zero
// override when none is configured.
func (c *Config) OverrideFor(clientID string) ClientOverride {
	if c.ClientOverrides == nil {
		return ClientOverride{}
	}
	return c.ClientOverrides[clientID]
}

// EffectiveKind resolves a tri-state policy through the override chain:
// per-client override, then the global setting, then the supplied
// auto-detect fallback. An invalid global value does not abort
// resolution; it degrades to auto-detect with a logged warning.
func EffectiveKind(global ClientKind, override ClientKind, isNative bool, field string, logger *slog.Logger) bool {
	if override == ClientKindNative {
		return true
	}
	if override == ClientKindWeb {
		return false
	}
	switch global {
	case ClientKindNative:
		return true
	case ClientKindWeb:
		return false
	case ClientKindAuto, ClientKindUnset:
		return isNative
	default:
		if logger != nil {
			logger.Warn("invalid policy value, falling back to auto-detect",
				"field", field,
				"value", string(global))
		}
		return isNative
	}
}

// EffectivePKCE resolves the enhanced-PKCE tri-state through the same
// chain as EffectiveKind.
func EffectivePKCE(global PKCEMode, override PKCEMode, isNative bool, logger *slog.Logger) bool {
	if override == PKCEModeEnhanced {
		return true
	}
	if override == PKCEModeNotEnhanced {
		return false
	}
	switch global {
	case PKCEModeEnhanced:
		return true
	case PKCEModeNotEnhanced:
		return false
	case PKCEModeAuto, PKCEModeUnset:
		return isNative
	default:
		if logger != nil {
			logger.Warn("invalid policy value, falling back to auto-detect",
				"field", "enhanced_pkce",
				"value", string(global))
		}
		return isNative
	}
}
