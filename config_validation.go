package nativeapps

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/pressline/oauth-nativeapps/instrumentation"
	"github.com/pressline/oauth-nativeapps/security"
)

// ValidateRegexPatterns compiles every pattern in the list and returns one
// error per pattern that fails to compile, naming its position. The field
// name is included so aggregated messages stay attributable.
func ValidateRegexPatterns(field string, patterns []string) []error {
	var errs []error
	for i, pattern := range patterns {
		if _, err := regexp.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("%s[%d]: invalid regular expression %q: %w", field, i, pattern, err))
		}
	}
	return errs
}

// ValidateWebviewConfig checks the webview detection policy value and the
// syntactic validity of the whitelist and custom signature patterns.
func ValidateWebviewConfig(cfg *WebviewConfig) []error {
	var errs []error
	if !cfg.Policy.Valid() {
		errs = append(errs, fmt.Errorf("webview_detection_policy: unknown value %q (must be off, warn, or block)", string(cfg.Policy)))
	}
	errs = append(errs, ValidateRegexPatterns("webview_whitelist", cfg.Whitelist)...)
	errs = append(errs, ValidateRegexPatterns("webview_custom_patterns", cfg.CustomPatterns)...)
	return errs
}

// ValidateRedirectURIConfig checks the redirect URI policy fields for
// valid enum members and for the one logically impossible combination:
// exact matching required while both native redirect conventions are
// disallowed, which no native client could ever satisfy.
func ValidateRedirectURIConfig(cfg *Config) []error {
	var errs []error
	if !cfg.CustomSchemes.Valid() {
		errs = append(errs, fmt.Errorf("custom_uri_schemes_allowed: unknown value %q", string(cfg.CustomSchemes)))
	}
	if !cfg.LoopbackRedirects.Valid() {
		errs = append(errs, fmt.Errorf("loopback_redirects_allowed: unknown value %q", string(cfg.LoopbackRedirects)))
	}
	if cfg.RequireExactRedirectMatch &&
		cfg.CustomSchemes == ClientKindWeb &&
		cfg.LoopbackRedirects == ClientKindWeb {
		errs = append(errs, fmt.Errorf("require_exact_redirect_match is enabled while both custom URI schemes and loopback redirects are disallowed; no native client can register a matching redirect URI"))
	}
	return errs
}

// ValidatePKCEConfig checks the enhanced-PKCE mode (global and per-client
// overrides) and flags the contradiction of requiring enhanced PKCE while
// disabling challenge-method enforcement.
func ValidatePKCEConfig(cfg *Config) []error {
	var errs []error
	if !cfg.EnhancedPKCE.Valid() {
		errs = append(errs, fmt.Errorf("enhanced_pkce_mode: unknown value %q", string(cfg.EnhancedPKCE)))
	}
	for clientID, override := range cfg.ClientOverrides {
		if !override.EnhancedPKCE.Valid() {
			errs = append(errs, fmt.Errorf("client %s: enhanced_pkce_mode override: unknown value %q", clientID, string(override.EnhancedPKCE)))
		}
	}
	if cfg.EnhancedPKCE == PKCEModeEnhanced && cfg.DisableChallengeMethodEnforcement {
		errs = append(errs, fmt.Errorf("enhanced_pkce_mode is 'enhanced' but challenge-method enforcement is disabled; enhanced PKCE has no effect without enforcement"))
	}
	return errs
}

// ValidateConfiguration aggregates every configuration check into one
// ordered error list. An empty list means the configuration may be
// activated. The configuration is never mutated.
func ValidateConfiguration(cfg *Config) []error {
	var errs []error
	if cfg.DetectionSensitivity < 0 || cfg.DetectionSensitivity > 1 {
		errs = append(errs, fmt.Errorf("detection_sensitivity: %v is outside [0, 1]", cfg.DetectionSensitivity))
	}
	errs = append(errs, ValidateRedirectURIConfig(cfg)...)
	errs = append(errs, ValidatePKCEConfig(cfg)...)
	errs = append(errs, ValidateWebviewConfig(&cfg.Webview)...)
	for clientID, override := range cfg.ClientOverrides {
		if !override.CustomSchemes.Valid() {
			errs = append(errs, fmt.Errorf("client %s: custom_uri_schemes_allowed override: unknown value %q", clientID, string(override.CustomSchemes)))
		}
		if !override.LoopbackRedirects.Valid() {
			errs = append(errs, fmt.Errorf("client %s: loopback_redirects_allowed override: unknown value %q", clientID, string(override.LoopbackRedirects)))
		}
	}
	return errs
}

// ValidateAndLog runs ValidateConfiguration, logs each error at error
// severity, and returns true only when the configuration is valid. It is
// the gate callers use before persisting or activating new configuration.
func ValidateAndLog(cfg *Config, logger *slog.Logger) bool {
	if logger == nil {
		logger = slog.Default()
	}
	errs := ValidateConfiguration(cfg)
	for _, err := range errs {
		logger.Error("invalid native-apps policy configuration", "error", err)
	}
	return len(errs) == 0
}

// ValidateForActivation is the deployment gate: it validates cfg, logs every
// error, records the rejection in the security audit trail and metrics, and
// reports whether the configuration is safe to activate. The auditor and
// metrics may be nil when those subsystems are disabled.
func ValidateForActivation(cfg *Config, logger *slog.Logger, auditor *security.Auditor, metrics *instrumentation.Metrics) bool {
	if logger == nil {
		logger = slog.Default()
	}
	errs := ValidateConfiguration(cfg)
	for _, err := range errs {
		logger.Error("invalid native-apps policy configuration", "error", err)
	}
	if len(errs) > 0 {
		auditor.LogConfigurationRejected(len(errs))
		metrics.RecordConfigValidationErrors(context.Background(), len(errs))
		return false
	}
	return true
}
