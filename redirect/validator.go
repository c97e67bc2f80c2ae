package redirect

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/pressline/oauth-nativeapps/instrumentation"
	"github.com/pressline/oauth-nativeapps/internal/util"
	"github.com/pressline/oauth-nativeapps/security"
)

// Mode selects the validation profile applied to a redirect URI.
type Mode string

const (
	// ModeStandard applies baseline OAuth rules: HTTPS for web origins,
	// loopback and custom-scheme conventions for native apps.
	ModeStandard Mode = "standard"

	// ModeExactMatch is ModeStandard plus the requirement that request
	// URIs match a registered URI byte-for-byte (see MatchRegistered).
	ModeExactMatch Mode = "exact_match"

	// ModeNativeEnhanced applies the strict RFC 8252 native-app
	// profile: only loopback interface redirects and custom schemes are
	// acceptable; web origins are rejected.
	ModeNativeEnhanced Mode = "native_enhanced"
)

// maxPathLength bounds redirect URI path length. Longer paths are a
// reliable sign of encoding games, not legitimate callbacks.
const maxPathLength = 1000

// dangerousQuerySubstrings is the fixed denylist scanned against query
// strings. A match rejects the URI as an injection attempt.
var dangerousQuerySubstrings = []string{
	"javascript:",
	"data:",
	"vbscript:",
	"<script",
	"</script",
	"eval(",
}

// Validator validates redirect URIs against the configured policy.
// It is stateless aside from logging; concurrent use is safe.
type Validator struct {
	allowCustomSchemes bool
	allowLoopback      bool
	logger             *slog.Logger
	auditor            *security.Auditor
	metrics            *instrumentation.Metrics
}

// Allowances carries resolved per-client allowance decisions. The
// detector resolves the tri-state policies through the override chain and
// hands the outcome here.
type Allowances struct {
	CustomSchemes bool
	Loopback      bool
}

// NewValidator creates a validator from the global policy. A tri-state
// value of "web" disables the corresponding native convention; "native",
// "auto-detect", and unset permit it.
//
// The kinds are passed as plain booleans so this package does not import
// the policy types; use nativeapps.Config fields compared against
// ClientKindWeb, or Detector.AllowancesFor for per-client resolution.
func NewValidator(allowances Allowances, logger *slog.Logger, auditor *security.Auditor) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		allowCustomSchemes: allowances.CustomSchemes,
		allowLoopback:      allowances.Loopback,
		logger:             logger,
		auditor:            auditor,
	}
}

// WithAllowances returns a copy of the validator carrying different
// resolved allowances, sharing the logger and auditor. Used for
// per-client validation after override-chain resolution.
func (v *Validator) WithAllowances(allowances Allowances) *Validator {
	return &Validator{
		allowCustomSchemes: allowances.CustomSchemes,
		allowLoopback:      allowances.Loopback,
		logger:             v.logger,
		auditor:            v.auditor,
		metrics:            v.metrics,
	}
}

// WithMetrics attaches the metric instruments; nil disables recording.
func (v *Validator) WithMetrics(metrics *instrumentation.Metrics) *Validator {
	v.metrics = metrics
	return v
}

// Validate reports whether uri is an acceptable redirect URI under the
// given mode. It fails closed and logs every rejection with the
// sanitized offending URI and the specific reason.
func (v *Validator) Validate(uri string, mode Mode) bool {
	return v.ValidateWithReason(uri, mode).Valid
}

// ValidateWithReason is the diagnostic variant used by configuration and
// admin tooling: it returns the first failing rule as a human-readable
// reason instead of a bare boolean. Identical input and configuration
// always yield identical results.
func (v *Validator) ValidateWithReason(uri string, mode Mode) ValidationResult {
	result := v.check(uri, mode)
	v.metrics.RecordValidation(context.Background(), string(mode), result.Valid, result.Category, result.IsSecurityViolation())
	if result.Valid {
		return result
	}

	sanitized := util.SanitizeURIForLogging(uri)
	if result.IsSecurityViolation() {
		v.logger.Warn("redirect URI security violation",
			"redirect_uri", sanitized,
			"category", result.Category,
			"reason", result.Reason)
		v.auditor.LogSecurityViolation(violationEvent(result.Category), "", sanitized, result.Reason)
	} else {
		v.logger.Warn("redirect URI rejected",
			"redirect_uri", sanitized,
			"category", result.Category,
			"reason", result.Reason)
		v.auditor.LogRedirectURIRejected("", sanitized, result.Reason)
	}
	return result
}

// violationEvent maps a violation category to its audit event type.
func violationEvent(category string) string {
	switch category {
	case CategoryDangerousScheme:
		return security.EventDangerousScheme
	case CategoryPathTraversal:
		return security.EventPathTraversal
	case CategoryInjection:
		return security.EventInjectionPattern
	case CategorySpoofedHostname:
		return security.EventSpoofedHostname
	default:
		return security.EventRedirectURIRejected
	}
}

// check runs the validation rules and returns the first failure.
func (v *Validator) check(uri string, mode Mode) ValidationResult {
	if strings.TrimSpace(uri) == "" {
		return fail(CategoryInvalidFormat, "redirect URI is empty")
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return fail(CategoryInvalidFormat, fmt.Sprintf("redirect URI does not parse: %v", err))
	}
	if parsed.Scheme == "" {
		return fail(CategoryMissingScheme, "redirect URI has no scheme")
	}

	scheme := strings.ToLower(parsed.Scheme)

	switch scheme {
	case "http", "https":
		return v.checkHTTP(parsed, scheme, mode)
	default:
		return v.checkCustomScheme(parsed, scheme)
	}
}

// checkHTTP validates http/https redirect URIs: loopback interfaces under
// RFC 8252 §7.3, web origins under baseline rules (standard modes only).
func (v *Validator) checkHTTP(parsed *url.URL, scheme string, mode Mode) ValidationResult {
	host := parsed.Hostname()
	if host == "" {
		return fail(CategoryInvalidFormat, "redirect URI has no host")
	}

	if isLoopbackCandidateHost(host) {
		return v.checkLoopback(parsed, scheme)
	}

	if mode == ModeNativeEnhanced {
		return fail(CategoryNotNative,
			fmt.Sprintf("%s://%s is not a native redirect convention; native clients must use a loopback interface or custom scheme", scheme, host))
	}

	if scheme == "http" {
		return fail(CategoryInsecureHTTP,
			"http is only valid on the loopback interface; web origins must use https")
	}

	return ok()
}

// checkLoopback applies RFC 8252 §7.3 loopback interface rules.
func (v *Validator) checkLoopback(parsed *url.URL, scheme string) ValidationResult {
	if !v.allowLoopback {
		return fail(CategoryNotPermitted, "loopback redirects are not permitted by policy")
	}

	// RFC 8252: only plain HTTP is valid for the loopback interface.
	// There is no certificate story for 127.0.0.1, so https here means a
	// misconfigured or spoofing client.
	if scheme != "http" {
		return fail(CategoryHTTPSOnLoopback, "loopback redirects must use plain http, not https")
	}

	host := strings.Trim(parsed.Hostname(), "[]")
	if containsAlpha(host) {
		// Alphabetic characters are only legal in an IPv6 literal
		// (hex digits). Anything else is a hostname dressed up as a
		// loopback address -- including localhost, which is rejected by
		// name because its resolution can be hijacked.
		ip := net.ParseIP(host)
		if ip == nil || !strings.Contains(host, ":") {
			return fail(CategorySpoofedHostname,
				fmt.Sprintf("host %q is not a valid loopback literal; use 127.0.0.1 or [::1]", host))
		}
		if !ip.Equal(net.IPv6loopback) {
			return fail(CategoryLoopbackHost,
				fmt.Sprintf("host %q is not the IPv6 loopback interface", host))
		}
	} else if host != "127.0.0.1" && !isIPv6LoopbackDigits(host) {
		// Only the single exact address is accepted, not the whole
		// 127.0.0.0/8 block.
		return fail(CategoryLoopbackHost,
			fmt.Sprintf("host %q is not an accepted loopback interface; use 127.0.0.1 or [::1]", host))
	}

	if port := parsed.Port(); port != "" {
		n, err := strconv.Atoi(port)
		// Port 0 is the ephemeral-port convention used by CLI and
		// desktop apps that bind a random port at runtime.
		if err != nil || n < 0 || n > 65535 {
			return fail(CategoryInvalidPort, fmt.Sprintf("port %q is not a valid port number", port))
		}
	}

	if res := checkQuery(parsed.RawQuery); !res.Valid {
		return res
	}
	return checkPath(parsed.Path)
}

// checkCustomScheme applies the custom-scheme rules: the dangerous-scheme
// denylist first (never overridable), then RFC 3986 grammar, then
// reverse-domain rules for dotted schemes. RFC 8252 deliberately permits
// broad custom-scheme usage, so any scheme passing those checks is
// accepted.
func (v *Validator) checkCustomScheme(parsed *url.URL, scheme string) ValidationResult {
	if IsDangerousScheme(scheme) {
		return fail(CategoryDangerousScheme,
			fmt.Sprintf("scheme %q is never acceptable for redirect URIs", scheme))
	}

	if !v.allowCustomSchemes {
		return fail(CategoryNotPermitted, "custom scheme redirects are not permitted by policy")
	}

	if !rfc3986SchemePattern.MatchString(scheme) {
		return fail(CategorySchemeFormat,
			fmt.Sprintf("scheme %q does not match the RFC 3986 scheme grammar", scheme))
	}

	if strings.Contains(scheme, ".") && !IsReverseDomainScheme(scheme) {
		return fail(CategoryReverseDomain,
			fmt.Sprintf("scheme %q is not valid reverse-domain notation (need at least three segments, a known TLD first, and hyphen-safe segments)", scheme))
	}

	if res := checkQuery(parsed.RawQuery); !res.Valid {
		return res
	}
	return checkPath(parsed.Path)
}

// checkQuery scans a raw query string against the injection denylist.
func checkQuery(rawQuery string) ValidationResult {
	if rawQuery == "" {
		return ok()
	}
	lower := strings.ToLower(rawQuery)
	for _, needle := range dangerousQuerySubstrings {
		if strings.Contains(lower, needle) {
			return fail(CategoryInjection,
				fmt.Sprintf("query string contains dangerous content %q", needle))
		}
	}
	return ok()
}

// checkPath rejects traversal sequences and oversized paths.
func checkPath(path string) ValidationResult {
	if strings.Contains(path, "../") || strings.Contains(path, `..\`) {
		return fail(CategoryPathTraversal, "path contains a directory traversal sequence")
	}
	if len(path) > maxPathLength {
		return fail(CategoryPathTooLong,
			fmt.Sprintf("path length %d exceeds the %d character limit", len(path), maxPathLength))
	}
	return ok()
}

// isLoopbackCandidateHost decides whether an http/https host enters the
// loopback rule branch. The branch is entered broadly (anything loopback
// flavored, including localhost, 127.0.0.0/8, and IPv6 literals) so that
// the strict rules inside checkLoopback get to produce the specific
// rejection reason instead of a generic web-origin error.
func isLoopbackCandidateHost(host string) bool {
	trimmed := strings.Trim(host, "[]")
	if trimmed == "localhost" || strings.HasPrefix(trimmed, "127.") {
		return true
	}
	if strings.Contains(trimmed, ":") {
		// Any IPv6 literal: checkLoopback verifies it is ::1.
		return true
	}
	if ip := net.ParseIP(trimmed); ip != nil && ip.IsLoopback() {
		return true
	}
	return false
}

// isIPv6LoopbackDigits reports whether a non-alphabetic host is an IPv6
// literal equal to the loopback address (e.g. "0:0:0:0:0:0:0:1").
func isIPv6LoopbackDigits(host string) bool {
	if !strings.Contains(host, ":") {
		return false
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.Equal(net.IPv6loopback)
}

// containsAlpha reports whether s contains any ASCII letter.
func containsAlpha(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func ok() ValidationResult {
	return ValidationResult{Valid: true}
}

func fail(category, reason string) ValidationResult {
	return ValidationResult{Valid: false, Category: category, Reason: reason}
}
