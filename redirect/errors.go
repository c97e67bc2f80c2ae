package redirect

// Error categories for redirect URI validation failures, used for
// logging and metrics labels. Categories marked as violations indicate
// probable malicious intent and are audited separately from ordinary
// rejections.
const (
	CategoryInvalidFormat   = "invalid_format"
	CategoryMissingScheme   = "missing_scheme"
	CategoryDangerousScheme = "dangerous_scheme"
	CategorySchemeFormat    = "scheme_format"
	CategoryReverseDomain   = "reverse_domain"
	CategoryLoopbackHost    = "loopback_host"
	CategorySpoofedHostname = "spoofed_hostname"
	CategoryHTTPSOnLoopback = "https_on_loopback"
	CategoryInvalidPort     = "invalid_port"
	CategoryPathTraversal   = "path_traversal"
	CategoryPathTooLong     = "path_too_long"
	CategoryInjection       = "query_injection"
	CategoryNotPermitted    = "not_permitted"
	CategoryNotNative       = "not_native"
	CategoryInsecureHTTP    = "insecure_http"
)

// ValidationResult is the outcome of validating a single redirect URI.
// Reason is empty on success and names the first failing rule otherwise.
type ValidationResult struct {
	Valid bool

	// Category is the machine-readable failure category (one of the
	// Category constants), empty on success.
	Category string

	// Reason is a human-readable explanation of the first failing rule,
	// suitable for operator and admin tooling. Empty on success.
	Reason string
}

// IsSecurityViolation reports whether the failure category indicates
// probable malicious intent rather than honest misconfiguration. These
// are logged at a higher severity with a dedicated audit event.
func (r ValidationResult) IsSecurityViolation() bool {
	switch r.Category {
	case CategoryDangerousScheme, CategoryPathTraversal, CategoryInjection, CategorySpoofedHostname:
		return true
	default:
		return false
	}
}
