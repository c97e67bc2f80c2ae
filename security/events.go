package security

// Event type constants for security audit logging. These keep event names
// consistent across the codebase and greppable in log pipelines.
const (
	// Redirect URI validation events

	// EventRedirectURIRejected is logged when a redirect URI fails
	// validation for an ordinary, non-malicious-looking reason
	// (unknown scheme, bad port, disallowed convention).
	EventRedirectURIRejected = "redirect_uri_rejected"

	// EventDangerousScheme is logged when a redirect URI uses a scheme
	// from the fixed dangerous-scheme denylist (javascript:, data:, ...).
	EventDangerousScheme = "redirect_uri_dangerous_scheme"

	// EventPathTraversal is logged when a redirect URI path contains a
	// directory traversal sequence.
	EventPathTraversal = "redirect_uri_path_traversal"

	// EventInjectionPattern is logged when a redirect URI query string
	// matches the script-injection denylist.
	EventInjectionPattern = "redirect_uri_injection_pattern"

	// EventSpoofedHostname is logged when a hostname is disguised as a
	// loopback address but is not one.
	EventSpoofedHostname = "redirect_uri_spoofed_hostname"

	// Classification events

	// EventClientClassified is logged (when decision logging is
	// enabled) for every native/web classification decision.
	EventClientClassified = "client_classified"

	// Webview interception events

	// EventWebviewWarned is logged when an authorization request from an
	// embedded webview proceeds with warning headers attached.
	EventWebviewWarned = "webview_warned"

	// EventWebviewBlocked is logged when an authorization request from
	// an embedded webview is rejected.
	EventWebviewBlocked = "webview_blocked"

	// EventWebviewWhitelisted is logged when a user agent matched a
	// webview signature but was allowed by the operator whitelist.
	EventWebviewWhitelisted = "webview_whitelisted"

	// Configuration events

	// EventConfigurationRejected is logged when a policy configuration
	// fails validation and is not activated.
	EventConfigurationRejected = "configuration_rejected"
)
