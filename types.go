package nativeapps

// ClientKind is the tri-state classification value used both for the
// manual per-client override and for the custom-scheme / loopback
// allowance policies. The zero value means "unset" (no override).
type ClientKind string

const (
	// ClientKindUnset means no value was configured; resolution falls
	// through to the next tier of the override chain.
	ClientKindUnset ClientKind = ""

	// ClientKindAuto defers the decision to algorithmic detection.
	ClientKindAuto ClientKind = "auto-detect"

	// ClientKindNative treats the client as a native application.
	ClientKindNative ClientKind = "native"

	// ClientKindWeb treats the client as a web application.
	ClientKindWeb ClientKind = "web"
)

// ParseClientKind maps a raw configuration string to a ClientKind.
// Unrecognized values return ClientKindUnset and ok=false so that callers
// can apply the documented auto-detect degradation instead of failing.
func ParseClientKind(s string) (ClientKind, bool) {
	switch ClientKind(s) {
	case ClientKindUnset, ClientKindAuto, ClientKindNative, ClientKindWeb:
		return ClientKind(s), true
	default:
		return ClientKindUnset, false
	}
}

// Valid reports whether k is a declared ClientKind variant.
func (k ClientKind) Valid() bool {
	_, ok := ParseClientKind(string(k))
	return ok
}

// PKCEMode controls whether the S256 code challenge method is mandatory
// for a client ("enhanced" PKCE per RFC 8252 §8.1).
type PKCEMode string

const (
	// PKCEModeUnset means no value was configured.
	PKCEModeUnset PKCEMode = ""

	// PKCEModeAuto enforces enhanced PKCE only for clients classified
	// as native.
	PKCEModeAuto PKCEMode = "auto-detect"

	// PKCEModeEnhanced always requires the S256 challenge method.
	PKCEModeEnhanced PKCEMode = "enhanced"

	// PKCEModeNotEnhanced never requires the S256 challenge method
	// beyond the server's baseline PKCE rules.
	PKCEModeNotEnhanced PKCEMode = "not-enhanced"
)

// ParsePKCEMode maps a raw configuration string to a PKCEMode.
// Unrecognized values return PKCEModeUnset and ok=false.
func ParsePKCEMode(s string) (PKCEMode, bool) {
	switch PKCEMode(s) {
	case PKCEModeUnset, PKCEModeAuto, PKCEModeEnhanced, PKCEModeNotEnhanced:
		return PKCEMode(s), true
	default:
		return PKCEModeUnset, false
	}
}

// Valid reports whether m is a declared PKCEMode variant.
func (m PKCEMode) Valid() bool {
	_, ok := ParsePKCEMode(string(m))
	return ok
}

// WebviewPolicy selects how the authorization request interceptor reacts
// to an embedded-webview user agent.
type WebviewPolicy string

const (
	// WebviewPolicyOff disables webview detection entirely.
	WebviewPolicyOff WebviewPolicy = "off"

	// WebviewPolicyWarn attaches warning headers but lets the request
	// proceed.
	WebviewPolicyWarn WebviewPolicy = "warn"

	// WebviewPolicyBlock rejects the request with a structured error.
	WebviewPolicyBlock WebviewPolicy = "block"
)

// ParseWebviewPolicy maps a raw configuration string to a WebviewPolicy.
// Unrecognized values return WebviewPolicyWarn and ok=false (warn is the
// conservative default: visible but non-breaking).
func ParseWebviewPolicy(s string) (WebviewPolicy, bool) {
	switch WebviewPolicy(s) {
	case WebviewPolicyOff, WebviewPolicyWarn, WebviewPolicyBlock:
		return WebviewPolicy(s), true
	default:
		return WebviewPolicyWarn, false
	}
}

// Valid reports whether p is a declared WebviewPolicy variant.
func (p WebviewPolicy) Valid() bool {
	_, ok := ParseWebviewPolicy(string(p))
	return ok
}

// ClassificationResult is the outcome of classifying one OAuth client.
// It is ephemeral: computed per call and safe to cache or discard.
type ClassificationResult struct {
	// IsNative is true when Confidence meets the configured detection
	// sensitivity, or when a manual override forces the decision.
	IsNative bool

	// Confidence is the classification score in [0, 1].
	Confidence float64

	// RequiresEnhancedPKCE is the resolved enhanced-PKCE decision for
	// this client (override chain applied).
	RequiresEnhancedPKCE bool

	// Reasons lists human-readable classification factors in the order
	// they were evaluated, for audit and debug logging.
	Reasons []string
}

// ClientType is the operator-facing client category recommendation
// produced by detector.DetectClientType.
type ClientType string

const (
	// ClientTypeTerminal is a CLI or similar tool using a loopback
	// listener with an explicit or ephemeral port.
	ClientTypeTerminal ClientType = "terminal"

	// ClientTypeMobile is a mobile app using a custom URI scheme.
	ClientTypeMobile ClientType = "mobile"

	// ClientTypeDesktop is a desktop app (loopback custom scheme or an
	// unrecognized custom scheme).
	ClientTypeDesktop ClientType = "desktop"

	// ClientTypeWeb is a browser-based client.
	ClientTypeWeb ClientType = "web"
)

// ConfidenceTier grades how certain a client-type recommendation is.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceLow    ConfidenceTier = "low"
)

// ClientTypeRecommendation is advisory output for operators configuring a
// new client. It is separate from the binary native/web gate.
type ClientTypeRecommendation struct {
	Type       ClientType
	Confidence ConfidenceTier

	// Details describes the per-URI evidence behind the recommendation.
	Details []string
}
