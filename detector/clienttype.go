package detector

import (
	"fmt"
	"net/url"
	"strings"

	nativeapps "github.com/pressline/oauth-nativeapps"
	"github.com/pressline/oauth-nativeapps/redirect"
)

// DetectClientType classifies a redirect URI set into the operator-facing
// terminal/mobile/desktop/web recommendation. Per URI, the priority is
// strict: terminal beats mobile beats desktop beats web. The per-URI
// results are then reconciled: a unanimous list yields high confidence;
// any terminal URI forces terminal at medium confidence; otherwise any
// mobile or desktop URI forces that type at medium confidence; a list
// with no evidence defaults to web at low confidence.
//
// This is advisory output for operators configuring a new client. The
// binary native/web gate is Classify.
func DetectClientType(uris []string) nativeapps.ClientTypeRecommendation {
	var perURI []nativeapps.ClientType
	details := make([]string, 0, len(uris))

	for _, uri := range uris {
		t, ok := classifyURIType(uri)
		if !ok {
			details = append(details, fmt.Sprintf("%s: unrecognized", uri))
			continue
		}
		perURI = append(perURI, t)
		details = append(details, fmt.Sprintf("%s: %s", uri, t))
	}

	if len(perURI) == 0 {
		return nativeapps.ClientTypeRecommendation{
			Type:       nativeapps.ClientTypeWeb,
			Confidence: nativeapps.ConfidenceLow,
			Details:    details,
		}
	}

	if unanimous(perURI) {
		return nativeapps.ClientTypeRecommendation{
			Type:       perURI[0],
			Confidence: nativeapps.ConfidenceHigh,
			Details:    details,
		}
	}

	// Mixed list: the strongest signal present wins, at reduced
	// confidence.
	for _, want := range []nativeapps.ClientType{
		nativeapps.ClientTypeTerminal,
		nativeapps.ClientTypeMobile,
		nativeapps.ClientTypeDesktop,
	} {
		for _, t := range perURI {
			if t == want {
				return nativeapps.ClientTypeRecommendation{
					Type:       want,
					Confidence: nativeapps.ConfidenceMedium,
					Details:    details,
				}
			}
		}
	}

	return nativeapps.ClientTypeRecommendation{
		Type:       nativeapps.ClientTypeWeb,
		Confidence: nativeapps.ConfidenceLow,
		Details:    details,
	}
}

// unanimous reports whether every element equals the first.
func unanimous(types []nativeapps.ClientType) bool {
	for _, t := range types[1:] {
		if t != types[0] {
			return false
		}
	}
	return true
}

// classifyURIType assigns one URI its client type, or ok=false when the
// URI carries no usable signal.
func classifyURIType(uri string) (nativeapps.ClientType, bool) {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme == "" {
		return "", false
	}

	scheme := strings.ToLower(parsed.Scheme)

	if scheme == "http" || scheme == "https" {
		host := strings.Trim(parsed.Hostname(), "[]")
		if isLoopbackTypeHost(host) {
			// A port (explicit or the :0 ephemeral placeholder) is the
			// CLI local-listener convention; a bare loopback without a
			// port reads like a desktop helper.
			if parsed.Port() != "" {
				return nativeapps.ClientTypeTerminal, true
			}
			return nativeapps.ClientTypeDesktop, true
		}
		return nativeapps.ClientTypeWeb, true
	}

	if redirect.IsDangerousScheme(scheme) {
		return "", false
	}

	if redirect.IsReverseDomainScheme(scheme) || redirect.IsStandardNativeScheme(scheme) {
		return nativeapps.ClientTypeMobile, true
	}

	// Unrecognized but plausible custom scheme: desktop convention.
	return nativeapps.ClientTypeDesktop, true
}

// isLoopbackTypeHost uses the permissive loopback notion for typing
// (classification is heuristic; acceptance is the validator's job).
func isLoopbackTypeHost(host string) bool {
	return host == "localhost" || host == "::1" || strings.HasPrefix(host, "127.")
}
