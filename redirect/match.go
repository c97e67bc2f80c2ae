package redirect

import (
	"net/url"
	"strings"
)

// MatchRegistered reports whether a request redirect URI matches one of
// the client's registered URIs.
//
// When requireExact is true the comparison is case-sensitive byte
// equality with no normalization whatsoever; this is deliberate, so that
// percent-encoding or case tricks cannot bypass the registered list.
//
// When requireExact is false, byte equality is still the primary rule,
// with one RFC 8252 §7.3 concession: a loopback redirect may differ from
// its registered form in the port number only, because native apps bind
// an ephemeral port at runtime.
func MatchRegistered(registered []string, uri string, requireExact bool) bool {
	for _, candidate := range registered {
		if candidate == uri {
			return true
		}
	}
	if requireExact {
		return false
	}
	for _, candidate := range registered {
		if loopbackPortsEquivalent(candidate, uri) {
			return true
		}
	}
	return false
}

// loopbackPortsEquivalent reports whether two URIs are identical loopback
// redirects up to the port number.
func loopbackPortsEquivalent(registered, uri string) bool {
	regParsed, err := url.Parse(registered)
	if err != nil {
		return false
	}
	reqParsed, err := url.Parse(uri)
	if err != nil {
		return false
	}

	if regParsed.Scheme != "http" || reqParsed.Scheme != "http" {
		return false
	}

	regHost := strings.Trim(regParsed.Hostname(), "[]")
	reqHost := strings.Trim(reqParsed.Hostname(), "[]")
	if regHost != reqHost {
		return false
	}
	if regHost != "127.0.0.1" && regHost != "::1" {
		return false
	}

	return regParsed.Path == reqParsed.Path &&
		regParsed.RawQuery == reqParsed.RawQuery &&
		regParsed.Fragment == reqParsed.Fragment
}
