package redirect

import (
	"net/url"
	"regexp"
	"strings"
)

// URIClass is the permissive classification of a redirect URI, used only
// for native-client scoring. It is intentionally looser than acceptance
// validation: classification may recognize localhost or the whole
// 127.0.0.0/8 block as native-leaning even though strict validation
// accepts only 127.0.0.1 and [::1].
type URIClass int

const (
	// ClassUnknown means no recognizable native or web pattern.
	ClassUnknown URIClass = iota

	// ClassNative means the URI follows a native-app redirect
	// convention (custom scheme or loopback interface).
	ClassNative

	// ClassWeb means the URI targets an ordinary web origin.
	ClassWeb
)

// dangerousSchemes are never acceptable as redirect URI schemes, under
// any policy. The check runs before any allow logic and cannot be
// overridden by configuration.
var dangerousSchemes = map[string]bool{
	"javascript":           true,
	"data":                 true,
	"vbscript":             true,
	"file":                 true,
	"ftp":                  true,
	"about":                true,
	"chrome":               true,
	"chrome-extension":     true,
	"moz-extension":        true,
	"ms-browser-extension": true,
	"view-source":          true,
	"mailto":               true,
	"tel":                  true,
	"sms":                  true,
	"blob":                 true,
	"filesystem":           true,
}

// validTLDs is the fixed allowlist of leading segments accepted in
// reverse-domain scheme notation (com.example.app). Keeping the list
// closed prevents look-alike schemes from passing as reverse-domain.
var validTLDs = map[string]bool{
	"com": true, "net": true, "org": true, "edu": true, "gov": true,
	"mil": true, "int": true, "io": true, "co": true, "app": true,
	"dev": true, "me": true, "ai": true, "us": true, "uk": true,
	"de": true, "fr": true, "es": true, "it": true, "nl": true,
	"se": true, "no": true, "fi": true, "dk": true, "jp": true,
	"cn": true, "kr": true, "in": true, "au": true, "nz": true,
	"ca": true, "br": true, "ch": true, "at": true, "be": true,
	"ie": true, "pl": true, "pt": true, "ru": true, "za": true,
}

var (
	// rfc3986SchemePattern is the RFC 3986 scheme grammar:
	// ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ), lowercase.
	rfc3986SchemePattern = regexp.MustCompile(`^[a-z][a-z0-9+.-]*$`)

	// reverseDomainSegmentPattern matches one segment of a
	// reverse-domain scheme. Leading/trailing hyphens are checked
	// separately.
	reverseDomainSegmentPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

	// standardNativeSchemePatterns are shapes commonly used by native
	// apps for non-reverse-domain custom schemes. They influence
	// classification strength only; acceptance does not require a match.
	standardNativeSchemePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[a-z][a-z0-9]*app$`),     // myapp, exampleapp
		regexp.MustCompile(`^[a-z][a-z0-9]*-[a-z0-9-]*[a-z0-9]$`), // my-app, example-client
		regexp.MustCompile(`^[a-z]+[0-9]+$`),          // app2, client42
	}
)

// IsDangerousScheme reports whether scheme is on the fixed denylist.
// The comparison is case-insensitive.
func IsDangerousScheme(scheme string) bool {
	return dangerousSchemes[strings.ToLower(scheme)]
}

// IsReverseDomainScheme reports whether scheme is valid reverse-domain
// notation: at least three dot-separated segments, the first on the TLD
// allowlist, each segment lowercase alphanumeric/hyphen with no leading
// or trailing hyphen.
func IsReverseDomainScheme(scheme string) bool {
	segments := strings.Split(scheme, ".")
	if len(segments) < 3 {
		return false
	}
	if !validTLDs[segments[0]] {
		return false
	}
	for _, segment := range segments {
		if !reverseDomainSegmentPattern.MatchString(segment) {
			return false
		}
		if strings.HasPrefix(segment, "-") || strings.HasSuffix(segment, "-") {
			return false
		}
	}
	return true
}

// IsStandardNativeScheme reports whether a non-reverse-domain custom
// scheme matches one of the common native-app scheme shapes.
func IsStandardNativeScheme(scheme string) bool {
	for _, pattern := range standardNativeSchemePatterns {
		if pattern.MatchString(scheme) {
			return true
		}
	}
	return false
}

// isLoopbackLikeHost reports whether a host looks like a loopback target
// for classification purposes. Unlike strict validation, this accepts
// localhost and the whole 127.0.0.0/8 block: a client registering
// http://localhost is clearly trying to be a native app even though the
// strict validator will tell it to use 127.0.0.1 instead.
func isLoopbackLikeHost(host string) bool {
	host = strings.Trim(host, "[]")
	if host == "localhost" || host == "::1" {
		return true
	}
	return strings.HasPrefix(host, "127.")
}

// Classify assigns a permissive URI class for native-client scoring.
// Unparsable input and dangerous schemes classify as Unknown rather than
// rejecting: scoring treats unrecognizable URIs as neutral evidence.
func Classify(uri string) URIClass {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme == "" {
		return ClassUnknown
	}

	scheme := strings.ToLower(parsed.Scheme)

	if scheme == "http" || scheme == "https" {
		host := parsed.Hostname()
		if host == "" {
			return ClassUnknown
		}
		if isLoopbackLikeHost(host) {
			return ClassNative
		}
		return ClassWeb
	}

	if IsDangerousScheme(scheme) {
		return ClassUnknown
	}
	if !rfc3986SchemePattern.MatchString(scheme) {
		return ClassUnknown
	}

	// Any plausible custom scheme is native-leaning.
	return ClassNative
}

// IsNativeURI reports whether uri follows a native-app redirect
// convention. Permissive; see the package doc for the asymmetry with
// Validate.
func IsNativeURI(uri string) bool {
	return Classify(uri) == ClassNative
}
