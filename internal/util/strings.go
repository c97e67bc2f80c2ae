package util

import (
	"net/url"
)

// SafeTruncate truncates a string to maxLen bytes without panicking.
// Used when logging attacker-controlled values where only a prefix should
// be shown. A negative maxLen returns the empty string.
func SafeTruncate(s string, maxLen int) string {
	if maxLen < 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// SanitizeURIForLogging strips query parameters, fragments, and userinfo
// from a URI before it is logged, so credentials or tokens embedded in a
// malicious redirect URI never land in log storage. Unparsable input is
// truncated instead.
func SanitizeURIForLogging(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil {
		return SafeTruncate(uri, 100)
	}

	parsed.RawQuery = ""
	parsed.Fragment = ""
	parsed.User = nil

	return parsed.String()
}
