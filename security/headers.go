package security

import (
	"net/http"
)

// SetResponseHardeningHeaders sets the standard hardening headers on
// responses the interceptor generates itself (the structured webview
// block response). Interstitial OAuth error pages must never be framed,
// sniffed, or cached.
func SetResponseHardeningHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
	w.Header().Set("Pragma", "no-cache")
}
