// Package webview detects embedded in-app browsers on OAuth
// authorization requests and applies the configured response policy.
//
// RFC 8252 §8.12 warns against performing OAuth flows inside embedded
// webviews: the host application can observe credentials and the user
// has no address bar to verify where they are. The Interceptor sits in
// front of the authorization endpoint and, depending on policy, ignores,
// warns about, or blocks requests whose User-Agent matches a known
// embedded-browser signature.
package webview
