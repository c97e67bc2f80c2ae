// Package nativeapps implements RFC 8252 native-application security
// controls for OAuth 2.0/2.1 authorization servers: native-client
// classification, redirect URI security validation, enhanced PKCE policy
// resolution, and embedded-webview detection for authorization requests.
//
// The package is a library core: it performs no I/O of its own. Policy
// configuration is supplied as an in-memory snapshot (see Config), client
// records come from a registry collaborator (see the registry package),
// and all decisions are returned as explicit result values for the
// surrounding authorization server to act on.
//
// Subpackages:
//
//   - redirect: redirect URI acceptance validation and native-ness
//     classification (RFC 8252 §7)
//   - detector: weighted native-client scoring and override-chain
//     resolution
//   - webview: embedded-browser detection and the authorization request
//     interceptor (RFC 8252 §8.12)
//   - registry: the read-only OAuth client record collaborator
//   - policyload: boundary loader populating Config from YAML/env
//   - security: audit logging, request IDs, decision rate limiting
//   - instrumentation: OpenTelemetry metrics and tracing
package nativeapps
