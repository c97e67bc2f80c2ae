// Package instrumentation provides OpenTelemetry metrics and tracing for
// the native-apps library: classification counters, redirect URI
// validation outcomes by category, security violations, and webview
// interception decisions.
//
// Instrumentation is optional. When disabled (or when no providers are
// supplied) all instruments are no-ops with negligible overhead, so the
// library can be embedded without an observability stack.
package instrumentation
