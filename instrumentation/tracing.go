package instrumentation

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span and metric attribute keys.
//
// Never attach actual secrets (client secrets, raw user agent strings,
// full redirect URIs with query parameters) to spans or metrics: traces
// are persisted, replicated, and readable by wider audiences than the
// server itself. Use the sanitized or hashed forms the library already
// produces for logging.
const (
	// Classification attributes
	AttrClientID       = "nativeapps.client_id"
	AttrIsNative       = "nativeapps.is_native"
	AttrConfidence     = "nativeapps.confidence"
	AttrManualOverride = "nativeapps.manual_override"

	// Redirect URI validation attributes
	AttrValidationMode    = "nativeapps.validation.mode"
	AttrValid             = "nativeapps.validation.valid"
	AttrRejectionCategory = "nativeapps.validation.category"

	// Webview attributes
	AttrWebviewCategory = "nativeapps.webview.category"
	AttrWebviewPolicy   = "nativeapps.webview.policy"
	AttrUserAgentHash   = "nativeapps.webview.user_agent_hash"
)

// RecordError records an error on a span with proper status (nil-safe).
func RecordError(span trace.Span, err error) {
	if span != nil && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanAttributes sets attributes on a span (nil-safe).
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	if span != nil {
		span.SetAttributes(attrs...)
	}
}
