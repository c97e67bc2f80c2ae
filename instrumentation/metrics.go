package instrumentation

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all metric instruments for the native-apps library.
type Metrics struct {
	// Classification metrics
	ClassificationsTotal    metric.Int64Counter
	ClassificationCacheHits metric.Int64Counter

	// Redirect URI validation metrics
	ValidationsTotal        metric.Int64Counter
	RejectionsTotal         metric.Int64Counter
	SecurityViolationsTotal metric.Int64Counter

	// Webview interception metrics
	WebviewDetectionsTotal  metric.Int64Counter
	WebviewWarnedTotal      metric.Int64Counter
	WebviewBlockedTotal     metric.Int64Counter
	WebviewWhitelistedTotal metric.Int64Counter

	// Configuration metrics
	ConfigValidationErrors metric.Int64Counter
}

// newMetrics creates and registers all metric instruments.
func newMetrics(inst *Instrumentation) (*Metrics, error) {
	detectorMeter := inst.Meter("detector")
	redirectMeter := inst.Meter("redirect")
	webviewMeter := inst.Meter("webview")
	configMeter := inst.Meter("config")

	m := &Metrics{}
	var err error

	m.ClassificationsTotal, err = detectorMeter.Int64Counter(
		"nativeapps.classifications.total",
		metric.WithDescription("Number of native-client classification decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifications.total counter: %w", err)
	}

	m.ClassificationCacheHits, err = detectorMeter.Int64Counter(
		"nativeapps.classification.cache_hits",
		metric.WithDescription("Number of classification cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create classification.cache_hits counter: %w", err)
	}

	m.ValidationsTotal, err = redirectMeter.Int64Counter(
		"nativeapps.redirect_uri.validations.total",
		metric.WithDescription("Number of redirect URI validations"),
		metric.WithUnit("{validation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create redirect_uri.validations.total counter: %w", err)
	}

	m.RejectionsTotal, err = redirectMeter.Int64Counter(
		"nativeapps.redirect_uri.rejections.total",
		metric.WithDescription("Number of redirect URI rejections by category"),
		metric.WithUnit("{rejection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create redirect_uri.rejections.total counter: %w", err)
	}

	m.SecurityViolationsTotal, err = redirectMeter.Int64Counter(
		"nativeapps.security_violations.total",
		metric.WithDescription("Number of redirect URI security violations (probable malicious intent)"),
		metric.WithUnit("{violation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create security_violations.total counter: %w", err)
	}

	m.WebviewDetectionsTotal, err = webviewMeter.Int64Counter(
		"nativeapps.webview.detections.total",
		metric.WithDescription("Number of embedded-webview detections by category"),
		metric.WithUnit("{detection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create webview.detections.total counter: %w", err)
	}

	m.WebviewWarnedTotal, err = webviewMeter.Int64Counter(
		"nativeapps.webview.warned.total",
		metric.WithDescription("Number of authorization requests warned for webview usage"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create webview.warned.total counter: %w", err)
	}

	m.WebviewBlockedTotal, err = webviewMeter.Int64Counter(
		"nativeapps.webview.blocked.total",
		metric.WithDescription("Number of authorization requests blocked for webview usage"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create webview.blocked.total counter: %w", err)
	}

	m.WebviewWhitelistedTotal, err = webviewMeter.Int64Counter(
		"nativeapps.webview.whitelisted.total",
		metric.WithDescription("Number of webview matches allowed by the operator whitelist"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create webview.whitelisted.total counter: %w", err)
	}

	m.ConfigValidationErrors, err = configMeter.Int64Counter(
		"nativeapps.config.validation_errors.total",
		metric.WithDescription("Number of policy configuration validation errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create config.validation_errors.total counter: %w", err)
	}

	return m, nil
}

// RecordClassification records one classification decision (nil-safe).
func (m *Metrics) RecordClassification(ctx context.Context, isNative bool, overridden bool) {
	if m == nil || m.ClassificationsTotal == nil {
		return
	}
	m.ClassificationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool(AttrIsNative, isNative),
		attribute.Bool(AttrManualOverride, overridden),
	))
}

// RecordClassificationCacheHit records one classification served from
// the cache (nil-safe).
func (m *Metrics) RecordClassificationCacheHit(ctx context.Context) {
	if m == nil || m.ClassificationCacheHits == nil {
		return
	}
	m.ClassificationCacheHits.Add(ctx, 1)
}

// RecordValidation records one redirect URI validation outcome
// (nil-safe). Rejections additionally increment the per-category
// rejection counter, and violations the violation counter.
func (m *Metrics) RecordValidation(ctx context.Context, mode string, valid bool, category string, violation bool) {
	if m == nil || m.ValidationsTotal == nil {
		return
	}
	m.ValidationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrValidationMode, mode),
		attribute.Bool(AttrValid, valid),
	))
	if valid {
		return
	}
	m.RejectionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrRejectionCategory, category),
	))
	if violation {
		m.SecurityViolationsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(AttrRejectionCategory, category),
		))
	}
}

// RecordWebviewDetection records one webview detection (nil-safe).
func (m *Metrics) RecordWebviewDetection(ctx context.Context, category string) {
	if m == nil || m.WebviewDetectionsTotal == nil {
		return
	}
	m.WebviewDetectionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrWebviewCategory, category),
	))
}

// RecordWebviewOutcome records the policy outcome applied to one webview
// detection: "warned", "blocked", or "whitelisted" (nil-safe).
func (m *Metrics) RecordWebviewOutcome(ctx context.Context, outcome, category string) {
	if m == nil {
		return
	}
	var counter metric.Int64Counter
	switch outcome {
	case "warned":
		counter = m.WebviewWarnedTotal
	case "blocked":
		counter = m.WebviewBlockedTotal
	case "whitelisted":
		counter = m.WebviewWhitelistedTotal
	}
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrWebviewCategory, category),
	))
}

// RecordConfigValidationErrors records the error count of a failed
// configuration activation (nil-safe).
func (m *Metrics) RecordConfigValidationErrors(ctx context.Context, count int) {
	if m == nil || m.ConfigValidationErrors == nil || count <= 0 {
		return
	}
	m.ConfigValidationErrors.Add(ctx, int64(count))
}
