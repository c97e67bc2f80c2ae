package webview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	nativeapps "github.com/pressline/oauth-nativeapps"
	"github.com/pressline/oauth-nativeapps/instrumentation"
	"github.com/pressline/oauth-nativeapps/security"
)

// Response headers communicating the webview decision. They are set on
// both the warn and block paths so client developers can detect the
// condition without a request failure.
const (
	// HeaderSecurityWarning is the generic security-warning marker.
	HeaderSecurityWarning = "X-OAuth-Security-Warning"

	// HeaderCategory carries the detected webview category.
	HeaderCategory = "X-Webview-Detected-Category"

	// HeaderRecommendation carries the generic remedy.
	HeaderRecommendation = "X-Webview-Recommendation"

	// HeaderDeveloperMessage carries the category-specific developer
	// message.
	HeaderDeveloperMessage = "X-Webview-Developer-Message"

	// HeaderReference carries the RFC security-section reference.
	HeaderReference = "X-OAuth-Security-Reference"
)

const (
	securityWarningValue = "embedded-webview-detected"
	recommendationValue  = "use-external-user-agent"
	rfcReference         = "RFC 8252 Section 8.12"

	// ErrorCodeBlocked is the machine-readable error code of the
	// structured block response.
	ErrorCodeBlocked = "embedded_webview_blocked"
)

// errEmbeddedWebviewBlocked marks the block outcome on trace spans.
var errEmbeddedWebviewBlocked = errors.New(ErrorCodeBlocked)

// ErrorResponse is the JSON body of a blocked authorization request. It
// is deliberately complete and actionable: a native-app developer
// should be able to self-diagnose from the response alone.
type ErrorResponse struct {
	// Error is the machine-readable error code.
	Error string `json:"error"`

	// ErrorDescription explains what was detected.
	ErrorDescription string `json:"error_description"`

	// Recommendation tells the developer what to change.
	Recommendation string `json:"recommendation"`

	// Reference points at the relevant RFC security section.
	Reference string `json:"reference"`

	// Message is the optional operator-configured custom message.
	Message string `json:"message,omitempty"`
}

// warningContextKey is the context key for the attached warning.
type warningContextKey struct{}

// Warning is the security-warning metadata attached to a warned request
// for downstream consumption.
type Warning struct {
	Category Category
}

// WarningFromContext returns the webview warning attached to a request
// context by the interceptor's warn path, if any.
func WarningFromContext(ctx context.Context) (Warning, bool) {
	w, ok := ctx.Value(warningContextKey{}).(Warning)
	return w, ok
}

// Interceptor applies the configured webview policy to authorization
// requests ahead of OAuth processing.
type Interceptor struct {
	cfg      *nativeapps.Config
	detector *Detector
	logger   *slog.Logger
	auditor  *security.Auditor
	limiter  *security.DecisionLimiter
	metrics  *instrumentation.Metrics
	tracer   trace.Tracer
}

// NewInterceptor creates the interceptor. The limiter is optional and
// only damps repeated audit events per source address; it never changes
// an allow/warn/block outcome.
func NewInterceptor(cfg *nativeapps.Config, detector *Detector, logger *slog.Logger, auditor *security.Auditor, limiter *security.DecisionLimiter) *Interceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interceptor{
		cfg:      cfg,
		detector: detector,
		logger:   logger,
		auditor:  auditor,
		limiter:  limiter,
	}
}

// WithMetrics attaches the metric instruments; nil disables recording.
func (i *Interceptor) WithMetrics(metrics *instrumentation.Metrics) *Interceptor {
	i.metrics = metrics
	return i
}

// WithTracer attaches a tracer that spans intercepted authorization
// requests; nil disables tracing.
func (i *Interceptor) WithTracer(tracer trace.Tracer) *Interceptor {
	i.tracer = tracer
	return i
}

// Middleware wraps an HTTP handler with webview policy enforcement.
// Requests that are not authorization attempts, carry no user agent, or
// match no signature pass through untouched.
func (i *Interceptor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if i.cfg.Webview.Policy == nativeapps.WebviewPolicyOff {
			next.ServeHTTP(w, r)
			return
		}

		if !i.isAuthorizationRequest(r) {
			next.ServeHTTP(w, r)
			return
		}

		userAgent := r.UserAgent()
		if userAgent == "" {
			next.ServeHTTP(w, r)
			return
		}

		var span trace.Span
		if i.tracer != nil {
			var ctx context.Context
			ctx, span = i.tracer.Start(r.Context(), "webview.intercept")
			defer span.End()
			r = r.WithContext(ctx)
		}

		result := i.detector.Detect(userAgent)
		instrumentation.SetSpanAttributes(span,
			attribute.String(instrumentation.AttrWebviewPolicy, string(i.cfg.Webview.Policy)),
			attribute.String(instrumentation.AttrWebviewCategory, string(result.Category)),
			attribute.String(instrumentation.AttrUserAgentHash, security.HashForLogging(userAgent)),
		)

		if result.Whitelisted {
			i.audit(security.EventWebviewWhitelisted, r, userAgent, "")
			i.metrics.RecordWebviewOutcome(r.Context(), "whitelisted", "")
			next.ServeHTTP(w, r)
			return
		}

		if !result.IsWebview {
			next.ServeHTTP(w, r)
			return
		}

		i.metrics.RecordWebviewDetection(r.Context(), string(result.Category))

		switch i.cfg.Webview.Policy {
		case nativeapps.WebviewPolicyBlock:
			i.audit(security.EventWebviewBlocked, r, userAgent, string(result.Category))
			i.metrics.RecordWebviewOutcome(r.Context(), "blocked", string(result.Category))
			instrumentation.RecordError(span, errEmbeddedWebviewBlocked)
			i.writeBlocked(w, result.Category)
		case nativeapps.WebviewPolicyWarn:
			i.audit(security.EventWebviewWarned, r, userAgent, string(result.Category))
			i.metrics.RecordWebviewOutcome(r.Context(), "warned", string(result.Category))
			setWarningHeaders(w.Header(), result.Category)
			ctx := context.WithValue(r.Context(), warningContextKey{}, Warning{Category: result.Category})
			next.ServeHTTP(w, r.WithContext(ctx))
		default:
			// Unrecognized policy values degrade to warn-equivalent
			// visibility without blocking.
			i.logger.Warn("unrecognized webview policy, treating as warn",
				"policy", string(i.cfg.Webview.Policy))
			setWarningHeaders(w.Header(), result.Category)
			next.ServeHTTP(w, r)
		}
	})
}

// isAuthorizationRequest recognizes OAuth authorization attempts: the
// configured authorization endpoint path, or the presence of any
// authorization-shaped parameter.
func (i *Interceptor) isAuthorizationRequest(r *http.Request) bool {
	if r.URL.Path == i.cfg.Webview.AuthorizationPath {
		return true
	}

	query := r.URL.Query()
	for _, param := range []string{"response_type", "client_id", "redirect_uri", "scope"} {
		if query.Has(param) {
			return true
		}
	}

	if r.Method == http.MethodPost &&
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err == nil {
			for _, param := range []string{"response_type", "client_id", "redirect_uri", "scope"} {
				if r.PostForm.Has(param) {
					return true
				}
			}
		}
	}

	return false
}

// writeBlocked short-circuits the pipeline with the structured rejection.
func (i *Interceptor) writeBlocked(w http.ResponseWriter, category Category) {
	security.SetResponseHardeningHeaders(w)
	setWarningHeaders(w.Header(), category)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	resp := ErrorResponse{
		Error:            ErrorCodeBlocked,
		ErrorDescription: "this authorization request arrived through an embedded webview, which is not permitted for OAuth flows",
		Recommendation:   DeveloperMessage(category),
		Reference:        rfcReference,
		Message:          i.cfg.Webview.CustomMessage,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		i.logger.Error("failed to encode webview block response", "error", err)
	}
}

// setWarningHeaders sets the full warning header surface.
func setWarningHeaders(h http.Header, category Category) {
	h.Set(HeaderSecurityWarning, securityWarningValue)
	h.Set(HeaderCategory, string(category))
	h.Set(HeaderRecommendation, recommendationValue)
	h.Set(HeaderDeveloperMessage, DeveloperMessage(category))
	h.Set(HeaderReference, rfcReference)
}

// audit logs the decision, rate-limited per source address so hostile
// automation cannot flood the audit stream.
func (i *Interceptor) audit(eventType string, r *http.Request, userAgent, category string) {
	ip := clientIP(r)
	if !i.limiter.Allow(ip) {
		return
	}
	i.auditor.LogWebviewDecision(eventType, ip, userAgent, category)
}

// clientIP extracts the direct connection address. Proxy headers are
// deliberately not consulted here; the surrounding server decides what
// to trust and can rewrite RemoteAddr accordingly.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
