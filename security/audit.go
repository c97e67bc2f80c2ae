package security

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"
)

// Auditor handles security event logging with PII protection. User agent
// strings are hashed before logging (they can fingerprint individual
// devices); redirect URIs are sanitized by the caller before they reach
// the auditor.
type Auditor struct {
	logger  *slog.Logger
	enabled bool
}

// NewAuditor creates a new security auditor.
func NewAuditor(logger *slog.Logger, enabled bool) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{
		logger:  logger,
		enabled: enabled,
	}
}

// Event represents a security audit event.
type Event struct {
	Type      string
	ClientID  string
	IPAddress string
	Details   map[string]any
	Timestamp time.Time
}

// LogEvent logs a security event.
func (a *Auditor) LogEvent(event Event) {
	if a == nil || !a.enabled {
		return
	}

	event.Timestamp = time.Now()

	a.logger.Info("security_audit",
		"event_type", event.Type,
		"client_id", event.ClientID,
		"ip_address", event.IPAddress,
		"details", event.Details,
		"timestamp", event.Timestamp,
	)
}

// LogSecurityViolation logs a redirect URI rejection that indicates
// probable malicious intent (dangerous scheme, traversal, injection,
// spoofed hostname) rather than honest misconfiguration. These are
// emitted at a dedicated event type per category so operators can alert
// on them separately from ordinary rejections.
func (a *Auditor) LogSecurityViolation(eventType, clientID, sanitizedURI, reason string) {
	a.LogEvent(Event{
		Type:     eventType,
		ClientID: clientID,
		Details: map[string]any{
			"redirect_uri": sanitizedURI,
			"reason":       reason,
		},
	})
}

// LogRedirectURIRejected logs an ordinary (non-violation) redirect URI
// rejection.
func (a *Auditor) LogRedirectURIRejected(clientID, sanitizedURI, reason string) {
	a.LogEvent(Event{
		Type:     EventRedirectURIRejected,
		ClientID: clientID,
		Details: map[string]any{
			"redirect_uri": sanitizedURI,
			"reason":       reason,
		},
	})
}

// LogClientClassified logs a native/web classification decision.
func (a *Auditor) LogClientClassified(clientID string, isNative bool, confidence float64, reasons []string) {
	a.LogEvent(Event{
		Type:     EventClientClassified,
		ClientID: clientID,
		Details: map[string]any{
			"is_native":  isNative,
			"confidence": confidence,
			"reasons":    reasons,
		},
	})
}

// LogWebviewDecision logs a webview interception outcome. The user agent
// is hashed to avoid storing device fingerprints in logs.
func (a *Auditor) LogWebviewDecision(eventType, ipAddress, userAgent, category string) {
	a.LogEvent(Event{
		Type:      eventType,
		IPAddress: ipAddress,
		Details: map[string]any{
			"user_agent_hash": HashForLogging(userAgent),
			"category":        category,
		},
	})
}

// LogConfigurationRejected logs a failed configuration activation.
func (a *Auditor) LogConfigurationRejected(errorCount int) {
	a.LogEvent(Event{
		Type: EventConfigurationRejected,
		Details: map[string]any{
			"error_count": errorCount,
		},
	})
}

// HashForLogging creates a truncated SHA-256 hash of sensitive data for
// log correlation without storing the raw value.
func HashForLogging(sensitive string) string {
	if sensitive == "" {
		return "<empty>"
	}
	hash := sha256.Sum256([]byte(sensitive))
	return hex.EncodeToString(hash[:])[:16]
}
