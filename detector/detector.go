package detector

import (
	"context"
	"log/slog"
	"strings"

	nativeapps "github.com/pressline/oauth-nativeapps"
	"github.com/pressline/oauth-nativeapps/instrumentation"
	"github.com/pressline/oauth-nativeapps/redirect"
	"github.com/pressline/oauth-nativeapps/registry"
	"github.com/pressline/oauth-nativeapps/security"
)

// Scoring weights and sub-weights. These are fixed product heuristics,
// kept as named constants so tuning happens in exactly one place.
const (
	// WeightRedirectURIs is the share contributed by redirect URI
	// convention analysis.
	WeightRedirectURIs = 0.4

	// WeightGrantConfig is the share contributed by the client's grant
	// posture (public clients are structurally native-leaning).
	WeightGrantConfig = 0.3

	// WeightClientConfig is the share contributed by client
	// configuration heuristics.
	WeightClientConfig = 0.3

	// Within WeightClientConfig: half for being public, a quarter for
	// the third-party flag, the remainder for the name heuristic.
	configPublicShare     = 0.5
	configThirdPartyShare = 0.25
	configNameShare       = 0.25

	// neutralURIScore is used when no registered URI shows any
	// recognizable native or web pattern.
	neutralURIScore = 0.5
)

// nativeNameHints are label substrings suggesting installed software.
var nativeNameHints = []string{"mobile", "ios", "android", "desktop", "native", "cli"}

// Detector computes native-client classifications. All methods are safe
// for concurrent use; the only mutable state is the advisory cache.
type Detector struct {
	cfg     *nativeapps.Config
	logger  *slog.Logger
	auditor *security.Auditor
	cache   *Cache
	metrics *instrumentation.Metrics
}

// New creates a detector over a policy configuration snapshot. A nil
// cache disables caching; logger nil falls back to slog.Default().
func New(cfg *nativeapps.Config, logger *slog.Logger, auditor *security.Auditor, cache *Cache) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		cfg:     cfg,
		logger:  logger,
		auditor: auditor,
		cache:   cache,
	}
}

// WithMetrics attaches the metric instruments; nil disables recording.
func (d *Detector) WithMetrics(metrics *instrumentation.Metrics) *Detector {
	d.metrics = metrics
	return d
}

// Classify produces the ClassificationResult for a client: the
// native/web decision, its confidence, the resolved enhanced-PKCE
// requirement, and the ordered reasons behind the score.
func (d *Detector) Classify(client *registry.Client) nativeapps.ClassificationResult {
	if cached, ok := d.cache.Get(client.ClientID); ok {
		d.metrics.RecordClassificationCacheHit(context.Background())
		return cached
	}

	confidence, reasons := d.score(client)
	isNative := confidence >= d.cfg.DetectionSensitivity

	override := d.cfg.OverrideFor(client.ClientID)
	result := nativeapps.ClassificationResult{
		IsNative:   isNative,
		Confidence: confidence,
		RequiresEnhancedPKCE: nativeapps.EffectivePKCE(
			d.cfg.EnhancedPKCE, override.EnhancedPKCE, isNative, d.logger),
		Reasons: reasons,
	}

	overridden := client.NativeOverride == nativeapps.ClientKindNative ||
		client.NativeOverride == nativeapps.ClientKindWeb
	d.metrics.RecordClassification(context.Background(), result.IsNative, overridden)

	if d.cfg.LogDecisions {
		d.auditor.LogClientClassified(client.ClientID, result.IsNative, result.Confidence, result.Reasons)
		d.logger.Debug("classified client",
			"client_id", client.ClientID,
			"is_native", result.IsNative,
			"confidence", result.Confidence)
	}

	d.cache.Put(client.ClientID, result)
	return result
}

// score computes the confidence in [0, 1] and the ordered reasons.
func (d *Detector) score(client *registry.Client) (float64, []string) {
	// A manual override wins outright; the URI and configuration
	// signals are not even consulted.
	switch client.NativeOverride {
	case nativeapps.ClientKindNative:
		return 1.0, []string{"manual override: native"}
	case nativeapps.ClientKindWeb:
		return 0.0, []string{"manual override: web"}
	}

	var reasons []string

	uriScore := scoreRedirectURIs(client.RedirectURIs)
	switch {
	case uriScore >= 0.8:
		reasons = append(reasons, "strong native redirect URI patterns")
	case uriScore > 0.5:
		reasons = append(reasons, "some native redirect URI patterns")
	case uriScore == neutralURIScore:
		reasons = append(reasons, "no recognizable redirect URI patterns")
	default:
		reasons = append(reasons, "web-based redirect URI patterns")
	}

	grantScore := 0.0
	if !client.Confidential {
		grantScore = 1.0
		reasons = append(reasons, "public client (cannot hold a secret)")
	} else {
		reasons = append(reasons, "confidential client (holds a secret)")
	}

	configScore := 0.0
	if !client.Confidential {
		configScore += configPublicShare
	}
	if client.ThirdParty {
		configScore += configThirdPartyShare
		reasons = append(reasons, "third-party client")
	}
	if labelSuggestsNative(client.Label) {
		configScore += configNameShare
		reasons = append(reasons, "client label suggests installed software")
	}

	score := uriScore*WeightRedirectURIs + grantScore*WeightGrantConfig + configScore*WeightClientConfig
	return clamp01(score), reasons
}

// scoreRedirectURIs classifies every registered URI and returns the
// native ratio: 1.0 all native, 0.0 all web, the ratio when mixed, and
// the neutral 0.5 when nothing is recognizable.
func scoreRedirectURIs(uris []string) float64 {
	nativeCount, webCount := 0, 0
	for _, uri := range uris {
		switch redirect.Classify(uri) {
		case redirect.ClassNative:
			nativeCount++
		case redirect.ClassWeb:
			webCount++
		}
	}

	total := nativeCount + webCount
	if total == 0 {
		return neutralURIScore
	}
	return float64(nativeCount) / float64(total)
}

// labelSuggestsNative applies the name-pattern heuristic to the client's
// display label.
func labelSuggestsNative(label string) bool {
	lower := strings.ToLower(label)
	for _, hint := range nativeNameHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// RequiresEnhancedPKCE resolves the enhanced-PKCE decision for a client:
// per-client override, then the global mode, then the classification
// outcome.
func (d *Detector) RequiresEnhancedPKCE(client *registry.Client) bool {
	return d.Classify(client).RequiresEnhancedPKCE
}

// AllowancesFor resolves the custom-scheme and loopback allowances for a
// client through the override chain, for use with
// redirect.Validator.WithAllowances.
func (d *Detector) AllowancesFor(client *registry.Client) redirect.Allowances {
	isNative := d.Classify(client).IsNative
	override := d.cfg.OverrideFor(client.ClientID)
	return redirect.Allowances{
		CustomSchemes: nativeapps.EffectiveKind(
			d.cfg.CustomSchemes, override.CustomSchemes, isNative, "custom_uri_schemes_allowed", d.logger),
		Loopback: nativeapps.EffectiveKind(
			d.cfg.LoopbackRedirects, override.LoopbackRedirects, isNative, "loopback_redirects_allowed", d.logger),
	}
}

// InvalidateClient drops the cached classification for one client.
func (d *Detector) InvalidateClient(clientID string) {
	d.cache.Invalidate(clientID)
}

// InvalidateAll drops every cached classification.
func (d *Detector) InvalidateAll() {
	d.cache.InvalidateAll()
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
