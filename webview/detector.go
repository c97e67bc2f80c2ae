package webview

import (
	"container/list"
	"crypto/sha256"
	"log/slog"
	"regexp"
	"sync"

	nativeapps "github.com/pressline/oauth-nativeapps"
)

// DetectionResult is the outcome of inspecting one user agent string.
type DetectionResult struct {
	// IsWebview is true when the user agent matched an embedded-browser
	// signature and was not whitelisted.
	IsWebview bool

	// Category attributes the match when IsWebview is true.
	Category Category

	// Whitelisted is true when the user agent matched an operator
	// whitelist pattern; such requests always proceed unmodified.
	Whitelisted bool
}

// cacheEntry pairs one user-agent hash with its detection result.
type cacheEntry struct {
	key    [sha256.Size]byte
	result DetectionResult
}

// DefaultDetectionCacheMaxEntries bounds the number of cached user-agent
// results so hostile automation rotating user agents cannot exhaust
// memory.
const DefaultDetectionCacheMaxEntries = 10000

// Detector matches user agent strings against the layered signature
// sets. It owns an advisory per-user-agent result cache keyed by UA hash
// (user agents repeat heavily within one deployment, and hashing keeps
// raw device fingerprints out of the key set), capped with LRU eviction.
// Safe for concurrent use.
type Detector struct {
	whitelist []*regexp.Regexp
	custom    []*regexp.Regexp
	logger    *slog.Logger

	mu         sync.Mutex
	cache      map[[sha256.Size]byte]*list.Element
	lruList    *list.List
	maxEntries int
}

// NewDetector compiles the operator whitelist and custom patterns from
// the webview configuration. Patterns that fail to compile are skipped
// with a logged warning rather than aborting: ConfigurationValidator is
// the activation gate, and a detector must still come up behind a
// degraded configuration.
func NewDetector(cfg *nativeapps.WebviewConfig, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		whitelist:  compileLenient(cfg.Whitelist, "webview_whitelist", logger),
		custom:     compileLenient(cfg.CustomPatterns, "webview_custom_patterns", logger),
		logger:     logger,
		cache:      make(map[[sha256.Size]byte]*list.Element),
		lruList:    list.New(),
		maxEntries: DefaultDetectionCacheMaxEntries,
	}
}

func compileLenient(patterns []string, field string, logger *slog.Logger) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			logger.Warn("skipping invalid pattern",
				"field", field,
				"index", i,
				"pattern", p,
				"error", err)
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

// Detect classifies a user agent string. The whitelist is checked first
// and unconditionally allows matching user agents regardless of any
// signature match.
func (d *Detector) Detect(userAgent string) DetectionResult {
	if userAgent == "" {
		return DetectionResult{}
	}

	key := sha256.Sum256([]byte(userAgent))
	d.mu.Lock()
	if elem, ok := d.cache[key]; ok {
		d.lruList.MoveToFront(elem)
		result := elem.Value.(*cacheEntry).result
		d.mu.Unlock()
		return result
	}
	d.mu.Unlock()

	result := d.detect(userAgent)

	d.mu.Lock()
	if _, ok := d.cache[key]; !ok {
		if d.maxEntries > 0 && len(d.cache) >= d.maxEntries {
			d.evictLRU()
		}
		d.cache[key] = d.lruList.PushFront(&cacheEntry{key: key, result: result})
	}
	d.mu.Unlock()

	return result
}

// evictLRU removes the least recently used entry. Caller holds the lock.
func (d *Detector) evictLRU() {
	elem := d.lruList.Back()
	if elem == nil {
		return
	}
	delete(d.cache, elem.Value.(*cacheEntry).key)
	d.lruList.Remove(elem)
}

func (d *Detector) detect(userAgent string) DetectionResult {
	for _, re := range d.whitelist {
		if re.MatchString(userAgent) {
			return DetectionResult{Whitelisted: true}
		}
	}

	for _, re := range d.custom {
		if re.MatchString(userAgent) {
			return DetectionResult{IsWebview: true, Category: CategoryCustom}
		}
	}

	for _, set := range builtinSignatures {
		for _, re := range set.patterns {
			if re.MatchString(userAgent) {
				return DetectionResult{IsWebview: true, Category: set.category}
			}
		}
	}

	if isIOSContainer(userAgent) {
		return DetectionResult{IsWebview: true, Category: CategoryIOSNative}
	}

	return DetectionResult{}
}

// InvalidateCache drops every cached detection result, for use after a
// signature or whitelist configuration change.
func (d *Detector) InvalidateCache() {
	d.mu.Lock()
	d.cache = make(map[[sha256.Size]byte]*list.Element)
	d.lruList = list.New()
	d.mu.Unlock()
}

// CacheLen returns the number of cached detection results, for tests and
// metrics.
func (d *Detector) CacheLen() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cache)
}
