package security

import (
	"container/list"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// decisionLimiterEntry tracks one identifier's limiter and last access.
type decisionLimiterEntry struct {
	identifier string
	limiter    *rate.Limiter
	lastAccess time.Time
}

// DecisionLimiter rate-limits repeated security decisions per identifier
// (typically a client IP) using a token bucket with LRU eviction. The
// interceptor uses it to damp audit log floods from hostile automation
// that keeps retrying blocked webview requests. It is advisory: callers
// must never let it change an allow/warn/block outcome, only whether the
// outcome is logged again.
type DecisionLimiter struct {
	limiters   map[string]*list.Element
	lruList    *list.List
	mu         sync.Mutex
	rate       rate.Limit
	burst      int
	maxEntries int
	logger     *slog.Logger
}

// DefaultDecisionLimiterMaxEntries bounds the number of identifiers
// tracked at once so a scan across many source IPs cannot exhaust memory.
const DefaultDecisionLimiterMaxEntries = 10000

// NewDecisionLimiter creates a limiter allowing eventsPerMinute decisions
// per identifier with the given burst.
func NewDecisionLimiter(eventsPerMinute, burst int, logger *slog.Logger) *DecisionLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecisionLimiter{
		limiters:   make(map[string]*list.Element),
		lruList:    list.New(),
		rate:       rate.Limit(float64(eventsPerMinute) / 60.0),
		burst:      burst,
		maxEntries: DefaultDecisionLimiterMaxEntries,
		logger:     logger,
	}
}

// Allow reports whether another decision for identifier may be recorded.
// A nil limiter always allows.
func (dl *DecisionLimiter) Allow(identifier string) bool {
	if dl == nil {
		return true
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()

	if elem, exists := dl.limiters[identifier]; exists {
		dl.lruList.MoveToFront(elem)
		entry := elem.Value.(*decisionLimiterEntry)
		entry.lastAccess = time.Now()
		return entry.limiter.Allow()
	}

	if dl.maxEntries > 0 && len(dl.limiters) >= dl.maxEntries {
		dl.evictLRU()
	}

	entry := &decisionLimiterEntry{
		identifier: identifier,
		limiter:    rate.NewLimiter(dl.rate, dl.burst),
		lastAccess: time.Now(),
	}
	dl.limiters[identifier] = dl.lruList.PushFront(entry)

	return entry.limiter.Allow()
}

// evictLRU removes the least recently used entry. Caller holds the lock.
func (dl *DecisionLimiter) evictLRU() {
	elem := dl.lruList.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*decisionLimiterEntry)
	delete(dl.limiters, entry.identifier)
	dl.lruList.Remove(elem)

	dl.logger.Debug("decision limiter LRU eviction",
		"identifier", entry.identifier,
		"current_entries", len(dl.limiters))
}

// Len returns the number of tracked identifiers, for tests and metrics.
func (dl *DecisionLimiter) Len() int {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	return len(dl.limiters)
}
