package trading

import (
	"sync"
	"time"
)

// TradeHoldCache caches GetTradeHoldDuration results per counterparty for a
// bounded TTL so a pass with several simultaneous offers from the same
// counterparty doesn't re-query their hold duration for every offer. It
// never changes a decision: a cache miss or expiry simply falls through to
// a fresh query.
type TradeHoldCache struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[uint64]tradeHoldCacheEntry
}

type tradeHoldCacheEntry struct {
	duration *uint8
	expires  time.Time
}

// NewTradeHoldCache creates a cache with the given TTL.
func NewTradeHoldCache(ttl time.Duration) *TradeHoldCache {
	return &TradeHoldCache{ttl: ttl, entries: make(map[uint64]tradeHoldCacheEntry)}
}

// Get returns a cached hold duration for otherSteamID64, if present and not
// expired.
func (c *TradeHoldCache) Get(otherSteamID64 uint64) (*uint8, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[otherSteamID64]
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.duration, true
}

// Set stores a hold duration result for otherSteamID64.
func (c *TradeHoldCache) Set(otherSteamID64 uint64, duration *uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[otherSteamID64] = tradeHoldCacheEntry{duration: duration, expires: time.Now().Add(c.ttl)}
}
