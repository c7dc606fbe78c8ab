package cache

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"matchchat/internal/domain/entity"
)

type eligibilityKey struct {
	matchID int64
	userID  int64
}

type eligibilityEntry struct {
	side    entity.Side
	expires time.Time
}

// EligibilityCache remembers resolved sides for a short time. Entries may be
// dropped at any moment; a miss only costs one extra resolution.
type EligibilityCache struct {
	clock   clock.Clock
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[eligibilityKey]eligibilityEntry
}

func NewEligibilityCache(clk clock.Clock, ttl time.Duration) *EligibilityCache {
	return &EligibilityCache{
		clock:   clk,
		ttl:     ttl,
		entries: make(map[eligibilityKey]eligibilityEntry),
	}
}

func (c *EligibilityCache) Get(matchID, userID int64) (entity.Side, bool) {
	if c.ttl <= 0 {
		return entity.SideNone, false
	}

	c.mu.RLock()
	entry, ok := c.entries[eligibilityKey{matchID, userID}]
	c.mu.RUnlock()

	if !ok || !c.clock.Now().Before(entry.expires) {
		return entity.SideNone, false
	}
	return entry.side, true
}

func (c *EligibilityCache) Set(matchID, userID int64, side entity.Side) {
	if c.ttl <= 0 {
		return
	}

	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[eligibilityKey{matchID, userID}] = eligibilityEntry{side: side, expires: now.Add(c.ttl)}

	// opportunistic cleanup keeps the map bounded by recent traffic
	if len(c.entries)%256 == 0 {
		for k, e := range c.entries {
			if !now.Before(e.expires) {
				delete(c.entries, k)
			}
		}
	}
}

// InvalidateMatch drops every cached decision for a match.
func (c *EligibilityCache) InvalidateMatch(matchID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.matchID == matchID {
			delete(c.entries, k)
		}
	}
}

func (c *EligibilityCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
