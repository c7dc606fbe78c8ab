package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/time/rate"
)

const (
	// MinPostInterval is the smallest accepted gap between two posts by one
	// user in one match.
	MinPostInterval = time.Second
	// IdleTTL is how long a record outlives its last accepted post.
	IdleTTL = 5 * time.Second
)

// Limiter throttles posting per (match, user) pair. A rejected attempt does
// not push back the next allowed post.
type Limiter interface {
	Allow(ctx context.Context, matchID, userID int64) bool
}

func key(matchID, userID int64) string {
	return fmt.Sprintf("%d:%d", matchID, userID)
}

type keyLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per key in process.
type MemoryLimiter struct {
	clock clock.Clock
	mu    sync.Mutex
	m     map[string]*keyLimiter
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryLimiter starts a background sweeper that forgets idle keys.
// Call Stop to release it.
func NewMemoryLimiter(clk clock.Clock) *MemoryLimiter {
	l := &MemoryLimiter{
		clock: clk,
		m:     make(map[string]*keyLimiter),
		stop:  make(chan struct{}),
	}
	go l.gc()
	return l
}

func (l *MemoryLimiter) Allow(ctx context.Context, matchID, userID int64) bool {
	now := l.clock.Now()
	k := key(matchID, userID)

	l.mu.Lock()
	defer l.mu.Unlock()

	kl, ok := l.m[k]
	if !ok {
		kl = &keyLimiter{lim: rate.NewLimiter(rate.Every(MinPostInterval), 1)}
		l.m[k] = kl
	}
	if !kl.lim.AllowN(now, 1) {
		return false
	}
	kl.lastSeen = now
	return true
}

// Len reports how many keys are currently remembered.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

func (l *MemoryLimiter) evictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, v := range l.m {
		if now.Sub(v.lastSeen) >= IdleTTL {
			delete(l.m, k)
		}
	}
}

func (l *MemoryLimiter) gc() {
	ticker := l.clock.Ticker(IdleTTL)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.evictIdle(l.clock.Now())
		}
	}
}

func (l *MemoryLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
