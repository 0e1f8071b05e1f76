package runner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/bobler41/EV-Parking-Simulation/internal/simulation"
)

type cacheEntry struct {
	out       *simulation.Output
	expiresAt time.Time
}

// OutputCache keeps engine outputs by input. The engine is deterministic, so a
// repeated input and seed yields the cached output. A nil cache is disabled.
// Cached outputs are shared and must not be modified.
type OutputCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewOutputCache returns a cache with the given TTL, or nil when ttl <= 0.
func NewOutputCache(ttl time.Duration) *OutputCache {
	if ttl <= 0 {
		return nil
	}
	return &OutputCache{store: make(map[string]cacheEntry), ttl: ttl, now: time.Now}
}

// Get retrieves a cached output if available and not expired.
func (c *OutputCache) Get(in simulation.Input) (*simulation.Output, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.store[CacheKey(in)]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.out, true
}

func (c *OutputCache) Set(in simulation.Input, out *simulation.Output) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[CacheKey(in)] = cacheEntry{out: out, expiresAt: c.now().Add(c.ttl)}
}

func (c *OutputCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Prune removes expired entries.
func (c *OutputCache) Prune() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
		}
	}
}

// RunPruner prunes every interval until ctx is done.
func (c *OutputCache) RunPruner(ctx context.Context, interval time.Duration) {
	if c == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Prune()
		}
	}
}

// CacheKey hashes every field that influences the engine output.
func CacheKey(in simulation.Input) string {
	keyStr := fmt.Sprintf("%d:%g:%g:%g:%d",
		in.ChargePoints,
		in.ArrivalMultiplier,
		in.ConsumptionKWhPer100km,
		in.ChargerPowerKW,
		in.Seed,
	)
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}
