package spectre

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is a process-local, single-slot memo of the most recently derived
// UserKey, keyed by (name, secret) (spec.md §4.5). It is deliberately not
// a package-level singleton: spec.md §9 calls for the cache to be an
// explicit value threaded through the interactive layer so independent
// sessions (and tests) do not share state.
//
// Holding only one key at a time is deliberate: widening the slot to hold
// multiple user keys would widen the blast radius of a memory disclosure.
type Cache struct {
	mu     sync.Mutex
	name   string
	secret string
	key    *UserKey

	group singleflight.Group
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get returns the UserKey for (name, secret, algorithm), computing it on a
// cache miss. Concurrent calls for the same (name, secret) collapse into a
// single scrypt computation via singleflight, satisfying spec.md §4.5's
// "accepts a single in-flight request at a time" for same-key requests.
//
// The returned UserKey is owned by the cache until the next miss evicts
// it; callers must not call Zero on it directly. Use Clear or a
// subsequent Get with different inputs to retire it, which zeroes the
// outgoing key automatically.
func (c *Cache) Get(name, secret string, algorithm Algorithm) (*UserKey, error) {
	c.mu.Lock()
	if c.key != nil && c.name == name && c.secret == secret {
		key := c.key
		c.mu.Unlock()
		return key, nil
	}
	c.mu.Unlock()

	flightKey := name + "\x00" + secret
	result, err, _ := c.group.Do(flightKey, func() (interface{}, error) {
		return DeriveUserKey(name, secret, algorithm)
	})
	if err != nil {
		return nil, err
	}
	key := result.(*UserKey)

	c.mu.Lock()
	defer c.mu.Unlock()
	// A concurrent caller with the same (name, secret) may already have
	// installed this pair while we awaited singleflight; in that case keep
	// its key. Otherwise ours replaces whatever the slot holds, as on any
	// miss.
	if c.key == nil || c.name != name || c.secret != secret {
		old := c.key
		c.name, c.secret, c.key = name, secret, key
		if old != nil {
			old.Zero()
		}
	}
	return c.key, nil
}

// Clear evicts and zeroes the cached key, if any.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.key != nil {
		c.key.Zero()
	}
	c.name, c.secret, c.key = "", "", nil
}

// install stores a precomputed key (e.g. one returned by the background
// worker) into the slot, bypassing singleflight since no local scrypt call
// is involved. Used by Coordinator.
func (c *Cache) install(name, secret string, key *UserKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.key == nil || c.name != name || c.secret != secret {
		old := c.key
		c.name, c.secret, c.key = name, secret, key
		if old != nil {
			old.Zero()
		}
	}
}
