package spectre

import (
	"sync"
	"time"
)

// Validity gate thresholds (spec.md §4.5): below these lengths no
// derivation is attempted.
const (
	minNameLen   = 3
	minSecretLen = 4
	minSiteLen   = 3
)

// precomputeDebounce coalesces rapid focus changes before a precompute is
// even considered. Once a precompute passes it with valid inputs, the
// "computing" indicator lights up and precomputeSettleDelay is a further
// short pause before the derivation starts. Both are carried from the
// reference UI's timings (original_source/spectre-app/src/main.rs:
// sleep(Duration::from_millis(100)) then sleep(Duration::from_millis(50))).
const (
	precomputeDebounce    = 100 * time.Millisecond
	precomputeSettleDelay = 50 * time.Millisecond
)

// ValidPrecomputeInputs reports whether name and secret meet the §4.5
// thresholds for starting a background derivation.
func ValidPrecomputeInputs(name, secret string) bool {
	return len(name) >= minNameLen && len(secret) >= minSecretLen
}

// ValidGenerationInputs reports whether name, secret, and site all meet
// the §4.5 thresholds for a full credential generation.
func ValidGenerationInputs(name, secret, site string) bool {
	return ValidPrecomputeInputs(name, secret) && len(site) >= minSiteLen
}

// WorkerFunc dispatches a generate_key request to an external compute
// context (thread, worker, or process) and returns its response envelope.
// A non-nil error means the transport itself failed (channel error or
// timeout), not that the derivation failed — a transport failure triggers
// the coordinator's calling-thread fallback (spec.md §4.5).
type WorkerFunc func(req WorkerMessage) (WorkerMessage, error)

// Coordinator runs the debounced, sequence-stamped background
// precomputation policy of spec.md §4.5, on top of a Cache. It accepts a
// single in-flight request at a time per (name, secret). A new trigger
// does not interrupt a derivation that is already running; an older
// trigger superseded during its debounce or settle delay returns without
// deriving. Only the most recently triggered request's completion is
// allowed to clear the "computing" indicator: a stale completion leaves
// the indicator alone, though the key it derived still goes into the
// Cache like any other derivation.
type Coordinator struct {
	cache      *Cache
	worker     WorkerFunc
	diagnostic func(error)

	mu        sync.Mutex
	seq       uint64
	computing bool
}

// NewCoordinator builds a Coordinator over cache. worker may be nil, in
// which case every derivation runs on the calling goroutine directly.
// diagnostic, if non-nil, receives worker transport failures for logging;
// it must never block.
func NewCoordinator(cache *Cache, worker WorkerFunc, diagnostic func(error)) *Coordinator {
	return &Coordinator{cache: cache, worker: worker, diagnostic: diagnostic}
}

// IsComputing reports the "computing" indicator. It is set once a
// precompute with valid inputs passes its debounce delay (it stays false
// during the debounce itself), and cleared only when the most recently
// triggered precompute finishes or fails the validity gate.
func (c *Coordinator) IsComputing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.computing
}

// TriggerPrecompute schedules a debounced background derivation for
// (name, secret). Call this when the user leaves the name field, leaves
// the secret field, or enters the site field (spec.md §4.5's trigger
// policy). It returns immediately; the derivation (and any worker
// fallback) runs on a separate goroutine.
func (c *Coordinator) TriggerPrecompute(name, secret string, algorithm Algorithm) {
	c.mu.Lock()
	c.seq++
	mySeq := c.seq
	c.mu.Unlock()

	go c.runPrecompute(mySeq, name, secret, algorithm)
}

func (c *Coordinator) isCurrent(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq == c.seq
}

func (c *Coordinator) setComputing(v bool) {
	c.mu.Lock()
	c.computing = v
	c.mu.Unlock()
}

func (c *Coordinator) runPrecompute(mySeq uint64, name, secret string, algorithm Algorithm) {
	time.Sleep(precomputeDebounce)

	if !ValidPrecomputeInputs(name, secret) {
		if c.isCurrent(mySeq) {
			c.cache.Clear()
			c.setComputing(false)
		}
		return
	}

	if !c.isCurrent(mySeq) {
		return // superseded while we were debouncing
	}

	c.setComputing(true)
	time.Sleep(precomputeSettleDelay)

	if !c.isCurrent(mySeq) {
		return // superseded before we started the derivation; leave computing to the newer request
	}

	_, err := c.derive(name, secret, algorithm)
	if err != nil && c.diagnostic != nil {
		c.diagnostic(err)
	}

	if c.isCurrent(mySeq) {
		c.setComputing(false)
	}
	// A stale completion intentionally leaves the computing flag alone:
	// it belongs to whichever request is current now.
}

// derive attempts the worker path first (if configured), falling back to
// local computation when the worker call fails, returns a malformed
// key_result, or answers with key_error (spec.md §4.5). An invalid
// algorithm, or an error from the local derivation, is returned unchanged.
func (c *Coordinator) derive(name, secret string, algorithm Algorithm) (*UserKey, error) {
	if !algorithm.Valid() {
		return nil, InvalidAlgorithmError(algorithm)
	}
	if c.worker != nil {
		resp, transportErr := c.worker(NewGenerateKeyRequest(name, secret))
		if transportErr == nil {
			key, convErr := resp.ToUserKey()
			if convErr == nil {
				c.cache.install(name, secret, key)
				return key, nil
			}
			transportErr = convErr
		}
		if c.diagnostic != nil {
			c.diagnostic(wrapError("key_derivation_failed", "worker unavailable, falling back to local computation", transportErr))
		}
	}

	return c.cache.Get(name, secret, algorithm)
}

// RequestUserKey performs a synchronous derivation through the same
// worker-or-fallback path as the background precompute, for callers (the
// CLI) that need the key immediately rather than via a precompute
// trigger. It participates in the cache like any other path.
func (c *Coordinator) RequestUserKey(name, secret string, algorithm Algorithm) (*UserKey, error) {
	return c.derive(name, secret, algorithm)
}
