package httpauth

import (
	"sync"
	"time"
)

// DefaultCacheExpiration is how long a cached credential verification is
// trusted before it must be re-checked against the UserStore, and also
// the sweep interval used to evict stale entries.
const DefaultCacheExpiration = 300 * time.Second

type cacheEntry struct {
	user     string
	lastUsed time.Time
}

// credentialCache memoizes "this opaque base64 blob verified as user X"
// so repeated requests from the same client don't re-run bcrypt on every
// call. Sized via len(entries) directly rather than a separately
// maintained counter, so the accounting cannot drift the way the
// original cache's decrement-only counter could (see DESIGN.md).
type credentialCache struct {
	mu          sync.Mutex
	entries     map[string]cacheEntry
	expiration  time.Duration
	lastCleanup time.Time
}

func newCredentialCache(expiration time.Duration) *credentialCache {
	if expiration <= 0 {
		expiration = DefaultCacheExpiration
	}
	return &credentialCache{
		entries:     make(map[string]cacheEntry),
		expiration:  expiration,
		lastCleanup: time.Now(),
	}
}

// lookup returns the cached user for blob if present and not expired.
func (c *credentialCache) lookup(blob string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()

	e, ok := c.entries[blob]
	if !ok {
		return "", false
	}
	if time.Since(e.lastUsed) > c.expiration {
		delete(c.entries, blob)
		return "", false
	}
	e.lastUsed = time.Now()
	c.entries[blob] = e
	return e.user, true
}

// invalidate removes blob's cached entry, if any.
func (c *credentialCache) invalidate(blob string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, blob)
}

// store records that blob verified successfully as user.
func (c *credentialCache) store(blob, user string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[blob] = cacheEntry{user: user, lastUsed: time.Now()}
}

// size reports the current number of cached entries.
func (c *credentialCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// sweepLocked evicts every entry older than expiration, run lazily at
// most once per expiration window rather than on a background timer.
// Caller must hold c.mu.
func (c *credentialCache) sweepLocked() {
	if time.Since(c.lastCleanup) < c.expiration {
		return
	}
	now := time.Now()
	for blob, e := range c.entries {
		if now.Sub(e.lastUsed) > c.expiration {
			delete(c.entries, blob)
		}
	}
	c.lastCleanup = now
}
