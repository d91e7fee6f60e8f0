package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"scran/internal/services/extract/domain"
)

// cache is a TTL map keyed by content hash. Posts get rescraped and retried;
// an identical segment on the same reference day must not cost a second
// collaborator call
type cache struct {
	mu   sync.Mutex
	ttl  time.Duration
	max  int
	data map[string]cacheEntry
	now  func() time.Time // seam for tests
}

type cacheEntry struct {
	res domain.CollabResult
	at  time.Time
}

func newCache(ttl time.Duration, max int) *cache {
	if max <= 0 {
		max = 4096
	}
	return &cache{ttl: ttl, max: max, data: make(map[string]cacheEntry, 64), now: time.Now}
}

// key hashes the full request identity: text, image refs, and the reference
// date (relative expressions like "tomorrow" resolve differently per day)
func key(text string, refs []string, ref time.Time) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(refs, ",")))
	h.Write([]byte{0})
	h.Write([]byte(ref.Format("2006-01-02")))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *cache) get(k string) (domain.CollabResult, bool) {
	if c == nil {
		return domain.CollabResult{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.data[k]
	if !ok {
		return domain.CollabResult{}, false
	}
	if c.ttl > 0 && c.now().Sub(e.at) > c.ttl {
		delete(c.data, k)
		return domain.CollabResult{}, false
	}
	return e.res, true
}

func (c *cache) put(k string, res domain.CollabResult) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.data) >= c.max {
		// drop the stalest entry; precision doesn't matter at this size
		var oldest string
		var oldestAt time.Time
		for kk, e := range c.data {
			if oldest == "" || e.at.Before(oldestAt) {
				oldest, oldestAt = kk, e.at
			}
		}
		delete(c.data, oldest)
	}
	c.data[k] = cacheEntry{res: res, at: c.now()}
}
