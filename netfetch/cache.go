package netfetch

import (
	"strconv"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const (
	defaultTTL  = 5 * time.Minute
	maxBodySize = 5 << 20 // 5 MiB
)

// cacheEntry is one cached response plus the bookkeeping needed for TTL
// expiry and conditional-GET revalidation, grounded on original_source's
// http_client.rs cache record (spec §5: "URL -> cached response with TTL,
// ETag, Last-Modified").
type cacheEntry struct {
	resp         *Response
	etag         string
	lastModified string
	expiresAt    time.Time
}

// Cache is a reader/writer-locked LRU of HTTP responses; each Client owns
// its own Cache.
// The single-threaded core only ever touches it from the caller thread
// (spec §5); the mutex models the observable API's atomicity rather than
// guarding against real contention, the same rationale js/host.storage.go
// uses to justify dropping the original's lazy_static Mutex instead.
type Cache struct {
	mu  sync.RWMutex
	lru *lru.Cache
}

func NewCache(size int) *Cache {
	c, _ := lru.New(size) // size > 0 is always passed by NewClient; lru.New only errors on size <= 0
	return &Cache{lru: c}
}

// Lookup returns a cached response if present and still within its TTL.
func (c *Cache) Lookup(url string) (*Response, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.lru.Get(url)
	if !ok {
		return nil, false
	}
	entry := v.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.resp, true
}

// entryFor returns the raw entry (even if stale) so Client.Get can attach
// If-None-Match/If-Modified-Since for conditional-GET revalidation.
func (c *Cache) entryFor(url string) *cacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.lru.Get(url)
	if !ok {
		return nil
	}
	return v.(*cacheEntry)
}

// Revalidate refreshes a stale entry's expiry after a 304 response and
// returns the still-valid cached body.
func (c *Cache) Revalidate(url string) *Response {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(url)
	if !ok {
		return nil
	}
	entry := v.(*cacheEntry)
	entry.expiresAt = time.Now().Add(defaultTTL)
	return entry.resp
}

// Store records resp under url, honoring Cache-Control: no-store/no-cache
// (uncacheable), a max-age override of the default 5-minute TTL, and the
// 5 MiB body-size ceiling — all spec §5 requirements.
func (c *Cache) Store(url string, resp *Response) {
	if len(resp.Body) > maxBodySize {
		return
	}
	cacheControl := strings.ToLower(resp.Headers.Get("Cache-Control"))
	if strings.Contains(cacheControl, "no-store") || strings.Contains(cacheControl, "no-cache") {
		return
	}
	ttl := defaultTTL
	if idx := strings.Index(cacheControl, "max-age="); idx >= 0 {
		rest := cacheControl[idx+len("max-age="):]
		end := 0
		for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
			end++
		}
		if end > 0 {
			if secs, err := strconv.Atoi(rest[:end]); err == nil {
				ttl = time.Duration(secs) * time.Second
			}
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(url, &cacheEntry{
		resp:         resp,
		etag:         resp.Headers.Get("ETag"),
		lastModified: resp.Headers.Get("Last-Modified"),
		expiresAt:    time.Now().Add(ttl),
	})
}
