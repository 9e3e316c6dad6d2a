// Package cache provides an expiring in-memory cache for rendered pages
package cache

import (
	"fmt"
	"sync"
	"time"
)

// CachedPage holds one rendered HTML page
type CachedPage struct {
	mux       sync.RWMutex
	Body      []byte
	CreatedAt time.Time
	LastUsed  time.Time
}

// PageCache caches rendered gallery pages keyed by route. The dataset never
// changes while the process runs, so entries only expire to bound memory,
// not for correctness.
type PageCache struct {
	cache       map[string]*CachedPage
	mutex       sync.RWMutex
	maxEntries  int
	maxAge      time.Duration
	cleanupTick time.Duration
	stopCleanup chan bool
	countermux  sync.RWMutex
	cachedSize  int64
	hits        int64
	misses      int64
}

// NewPageCache creates a page cache with the given limits and starts its
// cleanup goroutine. Call Stop on shutdown.
func NewPageCache(maxEntries int, maxAge time.Duration) *PageCache {
	pc := &PageCache{
		cache:       make(map[string]*CachedPage),
		maxEntries:  maxEntries,
		maxAge:      maxAge,
		cleanupTick: 1 * time.Minute,
		stopCleanup: make(chan bool),
	}

	go pc.cleanupLoop()

	return pc
}

// Get returns the cached page body for key, or false on a miss
func (pc *PageCache) Get(key string) ([]byte, bool) {
	pc.mutex.RLock()
	page, exists := pc.cache[key]
	pc.mutex.RUnlock()

	if !exists {
		pc.countermux.Lock()
		pc.misses++
		pc.countermux.Unlock()
		return nil, false
	}

	pc.countermux.Lock()
	pc.hits++
	pc.countermux.Unlock()

	page.mux.Lock()
	page.LastUsed = time.Now()
	body := page.Body
	page.mux.Unlock()

	return body, true
}

// Set stores a rendered page body under key
func (pc *PageCache) Set(key string, body []byte) {
	now := time.Now()

	pc.mutex.Lock()
	if len(pc.cache) >= pc.maxEntries {
		pc.evictOldestLocked()
	}
	page, exists := pc.cache[key]
	if !exists {
		page = &CachedPage{CreatedAt: now}
		pc.cache[key] = page
	}
	pc.mutex.Unlock()

	page.mux.Lock()
	oldSize := int64(len(page.Body))
	page.Body = body
	page.LastUsed = now
	page.mux.Unlock()

	pc.countermux.Lock()
	pc.cachedSize += int64(len(body)) - oldSize
	pc.countermux.Unlock()
}

// Clear removes all entries
func (pc *PageCache) Clear() {
	pc.mutex.Lock()
	pc.cache = make(map[string]*CachedPage)
	pc.mutex.Unlock()

	pc.countermux.Lock()
	pc.cachedSize = 0
	pc.countermux.Unlock()
}

// GetCachedSize returns the current cache size in bytes
func (pc *PageCache) GetCachedSize() int64 {
	pc.countermux.RLock()
	defer pc.countermux.RUnlock()
	return pc.cachedSize
}

// GetCachedSizeHuman returns the cache size formatted for humans
func (pc *PageCache) GetCachedSizeHuman() string {
	size := pc.GetCachedSize()
	if size < 1024 {
		return fmt.Sprintf("%d bytes", size)
	}
	if size < 1024*1024 {
		return fmt.Sprintf("%.2f KB", float64(size)/1024.0)
	}
	return fmt.Sprintf("%.2f MB", float64(size)/(1024.0*1024.0))
}

// Stats returns cache statistics for the debug endpoint
func (pc *PageCache) Stats() map[string]interface{} {
	pc.mutex.RLock()
	entries := len(pc.cache)
	pc.mutex.RUnlock()

	pc.countermux.RLock()
	hits := pc.hits
	misses := pc.misses
	size := pc.cachedSize
	pc.countermux.RUnlock()

	totalRequests := hits + misses
	hitRate := 0.0
	if totalRequests > 0 {
		hitRate = float64(hits) / float64(totalRequests) * 100
	}

	return map[string]interface{}{
		"entries":     entries,
		"max_entries": pc.maxEntries,
		"max_age":     pc.maxAge.String(),
		"size_bytes":  size,
		"hits":        hits,
		"misses":      misses,
		"hit_rate":    hitRate,
	}
}

// Stop shuts down the cleanup goroutine
func (pc *PageCache) Stop() {
	close(pc.stopCleanup)
}

// evictOldestLocked removes the least recently used entry.
// Caller holds pc.mutex.
func (pc *PageCache) evictOldestLocked() {
	var oldestKey string
	var oldestTime time.Time

	for key, page := range pc.cache {
		page.mux.RLock()
		lastUsed := page.LastUsed
		page.mux.RUnlock()
		if oldestKey == "" || lastUsed.Before(oldestTime) {
			oldestKey = key
			oldestTime = lastUsed
		}
	}
	if oldestKey != "" {
		delete(pc.cache, oldestKey)
	}
}

// cleanupLoop runs periodic cleanup of expired entries
func (pc *PageCache) cleanupLoop() {
	ticker := time.NewTicker(pc.cleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pc.cleanup()
		case <-pc.stopCleanup:
			return
		}
	}
}

// cleanup removes entries older than maxAge
func (pc *PageCache) cleanup() {
	if pc.maxAge <= 0 {
		return
	}

	now := time.Now()
	keysToDelete := make([]string, 0)
	var delsize int64

	pc.mutex.RLock()
	for key, page := range pc.cache {
		page.mux.RLock()
		if now.Sub(page.CreatedAt) > pc.maxAge {
			keysToDelete = append(keysToDelete, key)
			delsize += int64(len(page.Body))
		}
		page.mux.RUnlock()
	}
	pc.mutex.RUnlock()

	if len(keysToDelete) == 0 {
		return
	}

	pc.mutex.Lock()
	for _, key := range keysToDelete {
		delete(pc.cache, key)
	}
	pc.mutex.Unlock()

	pc.countermux.Lock()
	pc.cachedSize -= delsize
	pc.countermux.Unlock()
}
