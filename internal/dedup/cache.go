package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type seenEntry struct {
	Link      string `json:"link"`
	Timestamp int64  `json:"timestamp"`
}

// SeenCache remembers offer links already handled in earlier sessions so the
// same offer is not applied to twice.
type SeenCache struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]int64
	now      func() time.Time
}

const seenTTL = 30 * 24 * time.Hour

// NewSeenCache creates or loads the cache stored under cacheDir.
func NewSeenCache(cacheDir string) *SeenCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	cache := &SeenCache{
		filePath: filepath.Join(cacheDir, "seen_offers.json"),
		seen:     make(map[string]int64),
		now:      time.Now,
	}
	cache.load()
	return cache
}

// IsSeen checks if a link has already been processed.
func (c *SeenCache) IsSeen(link string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.seen[link]
	return exists
}

// Add marks links as seen and persists the cache when anything changed.
func (c *SeenCache) Add(links []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixMilli()
	changed := false
	for _, link := range links {
		if link == "" {
			continue
		}
		if _, exists := c.seen[link]; !exists {
			c.seen[link] = now
			changed = true
		}
	}

	if !changed {
		return nil
	}
	return c.save()
}

func (c *SeenCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

func (c *SeenCache) load() {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read %s: %v", c.filePath, err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse %s: %v", c.filePath, err)
		return
	}

	cutoff := c.now().Add(-seenTTL).UnixMilli()
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			c.seen[e.Link] = e.Timestamp
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously seen offers (%d expired and removed)", loaded, len(entries)-loaded)
}

// save must be called with mu held.
func (c *SeenCache) save() error {
	entries := make([]seenEntry, 0, len(c.seen))
	for link, ts := range c.seen {
		entries = append(entries, seenEntry{Link: link, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return err
	}
	log.Printf("💾 Saved %d seen offers to cache", len(entries))
	return nil
}
