package cache

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
)

// intentCacheMetadata mirrors the reference cache file's metadata block.
type intentCacheMetadata struct {
	Version          string `json:"version"`
	LastUpdated      string `json:"last_updated"`
	TotalIngredients int    `json:"total_ingredients"`
}

type intentCacheFile struct {
	Metadata intentCacheMetadata            `json:"metadata"`
	Mappings map[string]domain.SearchIntent `json:"mappings"`
}

// IntentCache is the persistent, disk-backed cache for C4's search-intent
// plans, keyed by lowercased ingredient. It is loaded once and replaced
// atomically on save, generalizing MemoryCache's TTL-map idiom into a
// non-expiring, durable variant, since intents do not expire.
type IntentCache struct {
	path string

	mu       sync.Mutex
	loaded   bool
	mappings map[string]domain.SearchIntent
}

// NewIntentCache constructs an IntentCache bound to path. An empty path
// makes the cache process-local only (Set then updates only the in-memory map).
func NewIntentCache(path string) *IntentCache {
	return &IntentCache{path: path, mappings: make(map[string]domain.SearchIntent)}
}

func (c *IntentCache) ensureLoaded() {
	if c.loaded {
		return
	}
	c.loaded = true

	if c.path == "" {
		return
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return
	}
	var file intentCacheFile
	if err := json.Unmarshal(data, &file); err != nil {
		return
	}
	for key, intent := range file.Mappings {
		c.mappings[strings.ToLower(strings.TrimSpace(key))] = intent
	}
}

// Get returns the cached intent for ingredient, if present.
func (c *IntentCache) Get(ingredient string) (domain.SearchIntent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ensureLoaded()
	intent, ok := c.mappings[strings.ToLower(strings.TrimSpace(ingredient))]
	return intent, ok
}

// Set stores intent for ingredient and writes the whole cache back to disk
// under a single-writer lock, replacing the file atomically.
func (c *IntentCache) Set(ingredient string, intent domain.SearchIntent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ensureLoaded()
	key := strings.ToLower(strings.TrimSpace(ingredient))
	c.mappings[key] = intent

	if c.path == "" {
		return nil
	}

	file := intentCacheFile{
		Metadata: intentCacheMetadata{
			Version:          "1.0",
			LastUpdated:      time.Now().UTC().Format(time.RFC3339),
			TotalIngredients: len(c.mappings),
		},
		Mappings: c.mappings,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

// Size reports how many intents are currently cached.
func (c *IntentCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded()
	return len(c.mappings)
}
