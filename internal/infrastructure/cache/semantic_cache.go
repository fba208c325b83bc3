package cache

import (
	"fmt"
	"strings"
	"sync"
)

// SemanticCache is the in-process, per-(ingredient, fdcID) semantic score
// cache used by C7. It is never persisted to disk: it is scoped to one
// process run, so retries and follow-up stages within that run see stable
// scores without re-invoking the LLM. Writes are idempotent.
type SemanticCache struct {
	mu     sync.RWMutex
	scores map[string]float64
}

// NewSemanticCache constructs an empty SemanticCache.
func NewSemanticCache() *SemanticCache {
	return &SemanticCache{scores: make(map[string]float64)}
}

func semanticKey(ingredient string, fdcID int) string {
	return fmt.Sprintf("%s|%d", strings.ToLower(strings.TrimSpace(ingredient)), fdcID)
}

// Get returns the cached score for (ingredient, fdcID), if present.
func (c *SemanticCache) Get(ingredient string, fdcID int) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	score, ok := c.scores[semanticKey(ingredient, fdcID)]
	return score, ok
}

// Set records the score for (ingredient, fdcID).
func (c *SemanticCache) Set(ingredient string, fdcID int, score float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scores[semanticKey(ingredient, fdcID)] = score
}
