package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
	"github.com/ConferInc/usda-mapping-agent/internal/usecase"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	orchestrator *usecase.Orchestrator
	resultCache  domain.CacheRepository
	cacheTTL     time.Duration
}

// NewHandler creates a new HTTP handler wrapping the orchestrator. If
// orchestrator is nil, ResolveIngredient returns 501 Not Implemented.
// resultCache may be nil, in which case every lookup is resolved fresh.
func NewHandler(orchestrator *usecase.Orchestrator, resultCache domain.CacheRepository, cacheTTL time.Duration) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		resultCache:  resultCache,
		cacheTTL:     cacheTTL,
	}
}

func resolveCacheKey(ingredient string) string {
	return "resolve:" + strings.ToLower(strings.TrimSpace(ingredient))
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "usda-mapping-agent",
		"version": "1.0.0",
	})
}

type resolveRequest struct {
	Ingredient string `json:"ingredient" binding:"required"`
}

// ResolveIngredient handles ad-hoc single-ingredient lookups.
// POST /api/v1/ingredients/resolve
// Request body: { "ingredient": "..." }
// Response: domain.ResultRecord
func (h *Handler) ResolveIngredient(c *gin.Context) {
	if h.orchestrator == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "ingredient resolution service not configured",
		})
		return
	}

	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request: " + err.Error(),
		})
		return
	}

	ingredient := strings.TrimSpace(req.Ingredient)
	if ingredient == "" {
		err := fmt.Errorf("%w: ingredient must not be blank", domain.ErrInvalidRequest)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	key := resolveCacheKey(ingredient)

	if h.resultCache != nil {
		cached, err := h.resultCache.Get(ctx, key)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, cached)
			return
		case errors.Is(err, domain.ErrCacheMiss):
			// fall through to a fresh resolve
		default:
			log.Printf("[WARN] %v", fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err))
		}
	}

	record, err := h.orchestrator.Resolve(ctx, ingredient)
	if err != nil {
		log.Printf("[ERROR] ingredient resolution failed - ingredient: %s, error: %v", ingredient, err)
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrUSDAAPIFailure):
			c.JSON(http.StatusBadGateway, gin.H{"error": "USDA API temporarily unavailable, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "an unexpected error occurred"})
		}
		return
	}

	if h.resultCache != nil {
		if err := h.resultCache.Set(ctx, key, record, h.cacheTTL); err != nil {
			log.Printf("[WARN] failed to cache resolution for %q: %v", ingredient, err)
		}
	}

	c.JSON(http.StatusOK, record)
}
