// Command server runs the optional HTTP surface (C15): a thin ad-hoc lookup
// API over the same orchestrator the batch CLI (cmd/mapper) uses.
package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/ConferInc/usda-mapping-agent/config"
	httpDelivery "github.com/ConferInc/usda-mapping-agent/internal/delivery/http"
	"github.com/ConferInc/usda-mapping-agent/internal/domain"
	"github.com/ConferInc/usda-mapping-agent/internal/infrastructure/cache"
	"github.com/ConferInc/usda-mapping-agent/internal/infrastructure/curated"
	"github.com/ConferInc/usda-mapping-agent/internal/infrastructure/llm"
	"github.com/ConferInc/usda-mapping-agent/internal/infrastructure/usda"
	"github.com/ConferInc/usda-mapping-agent/internal/usecase"
)

// fatal logs msg/err and exits with a distinct code for a configuration
// problem versus a catalog-wiring problem, the server's analogue of the
// batch runner's errors.Is-based exit dispatch.
func fatal(msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrConfigMissing):
		log.Printf("[FATAL] %s: %v", msg, err)
		os.Exit(2)
	case errors.Is(err, domain.ErrUSDAAPIFailure):
		log.Printf("[FATAL] %s: %v", msg, err)
		os.Exit(4)
	default:
		log.Fatalf("%s: %v", msg, err)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load configuration", err)
	}

	log.Printf("Starting USDA mapping agent v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	logger := slog.Default()

	usdaClient, err := usda.NewClient(usda.Config{
		APIKey:         cfg.USDA.APIKey,
		BaseURL:        cfg.USDA.BaseURL,
		RateDelay:      cfg.USDA.RateDelay,
		MaxRetries:     cfg.USDA.MaxRetries,
		RequestTimeout: cfg.USDA.RequestTimeout,
		Logger:         logger,
	})
	if err != nil {
		fatal("failed to construct USDA client", fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err))
	}

	llmClient := llm.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, logger)

	curatedStore := curated.NewStore(cfg.Paths.CuratedMappings)
	if err := curatedStore.Load(); err != nil {
		logger.Warn("curated mapping store failed to load, continuing empty", "error", err)
	}

	intentCache := cache.NewIntentCache(cfg.Paths.IntentCache)
	semanticCache := cache.NewSemanticCache()

	normalizer := usecase.NewNormalizer()
	scorer := usecase.NewScorer()

	intents := usecase.NewIntentGenerator(llmClient, intentCache)
	searcher := usecase.NewSearcher(usdaClient, scorer)
	semantic := usecase.NewSemanticVerifier(llmClient, semanticCache)
	nutritional := usecase.NewNutritionalGate(usdaClient, llmClient, normalizer)
	retry := usecase.NewRetryStrategist()

	orchestrator := usecase.NewOrchestrator(
		curatedStore,
		intents,
		searcher,
		semantic,
		nutritional,
		retry,
		normalizer,
		logger,
	)

	resultCache := cache.NewMemoryCache()
	handler := httpDelivery.NewHandler(orchestrator, resultCache, cfg.Cache.TTL)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
