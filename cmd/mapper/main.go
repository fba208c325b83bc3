// Command mapper is the batch CLI runner (C16): it reads a list of
// ingredients, resolves each through the orchestrator, and writes the
// results in one of the five output shapes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/ConferInc/usda-mapping-agent/config"
	"github.com/ConferInc/usda-mapping-agent/internal/domain"
	"github.com/ConferInc/usda-mapping-agent/internal/infrastructure/cache"
	"github.com/ConferInc/usda-mapping-agent/internal/infrastructure/curated"
	"github.com/ConferInc/usda-mapping-agent/internal/infrastructure/llm"
	"github.com/ConferInc/usda-mapping-agent/internal/infrastructure/usda"
	ingredientio "github.com/ConferInc/usda-mapping-agent/internal/io"
	"github.com/ConferInc/usda-mapping-agent/internal/usecase"
)

// Exit codes distinguish configuration-class failures from catalog-wiring
// failures so an operator (or a calling script) can tell a bad flag/env from
// a USDA credential problem without parsing the log line.
const (
	exitConfigError = 2
	exitInputError  = 3
	exitUSDAError   = 4
)

// fatal logs msg/err and exits with a code chosen by errors.Is dispatch over
// err, matching the teacher's HTTP handler dispatch but translated to exit
// codes for the batch runner.
func fatal(msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrConfigMissing):
		log.Printf("[FATAL] %s: %v", msg, err)
		os.Exit(exitConfigError)
	case errors.Is(err, domain.ErrInvalidRequest):
		log.Printf("[FATAL] %s: %v", msg, err)
		os.Exit(exitInputError)
	case errors.Is(err, domain.ErrUSDAAPIFailure):
		log.Printf("[FATAL] %s: %v", msg, err)
		os.Exit(exitUSDAError)
	default:
		log.Fatalf("%s: %v", msg, err)
	}
}

func main() {
	inputPath := flag.String("input", "", "path to the ingredient list (csv, txt, or json)")
	inputFormat := flag.String("input-format", "auto", "input format: auto, csv, txt, or json")
	outputPath := flag.String("output", "results.csv", "path to write results to")
	outputFormat := flag.String("format", "csv", "output shape: csv, csv-debug, json, json-clean, or json-batch")
	limit := flag.Int("limit", 0, "stop after resolving this many ingredients (0 means no limit)")
	startFrom := flag.Int("start-from", 0, "skip this many ingredients before starting")
	concurrency := flag.Int("concurrency", 1, "number of ingredients resolved concurrently")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("--input is required")
	}

	// Configuration-class errors (missing API key, malformed input file) are
	// fatal; per-ingredient failures never are and always exit 0.
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load configuration", err)
	}

	ingredients, err := ingredientio.LoadIngredients(*inputPath, ingredientio.Format(*inputFormat))
	if err != nil {
		fatal("failed to load ingredients", err)
	}

	if *startFrom > 0 {
		if *startFrom >= len(ingredients) {
			ingredients = nil
		} else {
			ingredients = ingredients[*startFrom:]
		}
	}
	if *limit > 0 && *limit < len(ingredients) {
		ingredients = ingredients[:*limit]
	}

	orchestrator, normalizer, err := wireOrchestrator(cfg, slog.Default())
	if err != nil {
		fatal("failed to wire pipeline", err)
	}

	results := runPool(orchestrator, ingredients, *concurrency)

	if err := ingredientio.Emit(results, *outputPath, ingredientio.Shape(*outputFormat), normalizer.CanonicalIDs()); err != nil {
		log.Fatalf("failed to write results: %v", err)
	}

	log.Printf("resolved %d ingredients, results written to %s", len(results), *outputPath)
}

// runPool resolves ingredients through a bounded worker pool of size
// concurrency (at least 1), writing each result into a pre-sized slice by
// input index so output ordering matches input ordering regardless of which
// worker finishes first. A panic inside Resolve is recovered and recorded as
// NO_MAPPING_FOUND with mapping_status "exception".
func runPool(orchestrator *usecase.Orchestrator, ingredients []string, concurrency int) []*domain.ResultRecord {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]*domain.ResultRecord, len(ingredients))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := context.Background()
			for i := range jobs {
				record, err := func() (rec *domain.ResultRecord, err error) {
					defer func() {
						if p := recover(); p != nil {
							rec = &domain.ResultRecord{
								Ingredient:    ingredients[i],
								Source:        domain.SourceNone,
								Flag:          domain.NoMappingFound,
								MappingStatus: domain.StatusException,
								Reasoning:     fmt.Sprintf("recovered panic: %v", p),
							}
						}
					}()
					return orchestrator.Resolve(ctx, ingredients[i])
				}()
				if err != nil {
					log.Printf("resolve failed for %q: %v", ingredients[i], err)
					continue
				}
				results[i] = record
			}
		}()
	}

	for i := range ingredients {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// wireOrchestrator constructs the full C1-C10 pipeline from configuration,
// mirroring the teacher's cmd/server wiring style but assembling the
// mapping pipeline instead of a single nutrition service.
func wireOrchestrator(cfg *config.Config, logger *slog.Logger) (*usecase.Orchestrator, *usecase.Normalizer, error) {
	usdaClient, err := usda.NewClient(usda.Config{
		APIKey:         cfg.USDA.APIKey,
		BaseURL:        cfg.USDA.BaseURL,
		RateDelay:      cfg.USDA.RateDelay,
		MaxRetries:     cfg.USDA.MaxRetries,
		RequestTimeout: cfg.USDA.RequestTimeout,
		Logger:         logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
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

	return orchestrator, normalizer, nil
}
