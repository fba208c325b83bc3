package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
	"github.com/ConferInc/usda-mapping-agent/internal/infrastructure/curated"
)

// maxRetryAttempts bounds the state machine to at most two attempts (see
// SPEC_FULL.md Open Questions: the retry ceiling is fixed at 2, not the
// optional third category-prefix attempt described for future extension).
const maxRetryAttempts = 2

// Orchestrator implements C10: sequences the curated store, intent
// generator, searcher, scorer, semantic verifier, nutritional gate, and
// retry strategist into exactly one Result Record per ingredient.
type Orchestrator struct {
	curated    *curated.Store
	intents    *IntentGenerator
	searcher   *Searcher
	semantic   *SemanticVerifier
	nutritions *NutritionalGate
	retry      *RetryStrategist
	normalizer *Normalizer
	logger     *slog.Logger
}

// NewOrchestrator constructs an Orchestrator from its injected components.
func NewOrchestrator(
	store *curated.Store,
	intents *IntentGenerator,
	searcher *Searcher,
	semantic *SemanticVerifier,
	nutritions *NutritionalGate,
	retry *RetryStrategist,
	normalizer *Normalizer,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		curated:    store,
		intents:    intents,
		searcher:   searcher,
		semantic:   semantic,
		nutritions: nutritions,
		retry:      retry,
		normalizer: normalizer,
		logger:     logger,
	}
}

// Resolve runs the full state machine for one ingredient. It never returns a
// non-nil error for ingredient-level failures: every input yields exactly
// one Result Record, and the error return is reserved for programmer-error
// class bugs that should never occur in practice.
func (o *Orchestrator) Resolve(ctx context.Context, ingredient string) (*domain.ResultRecord, error) {
	start := time.Now()

	record := &domain.ResultRecord{
		Ingredient: ingredient,
		Nutrients:  o.normalizer.EmptyRow(),
		Timestamp:  start.UTC(),
	}

	if entry, ok := o.curated.Lookup(ingredient); ok {
		fdcID := entry.FdcID
		record.FdcID = &fdcID
		record.Description = entry.Description
		record.DataType = entry.DataType
		record.Source = domain.SourceCuratedMapping
		record.Flag = domain.HighConfidence
		record.MappingStatus = domain.StatusCuratedMapping
		semantic := 100.0
		nutritional := 100.0
		record.SemanticScore = &semantic
		record.NutritionalScore = &nutritional
		record.Reasoning = "curated mapping, trusted by fiat"
		record.ProcessingTimeSeconds = time.Since(start).Seconds()
		return record, nil
	}

	record.Source = domain.SourceNone
	tried := make(map[string]bool)
	var queriesUsed []string
	var attemptDetails []domain.AttemptDetail
	var bestRejected domain.Candidate
	haveBestRejected := false
	detailFetchAttempted := false
	detailFetchSucceeded := false

	for attempt := 1; attempt <= maxRetryAttempts; attempt++ {
		var intent domain.SearchIntent
		if attempt == 1 {
			intent, _ = o.intents.Generate(ctx, ingredient)
		} else {
			original, _ := o.intents.Generate(ctx, ingredient)
			intent = o.retry.Plan(attempt, ingredient, original, tried)
		}

		query := intent.SearchQuery
		tried[lower(query)] = true
		queriesUsed = append(queriesUsed, query)

		candidates, err := o.searcher.Search(ctx, query, ingredient, intent.Avoid...)
		if err != nil {
			o.logger.Warn("search failed", "ingredient", ingredient, "attempt", attempt, "error", err)
			candidates = nil
		}

		attemptDetails = append(attemptDetails, domain.AttemptDetail{
			Attempt: attempt,
			Query:   query,
			Success: len(candidates) > 0,
		})

		if len(candidates) == 0 {
			continue
		}

		semanticCandidates := o.semantic.Verify(ctx, ingredient, candidates)
		if len(semanticCandidates) == 0 {
			continue
		}

		record, done, fetchAttempted, fetchSucceeded := o.evaluate(ctx, ingredient, semanticCandidates)
		if fetchAttempted {
			detailFetchAttempted = true
		}
		if fetchSucceeded {
			detailFetchSucceeded = true
		}
		if done {
			record.RetryAttempts = attempt
			record.SearchQueriesUsed = queriesUsed
			record.Debug.AttemptDetails = attemptDetails
			record.Timestamp = start.UTC()
			record.ProcessingTimeSeconds = time.Since(start).Seconds()
			return record, nil
		}

		if top := semanticCandidates[0]; !haveBestRejected || score(top) > score(bestRejected) {
			bestRejected = top
			haveBestRejected = true
		}
	}

	// Every attempt was exhausted without a candidate clearing its threshold.
	switch {
	case detailFetchAttempted && !detailFetchSucceeded:
		// Every candidate that reached the nutritional gate (semantic >= 65)
		// never yielded a usable detail record across the retry budget: the
		// catalog has no nutrient data to verify against, not merely a score
		// below threshold, so this is reported distinctly from LOW_CONFIDENCE.
		record.Flag = domain.NoMappingFound
		record.MappingStatus = domain.StatusFoodDataNotFound
		record.Reasoning = "no detail record could be fetched for any semantically ranked candidate"
	case haveBestRejected && score(bestRejected) >= 50:
		// A plausible-but-unconfirmed candidate (semantic >= 50) is still
		// recorded as LOW_CONFIDENCE for record-keeping rather than discarded
		// as NO_MAPPING_FOUND, per the LOW_CONFIDENCE invariant (never
		// counted as a successful mapping, but retains fdc_id/description
		// for review).
		status := domain.StatusSemanticScoreTooLow
		if score(bestRejected) >= 65 {
			status = domain.StatusNutritionalMismatch
		}
		record = o.buildResult(ingredient, bestRejected, domain.LowConfidence, status, bestRejected.Nutrients)
	default:
		record.Flag = domain.NoMappingFound
		record.MappingStatus = domain.StatusAllRetriesExhausted
		record.Reasoning = "no candidate passed semantic or nutritional thresholds within the retry budget"
	}

	record.Ingredient = ingredient
	record.RetryAttempts = maxRetryAttempts
	record.SearchQueriesUsed = queriesUsed
	record.Debug.AttemptDetails = attemptDetails
	record.Timestamp = start.UTC()
	record.ProcessingTimeSeconds = time.Since(start).Seconds()
	return record, nil
}

// evaluate walks the semantically ranked candidates best-first, applying the
// semantic/nutritional threshold switch. It returns (record, true, ...) the
// moment a candidate clears its threshold; EXTRACT failures (detail fetch
// empty, handled upstream by the gate dropping the candidate) fall through
// to the next ranked candidate rather than aborting. The trailing two bools
// report whether a detail fetch was attempted at all (semantic >= 65) and
// whether any such attempt ever succeeded, so the caller can distinguish
// "every candidate's catalog record was missing" from "scores never cleared
// threshold."
func (o *Orchestrator) evaluate(ctx context.Context, ingredient string, candidates []domain.Candidate) (*domain.ResultRecord, bool, bool, bool) {
	fetchAttempted := false
	fetchSucceeded := false

	for _, c := range candidates {
		semanticScore := score(c)

		switch {
		case semanticScore >= 90:
			fetchAttempted = true
			nutrients, ok := o.nutritions.FetchNutrients(ctx, c.FdcID)
			if !ok {
				continue // EXTRACT failure: try next candidate by semantic rank
			}
			fetchSucceeded = true
			return o.buildResult(ingredient, c, domain.HighConfidence, domain.StatusSearchVerifiedSemanticHigh, nutrients), true, fetchAttempted, fetchSucceeded

		case semanticScore >= 80:
			fetchAttempted = true
			gated := o.nutritions.Evaluate(ctx, ingredient, []domain.Candidate{c})
			if len(gated) == 0 {
				continue
			}
			fetchSucceeded = true
			nc := gated[0]
			switch {
			case nutScore(nc) >= 90:
				return o.buildResult(ingredient, nc, domain.HighConfidence, domain.StatusSearchVerifiedHighNutritional, nc.Nutrients), true, fetchAttempted, fetchSucceeded
			case nutScore(nc) >= 80:
				return o.buildResult(ingredient, nc, domain.MidConfidence, domain.StatusSearchVerifiedMid, nc.Nutrients), true, fetchAttempted, fetchSucceeded
			default:
				continue
			}

		case semanticScore >= 65:
			fetchAttempted = true
			gated := o.nutritions.Evaluate(ctx, ingredient, []domain.Candidate{c})
			if len(gated) == 0 {
				continue
			}
			fetchSucceeded = true
			nc := gated[0]
			if nutScore(nc) >= 90 {
				return o.buildResult(ingredient, nc, domain.MidConfidence, domain.StatusSearchVerifiedMidSemLow, nc.Nutrients), true, fetchAttempted, fetchSucceeded
			}
			continue

		default:
			continue
		}
	}
	return nil, false, fetchAttempted, fetchSucceeded
}

func (o *Orchestrator) buildResult(ingredient string, c domain.Candidate, flag domain.Flag, status string, nutrients domain.NutrientRow) *domain.ResultRecord {
	fdcID := c.FdcID
	if nutrients == nil {
		nutrients = o.normalizer.EmptyRow()
	}
	record := &domain.ResultRecord{
		Ingredient:       ingredient,
		FdcID:            &fdcID,
		Description:      c.Description,
		DataType:         c.DataType,
		BrandOwner:       c.BrandOwner,
		Source:           domain.SourceSearch,
		Flag:             flag,
		MappingStatus:    status,
		SemanticScore:    c.SemanticScore,
		NutritionalScore: c.NutritionalScore,
		Reasoning:        combinedReasoning(c),
		Nutrients:        nutrients,
	}
	return record
}

func combinedReasoning(c domain.Candidate) string {
	if c.NutritionalReasoning != "" {
		return c.SemanticReasoning + " | " + c.NutritionalReasoning
	}
	return c.SemanticReasoning
}

func lower(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		out[i] = b
	}
	return string(out)
}
