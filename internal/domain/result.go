package domain

import "time"

// Flag is the confidence bucket attached to a Result Record; it drives
// downstream acceptance/rejection.
type Flag string

const (
	HighConfidence Flag = "HIGH_CONFIDENCE"
	MidConfidence  Flag = "MID_CONFIDENCE"
	LowConfidence  Flag = "LOW_CONFIDENCE"
	NoMappingFound Flag = "NO_MAPPING_FOUND"
)

// Source identifies which stage of the pipeline produced a match.
type Source string

const (
	SourceCuratedMapping Source = "curated_mapping"
	SourceSearch         Source = "search"
	SourceNone           Source = "none"
)

// Mapping status strings. These are matched exactly by the scenario tests in
// SPEC_FULL.md §8 and must not be altered casually.
const (
	StatusCuratedMapping             = "curated_mapping"
	StatusSearchVerifiedSemanticHigh = "search_verified_semantic_high"
	StatusSearchVerifiedHighNutritional = "search_verified_high_nutritional"
	StatusSearchVerifiedMid          = "search_verified_mid"
	StatusSearchVerifiedMidSemLow    = "search_verified_mid_semantic_low"
	StatusSemanticScoreTooLow        = "semantic_score_too_low"
	StatusNutritionalMismatch        = "nutritional_mismatch"
	StatusFoodDataNotFound           = "food_data_not_found"
	StatusAllRetriesExhausted        = "all_retries_exhausted"
	StatusException                 = "exception"
)

// AttemptDetail records one retry attempt's query and outcome, for the
// csv-debug/json-debug emission shapes.
type AttemptDetail struct {
	Attempt int    `json:"attempt"`
	Query   string `json:"query"`
	Success bool   `json:"success"`
}

// TopCandidateSummary is a compact (score, description) pair surfaced in
// debug output for the top-3 semantically/nutritionally ranked candidates.
type TopCandidateSummary struct {
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// DebugRecord holds per-stage diagnostics for one ingredient's resolution.
// The Orchestrator fills in AttemptDetails only; no stage sets the other
// fields, which keep their zero values. It is carried on the Result Record
// but only the csv-debug/json-debug emission shapes surface it in full.
type DebugRecord struct {
	TimingMillis           map[string]int64      `json:"timing_ms,omitempty"`
	TierDistribution       map[string]int        `json:"tier_distribution,omitempty"`
	TotalSearchResults     int                   `json:"total_search_results"`
	SemanticVerifiedCount  int                   `json:"semantic_verified_count"`
	TopSemanticResults     []TopCandidateSummary `json:"top_semantic_results,omitempty"`
	TopNutritionalResults  []TopCandidateSummary `json:"top_nutritional_results,omitempty"`
	APICallsCount          int                   `json:"api_calls_count"`
	LLMCallsCount          int                   `json:"llm_calls_count"`
	CacheHits              int                   `json:"cache_hits"`
	CacheMisses            int                   `json:"cache_misses"`
	AttemptDetails         []AttemptDetail       `json:"attempt_details,omitempty"`
}

// ResultRecord is the Orchestrator's output: exactly one per input
// ingredient, regardless of how the resolution ended.
type ResultRecord struct {
	Ingredient  string `json:"ingredient"`
	FdcID       *int   `json:"fdc_id"`
	Description string `json:"description,omitempty"`
	DataType    string `json:"data_type,omitempty"`
	BrandOwner  string `json:"brand_owner,omitempty"`

	Source Source `json:"source"`
	Flag   Flag   `json:"flag"`

	MappingStatus string `json:"mapping_status"`

	SemanticScore     *float64 `json:"semantic_score"`
	NutritionalScore  *float64 `json:"nutritional_score"`
	Reasoning         string   `json:"reasoning,omitempty"`

	RetryAttempts     int      `json:"retry_attempts"`
	SearchQueriesUsed []string `json:"search_queries_used,omitempty"`

	Timestamp               time.Time `json:"timestamp"`
	ProcessingTimeSeconds   float64   `json:"processing_time_seconds"`

	Nutrients NutrientRow `json:"nutrients"`
	Debug     DebugRecord `json:"debug"`
}
