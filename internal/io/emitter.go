package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
)

// Shape identifies one of the five output shapes an emission can take.
type Shape string

const (
	ShapeCSVStandard Shape = "csv"
	ShapeCSVDebug    Shape = "csv-debug"
	ShapeJSONDebug   Shape = "json"
	ShapeJSONClean   Shape = "json-clean"
	ShapeJSONBatch   Shape = "json-batch"
)

// cleanRecord is the minimal json-clean / json-batch payload.
type cleanRecord struct {
	Ingredient    string             `json:"ingredient"`
	FdcID         *int               `json:"fdc_id"`
	Description   string             `json:"description,omitempty"`
	DataType      string             `json:"data_type,omitempty"`
	Flag          domain.Flag        `json:"flag"`
	MappingStatus string             `json:"mapping_status"`
	Nutrients     domain.NutrientRow `json:"nutrients"`
	Timestamp     time.Time          `json:"timestamp"`
}

type batchSummary struct {
	Total                 int     `json:"total"`
	Successful             int     `json:"successful"`
	Failed                 int     `json:"failed"`
	ProcessingTimeSeconds  float64 `json:"processing_time_seconds"`
}

type batchPayload struct {
	Summary            batchSummary  `json:"summary"`
	Results            []cleanRecord `json:"results"`
	FailedIngredients  []string      `json:"failed_ingredients"`
	Timestamp          time.Time     `json:"timestamp"`
}

// Emit writes records to path in shape, and always writes a companion
// failed-ingredients file (path with its extension replaced by
// "_failed.txt", e.g. out.csv -> out_failed.txt) listing the ingredients
// whose final flag was LOW_CONFIDENCE or NO_MAPPING_FOUND, one per line.
// "csv-standard" and "json-debug" are accepted as aliases of csv and json.
func Emit(records []*domain.ResultRecord, path string, shape Shape, canonicalIDs []string) error {
	var err error
	switch shape {
	case ShapeCSVStandard, "csv-standard":
		err = emitCSV(records, path, canonicalIDs, false)
	case ShapeCSVDebug:
		err = emitCSV(records, path, canonicalIDs, true)
	case ShapeJSONDebug, "json-debug":
		err = emitJSONDebug(records, path)
	case ShapeJSONClean:
		err = emitJSONClean(records, path)
	case ShapeJSONBatch:
		err = emitJSONBatch(records, path)
	default:
		return fmt.Errorf("unrecognized output format %q", shape)
	}
	if err != nil {
		return err
	}
	return writeFailedCompanion(records, path)
}

func writeFailedCompanion(records []*domain.ResultRecord, path string) error {
	f, err := os.Create(failedCompanionPath(path))
	if err != nil {
		return err
	}
	defer f.Close()

	for _, r := range records {
		if r.Flag == domain.LowConfidence || r.Flag == domain.NoMappingFound {
			fmt.Fprintln(f, r.Ingredient)
		}
	}
	return nil
}

func failedCompanionPath(path string) string {
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		path = path[:idx]
	}
	return path + "_failed.txt"
}

func emitCSV(records []*domain.ResultRecord, path string, canonicalIDs []string, debug bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.UseCRLF = false
	defer w.Flush()

	header := []string{
		"ingredient", "fdc_id", "description", "data_type", "brand_owner",
		"source", "flag", "mapping_status", "semantic_score", "nutritional_score",
		"reasoning", "retry_attempts", "search_queries_used", "timestamp",
		"processing_time_seconds",
	}
	header = append(header, canonicalIDs...)
	if debug {
		header = append(header,
			"total_search_results", "semantic_verified_count", "api_calls_count",
			"llm_calls_count", "cache_hits", "cache_misses", "tier_distribution",
			"attempt_details",
		)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Ingredient,
			fdcIDString(r.FdcID),
			r.Description,
			r.DataType,
			r.BrandOwner,
			string(r.Source),
			string(r.Flag),
			r.MappingStatus,
			scoreString(r.SemanticScore),
			scoreString(r.NutritionalScore),
			strings.ReplaceAll(r.Reasoning, `"`, "'"),
			fmt.Sprintf("%d", r.RetryAttempts),
			strings.ReplaceAll(strings.Join(r.SearchQueriesUsed, "; "), `"`, "'"),
			r.Timestamp.Format(time.RFC3339),
			fmt.Sprintf("%.3f", r.ProcessingTimeSeconds),
		}
		for _, id := range canonicalIDs {
			row = append(row, nutrientCell(r.Nutrients, id))
		}
		if debug {
			row = append(row,
				fmt.Sprintf("%d", r.Debug.TotalSearchResults),
				fmt.Sprintf("%d", r.Debug.SemanticVerifiedCount),
				fmt.Sprintf("%d", r.Debug.APICallsCount),
				fmt.Sprintf("%d", r.Debug.LLMCallsCount),
				fmt.Sprintf("%d", r.Debug.CacheHits),
				fmt.Sprintf("%d", r.Debug.CacheMisses),
				tierDistributionString(r.Debug.TierDistribution),
				attemptDetailsString(r.Debug.AttemptDetails),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func fdcIDString(fdcID *int) string {
	if fdcID == nil {
		return ""
	}
	return fmt.Sprintf("%d", *fdcID)
}

func scoreString(score *float64) string {
	if score == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *score)
}

func nutrientCell(row domain.NutrientRow, id string) string {
	v, ok := row[id]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%g %s", v.Amount, v.Unit)
}

func tierDistributionString(dist map[string]int) string {
	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%d", k, dist[k]))
	}
	return strings.Join(parts, "; ")
}

func attemptDetailsString(attempts []domain.AttemptDetail) string {
	parts := make([]string, 0, len(attempts))
	for _, a := range attempts {
		parts = append(parts, fmt.Sprintf("%d:%s:%t", a.Attempt, a.Query, a.Success))
	}
	return strings.Join(parts, "; ")
}

func emitJSONDebug(records []*domain.ResultRecord, path string) error {
	return writeJSON(path, records)
}

func emitJSONClean(records []*domain.ResultRecord, path string) error {
	clean := make([]cleanRecord, 0, len(records))
	for _, r := range records {
		clean = append(clean, toCleanRecord(r))
	}
	return writeJSON(path, clean)
}

func emitJSONBatch(records []*domain.ResultRecord, path string) error {
	clean := make([]cleanRecord, 0, len(records))
	var failed []string
	var successful int
	var totalTime float64

	for _, r := range records {
		clean = append(clean, toCleanRecord(r))
		totalTime += r.ProcessingTimeSeconds
		if r.Flag == domain.HighConfidence || r.Flag == domain.MidConfidence {
			successful++
		} else {
			failed = append(failed, r.Ingredient)
		}
	}

	payload := batchPayload{
		Summary: batchSummary{
			Total:                 len(records),
			Successful:            successful,
			Failed:                len(records) - successful,
			ProcessingTimeSeconds: totalTime,
		},
		Results:           clean,
		FailedIngredients: failed,
		Timestamp:         time.Now().UTC(),
	}
	return writeJSON(path, payload)
}

func toCleanRecord(r *domain.ResultRecord) cleanRecord {
	return cleanRecord{
		Ingredient:    r.Ingredient,
		FdcID:         r.FdcID,
		Description:   r.Description,
		DataType:      r.DataType,
		Flag:          r.Flag,
		MappingStatus: r.MappingStatus,
		Nutrients:     r.Nutrients,
		Timestamp:     r.Timestamp,
	}
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
