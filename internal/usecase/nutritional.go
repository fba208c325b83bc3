package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
)

// nutrientWeight pairs a canonical nutrient ID with its contribution to the
// fallback weighted-difference score. The weights sum to 1.09; the fallback
// renormalizes over the nutrients it actually compares.
type nutrientWeight struct {
	id     string
	weight float64
}

var nutritionalWeights = []nutrientWeight{
	{"nutrient-calories-energy", 0.15},
	{"nutrient-protein", 0.12},
	{"nutrient-total-fat", 0.10},
	{"nutrient-total-carbohydrates", 0.10},
	{"nutrient-dietary-fiber", 0.08},
	{"nutrient-saturated-fat", 0.08},
	{"nutrient-sodium", 0.08},
	{"nutrient-cholesterol", 0.06},
	{"nutrient-total-sugars", 0.06},
	{"nutrient-vitamin-c-ascorbic-acid", 0.05},
	{"nutrient-calcium", 0.05},
	{"nutrient-iron", 0.05},
	{"nutrient-potassium", 0.05},
	{"nutrient-vitamin-a-rae", 0.03},
	{"nutrient-vitamin-d", 0.03},
}

// NutritionalCandidate pairs a semantically-accepted candidate with its
// fetched detail record and normalized nutrient row.
type NutritionalCandidate struct {
	Candidate domain.Candidate
	Detail    *domain.FoodDetail
	Nutrients domain.NutrientRow
}

// NutritionalGate implements C8: fetches detail records for the semantically
// accepted candidates and scores each against the expected nutrient profile
// for the ingredient, either via the LLM or, when LLM scoring is unavailable
// or fails, a deterministic weighted fallback. The expected profile comes
// only from the LLM: without it the profile is empty, no nutrient is
// comparable, and the fallback scores 0 ("no comparable nutrients available").
type NutritionalGate struct {
	client     domain.USDAClient
	llm        domain.LLMClient
	normalizer *Normalizer
}

// NewNutritionalGate constructs a NutritionalGate.
func NewNutritionalGate(client domain.USDAClient, llm domain.LLMClient, normalizer *Normalizer) *NutritionalGate {
	return &NutritionalGate{client: client, llm: llm, normalizer: normalizer}
}

// Evaluate fetches detail records for candidates (in parallel, sharing the
// catalog client's rate limiter) and scores each against ingredient's
// expected nutrient profile. Candidates whose detail fetch fails or whose
// nutrient list is empty are dropped, not scored as zero, so the orchestrator
// can fall through to the next semantically ranked candidate. Results are
// sorted descending by nutritional score.
func (g *NutritionalGate) Evaluate(ctx context.Context, ingredient string, candidates []domain.Candidate) []domain.Candidate {
	fetched := make([]*NutritionalCandidate, len(candidates))

	grp, gctx := errgroup.WithContext(ctx)
	for i, c := range candidates {
		i, c := i, c
		grp.Go(func() error {
			detail, err := g.client.GetDetails(gctx, c.FdcID)
			if err != nil || detail == nil || len(detail.FoodNutrients) == 0 {
				return nil
			}
			fetched[i] = &NutritionalCandidate{
				Candidate: c,
				Detail:    detail,
				Nutrients: g.normalizer.Normalize(detail.FoodNutrients),
			}
			return nil
		})
	}
	_ = grp.Wait()

	expected := g.expectedProfile(ctx, ingredient)

	out := make([]domain.Candidate, 0, len(candidates))
	for _, f := range fetched {
		if f == nil {
			continue
		}
		score, reasoning, diffs := g.score(ctx, ingredient, f.Nutrients, expected)
		c := f.Candidate
		s := score
		c.NutritionalScore = &s
		c.NutritionalReasoning = reasoning
		c.KeyDifferences = diffs
		c.Nutrients = f.Nutrients
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return nutScore(out[i]) > nutScore(out[j])
	})
	return out
}

func nutScore(c domain.Candidate) float64 {
	if c.NutritionalScore == nil {
		return 0
	}
	return *c.NutritionalScore
}

// FetchNutrients performs the EXTRACT step alone, without scoring: it
// fetches the detail record and normalizes its nutrient list. Used when a
// candidate clears the semantic-only (>=90) threshold and needs no
// nutritional comparison before being emitted.
func (g *NutritionalGate) FetchNutrients(ctx context.Context, fdcID int) (domain.NutrientRow, bool) {
	detail, err := g.client.GetDetails(ctx, fdcID)
	if err != nil || detail == nil || len(detail.FoodNutrients) == 0 {
		return nil, false
	}
	return g.normalizer.Normalize(detail.FoodNutrients), true
}

// expectedProfile obtains the expected nutrient vector for ingredient, via
// the LLM when available, else an empty row (the weighted fallback scorer
// then treats missing expected values as non-comparable and skips them).
func (g *NutritionalGate) expectedProfile(ctx context.Context, ingredient string) domain.NutrientRow {
	if g.llm == nil || !g.llm.Available() {
		return g.normalizer.EmptyRow()
	}

	messages := []domain.ChatMessage{
		{Role: "system", Content: "You are a nutrition database expert. Return only valid JSON."},
		{Role: "user", Content: expectedProfilePrompt(ingredient)},
	}
	content, err := g.llm.Chat(ctx, messages, 0.2, true)
	if err != nil {
		return g.normalizer.EmptyRow()
	}

	var raw map[string]float64
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return g.normalizer.EmptyRow()
	}

	row := g.normalizer.EmptyRow()
	for id, amount := range raw {
		if _, ok := row[id]; ok {
			amt := amount
			row[id] = &domain.NutrientValue{Amount: amt}
		}
	}
	return row
}

// score prefers the LLM when available; otherwise it falls back to the
// deterministic weighted per-nutrient relative-difference calculation.
func (g *NutritionalGate) score(ctx context.Context, ingredient string, actual, expected domain.NutrientRow) (float64, string, []string) {
	if g.llm != nil && g.llm.Available() {
		if score, reasoning, diffs, ok := g.scoreWithLLM(ctx, ingredient, actual); ok {
			return score, reasoning, diffs
		}
	}
	return weightedNutrientScore(actual, expected)
}

type nutritionalLLMResult struct {
	Score          float64  `json:"score"`
	Reasoning      string   `json:"reasoning"`
	KeyDifferences []string `json:"key_differences"`
}

func (g *NutritionalGate) scoreWithLLM(ctx context.Context, ingredient string, actual domain.NutrientRow) (float64, string, []string, bool) {
	messages := []domain.ChatMessage{
		{Role: "system", Content: "You are a nutrition database expert. Return only valid JSON."},
		{Role: "user", Content: nutritionalPrompt(ingredient, actual)},
	}
	content, err := g.llm.Chat(ctx, messages, 0.2, true)
	if err != nil {
		return 0, "", nil, false
	}
	var raw nutritionalLLMResult
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return 0, "", nil, false
	}
	return clampScore(raw.Score), raw.Reasoning, raw.KeyDifferences, true
}

// weightedNutrientScore computes the deterministic fallback: for each
// weighted nutrient present in both actual and expected, score its relative
// closeness as 100*(1 - |a-e|/max(a,e,1)), then combine with the fixed
// weight table, renormalized over the nutrients actually compared.
func weightedNutrientScore(actual, expected domain.NutrientRow) (float64, string, []string) {
	var weightedSum, weightTotal float64
	var diffs []string

	for _, nw := range nutritionalWeights {
		a, aok := actual[nw.id]
		e, eok := expected[nw.id]
		if !aok || !eok || a == nil || e == nil {
			continue
		}
		denom := a.Amount
		if e.Amount > denom {
			denom = e.Amount
		}
		if denom < 1 {
			denom = 1
		}
		closeness := 100 * (1 - absFloat(a.Amount-e.Amount)/denom)
		if closeness < 0 {
			closeness = 0
		}
		weightedSum += closeness * nw.weight
		weightTotal += nw.weight

		if absFloat(a.Amount-e.Amount)/denom > 0.25 {
			diffs = append(diffs, fmt.Sprintf("%s: expected %.1f, found %.1f", nw.id, e.Amount, a.Amount))
		}
	}

	if weightTotal == 0 {
		return 0, "no comparable nutrients available", diffs
	}

	score := weightedSum / weightTotal
	return score, "weighted per-nutrient relative-difference fallback (llm scoring failed)", diffs
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func expectedProfilePrompt(ingredient string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Give the typical nutrient profile per 100g for %q.\n", ingredient)
	b.WriteString("Return JSON mapping these canonical nutrient ids to numeric amounts: ")
	ids := make([]string, len(nutritionalWeights))
	for i, nw := range nutritionalWeights {
		ids[i] = nw.id
	}
	b.WriteString(strings.Join(ids, ", "))
	b.WriteString(".")
	return b.String()
}

func nutritionalPrompt(ingredient string, actual domain.NutrientRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ingredient: %q\n", ingredient)
	b.WriteString("Candidate nutrient profile (per 100g):\n")
	for _, nw := range nutritionalWeights {
		if v, ok := actual[nw.id]; ok && v != nil {
			fmt.Fprintf(&b, "- %s: %.2f\n", nw.id, v.Amount)
		}
	}
	b.WriteString("\nScore similarity to the expected profile for this ingredient on a 0-100 scale.\n")
	b.WriteString("Return JSON: {\"score\": number, \"reasoning\": string, \"key_differences\": [string, ...]}")
	return b.String()
}
