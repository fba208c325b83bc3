package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
	"github.com/ConferInc/usda-mapping-agent/internal/infrastructure/cache"
)

// semanticAdmitThreshold is the minimum cached score at which a candidate
// the current LLM response omitted is still re-admitted.
const semanticAdmitThreshold = 40.0

// defaultSemanticK is the default number of candidates the verifier keeps.
const defaultSemanticK = 3

// SemanticVerifier implements C7: an LLM-backed gate that scores how well
// each candidate matches the requested ingredient, from 0 (wrong ingredient)
// to 100 (identical item).
type SemanticVerifier struct {
	llm   domain.LLMClient
	cache *cache.SemanticCache
	k     int
}

// NewSemanticVerifier constructs a SemanticVerifier with the default K=3.
func NewSemanticVerifier(llm domain.LLMClient, semanticCache *cache.SemanticCache) *SemanticVerifier {
	return &SemanticVerifier{llm: llm, cache: semanticCache, k: defaultSemanticK}
}

// Verify scores candidates against ingredient, re-admits previously accepted
// (cached) candidates omitted by the current LLM response, and returns the
// top K sorted descending by semantic_score.
func (v *SemanticVerifier) Verify(ctx context.Context, ingredient string, candidates []domain.Candidate) []domain.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	scored := make([]domain.Candidate, 0, len(candidates))
	if v.llm != nil && v.llm.Available() {
		llmScored, err := v.scoreWithLLM(ctx, ingredient, candidates)
		if err == nil {
			scored = llmScored
		}
	}

	seen := make(map[int]bool, len(scored))
	for _, c := range scored {
		seen[c.FdcID] = true
	}

	for _, c := range candidates {
		if seen[c.FdcID] {
			continue
		}
		if cachedScore, ok := v.cache.Get(ingredient, c.FdcID); ok && cachedScore >= semanticAdmitThreshold {
			score := cachedScore
			c.SemanticScore = &score
			scored = append(scored, c)
			seen[c.FdcID] = true
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		si, sj := score(scored[i]), score(scored[j])
		return si > sj
	})

	if len(scored) > v.k {
		scored = scored[:v.k]
	}
	return scored
}

func score(c domain.Candidate) float64 {
	if c.SemanticScore == nil {
		return 0
	}
	return *c.SemanticScore
}

type semanticLLMResult struct {
	FdcID      int     `json:"fdc_id"`
	Score      float64 `json:"score"`
	Reasoning  string  `json:"reasoning"`
}

func (v *SemanticVerifier) scoreWithLLM(ctx context.Context, ingredient string, candidates []domain.Candidate) ([]domain.Candidate, error) {
	messages := []domain.ChatMessage{
		{Role: "system", Content: "You are a nutrition database expert. Return only valid JSON."},
		{Role: "user", Content: semanticPrompt(ingredient, candidates)},
	}

	content, err := v.llm.Chat(ctx, messages, 0, true)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Results []semanticLLMResult `json:"results"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, err
	}

	byID := make(map[int]domain.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.FdcID] = c
	}

	out := make([]domain.Candidate, 0, len(raw.Results))
	for _, r := range raw.Results {
		c, ok := byID[r.FdcID]
		if !ok {
			continue
		}
		score := clampScore(r.Score)
		c.SemanticScore = &score
		c.SemanticReasoning = r.Reasoning
		v.cache.Set(ingredient, c.FdcID, score)
		out = append(out, c)
	}
	return out, nil
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func semanticPrompt(ingredient string, candidates []domain.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ingredient: %q\n\n", ingredient)
	b.WriteString("Score how well each candidate matches the ingredient, on a 0-100 scale:\n")
	b.WriteString("90-100 identical or trivially renamed item.\n")
	b.WriteString("80-89 same ingredient in a different physical form (ground vs whole; kosher vs table salt).\n")
	b.WriteString("65-79 closely related variant (smoked paprika vs paprika).\n")
	b.WriteString("50-64 related but distinct (fresh vs dried oregano).\n")
	b.WriteString("below 50 a different ingredient.\n\n")
	b.WriteString("Candidates:\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "- fdc_id=%d description=%q data_type=%q\n", c.FdcID, c.Description, c.DataType)
	}
	b.WriteString("\nReturn JSON: {\"results\": [{\"fdc_id\": int, \"score\": number, \"reasoning\": string}, ...]}")
	return b.String()
}
