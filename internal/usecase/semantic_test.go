package usecase

import (
	"context"
	"testing"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
	"github.com/ConferInc/usda-mapping-agent/internal/infrastructure/cache"
)

func TestSemanticVerifierVerify_ScoresAndSortsDescending(t *testing.T) {
	llm := &fakeLLMClient{
		available: true,
		responses: []string{
			`{"results": [
				{"fdc_id": 1, "score": 95, "reasoning": "exact match"},
				{"fdc_id": 2, "score": 60, "reasoning": "related but distinct"}
			]}`,
		},
	}
	verifier := NewSemanticVerifier(llm, cache.NewSemanticCache())

	candidates := []domain.Candidate{
		{FdcID: 2, Description: "Oregano, dried"},
		{FdcID: 1, Description: "Oregano, fresh"},
	}

	got := verifier.Verify(context.Background(), "fresh oregano", candidates)

	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].FdcID != 1 || got[0].SemanticScore == nil || *got[0].SemanticScore != 95 {
		t.Errorf("got[0] = %+v, want fdc_id 1 with score 95", got[0])
	}
	if got[1].FdcID != 2 || got[1].SemanticScore == nil || *got[1].SemanticScore != 60 {
		t.Errorf("got[1] = %+v, want fdc_id 2 with score 60", got[1])
	}
}

func TestSemanticVerifierVerify_ClampsOutOfRangeScores(t *testing.T) {
	llm := &fakeLLMClient{
		available: true,
		responses: []string{`{"results": [{"fdc_id": 1, "score": 150, "reasoning": "over"}]}`},
	}
	verifier := NewSemanticVerifier(llm, cache.NewSemanticCache())

	got := verifier.Verify(context.Background(), "milk", []domain.Candidate{{FdcID: 1, Description: "Milk"}})

	if len(got) != 1 || got[0].SemanticScore == nil || *got[0].SemanticScore != 100 {
		t.Fatalf("expected score clamped to 100, got %+v", got)
	}
}

func TestSemanticVerifierVerify_AdmitsNothingOnLLMFailure(t *testing.T) {
	llm := &fakeLLMClient{available: true, errs: []error{context.DeadlineExceeded}}
	verifier := NewSemanticVerifier(llm, cache.NewSemanticCache())

	candidates := []domain.Candidate{{FdcID: 1, Description: "Milk"}}
	got := verifier.Verify(context.Background(), "milk", candidates)

	if len(got) != 0 {
		t.Fatalf("expected no candidates admitted when the LLM fails and nothing is cached, got %+v", got)
	}
}

func TestSemanticVerifierVerify_ReadmitsCachedCandidateOmittedByLLM(t *testing.T) {
	sc := cache.NewSemanticCache()
	sc.Set("milk", 2, 70)

	llm := &fakeLLMClient{
		available: true,
		// Only scores fdc_id 1; fdc_id 2 is omitted from this response.
		responses: []string{`{"results": [{"fdc_id": 1, "score": 90, "reasoning": "exact"}]}`},
	}
	verifier := NewSemanticVerifier(llm, sc)

	candidates := []domain.Candidate{
		{FdcID: 1, Description: "Milk, whole"},
		{FdcID: 2, Description: "Milk, 2%"},
	}
	got := verifier.Verify(context.Background(), "milk", candidates)

	if len(got) != 2 {
		t.Fatalf("expected the cached candidate to be re-admitted, got %+v", got)
	}
}

func TestSemanticVerifierVerify_DoesNotReadmitBelowAdmitThreshold(t *testing.T) {
	sc := cache.NewSemanticCache()
	sc.Set("milk", 2, 20)

	llm := &fakeLLMClient{
		available: true,
		responses: []string{`{"results": [{"fdc_id": 1, "score": 90, "reasoning": "exact"}]}`},
	}
	verifier := NewSemanticVerifier(llm, sc)

	candidates := []domain.Candidate{
		{FdcID: 1, Description: "Milk, whole"},
		{FdcID: 2, Description: "Milk, chocolate, low fat"},
	}
	got := verifier.Verify(context.Background(), "milk", candidates)

	if len(got) != 1 {
		t.Fatalf("expected the below-threshold cached candidate to stay excluded, got %+v", got)
	}
}

func TestSemanticVerifierVerify_CapsAtK(t *testing.T) {
	llm := &fakeLLMClient{
		available: true,
		responses: []string{`{"results": [
			{"fdc_id": 1, "score": 95, "reasoning": "a"},
			{"fdc_id": 2, "score": 90, "reasoning": "b"},
			{"fdc_id": 3, "score": 85, "reasoning": "c"},
			{"fdc_id": 4, "score": 80, "reasoning": "d"}
		]}`},
	}
	verifier := NewSemanticVerifier(llm, cache.NewSemanticCache())

	candidates := []domain.Candidate{
		{FdcID: 1}, {FdcID: 2}, {FdcID: 3}, {FdcID: 4},
	}
	got := verifier.Verify(context.Background(), "milk", candidates)

	if len(got) != 3 {
		t.Fatalf("got %d candidates, want the default K=3", len(got))
	}
}

func TestSemanticVerifierVerify_EmptyCandidates(t *testing.T) {
	verifier := NewSemanticVerifier(&fakeLLMClient{available: true}, cache.NewSemanticCache())
	got := verifier.Verify(context.Background(), "milk", nil)
	if got != nil {
		t.Errorf("expected nil for empty candidate input, got %+v", got)
	}
}
