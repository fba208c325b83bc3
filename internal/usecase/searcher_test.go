package usecase

import (
	"context"
	"testing"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
)

func TestSearcherSearch_MergesTiersAndDedups(t *testing.T) {
	client := &fakeUSDAClient{
		searchByDataType: map[string][]domain.SearchFoodItem{
			"Foundation|SR Legacy|": {
				{FdcID: 1, Description: "Milk, whole", DataType: "Foundation"},
			},
			"Survey (FNDDS)|": {
				{FdcID: 2, Description: "Milk, whole, with cereal", DataType: "Survey (FNDDS)"},
			},
			"Branded|": {
				{FdcID: 1, Description: "Milk, whole (duplicate)", DataType: "Branded"},
				{FdcID: 3, Description: "Whole Milk Brand X", DataType: "Branded"},
			},
			"unfiltered": {
				{FdcID: 4, Description: "Milk, whole, UHT", DataType: "Other"},
			},
		},
	}
	searcher := NewSearcher(client, nil)

	got, err := searcher.Search(context.Background(), "whole milk", "")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if len(got) != 4 {
		t.Fatalf("got %d candidates, want 4 (deduped by fdc_id), got fdc_ids: %v", len(got), fdcIDs(got))
	}

	seen := map[int]bool{}
	for _, c := range got {
		if seen[c.FdcID] {
			t.Errorf("duplicate fdc_id %d in merged results", c.FdcID)
		}
		seen[c.FdcID] = true
	}

	// FdcID 1 comes from tier 1 (Foundation|SR Legacy), which must win over
	// the tier-3 duplicate with the same fdc_id.
	for _, c := range got {
		if c.FdcID == 1 && c.SearchTier != domain.TierFoundationLegacy {
			t.Errorf("fdc_id 1 should retain its first-seen tier %d, got %d", domain.TierFoundationLegacy, c.SearchTier)
		}
	}
}

func TestSearcherSearch_RanksByRelevanceWhenScorerProvided(t *testing.T) {
	client := &fakeUSDAClient{
		searchByDataType: map[string][]domain.SearchFoodItem{
			"Foundation|SR Legacy|": {
				{FdcID: 1, Description: "Milk, whole, 3.25% milkfat", DataType: "Foundation"},
			},
			"Branded|": {
				{FdcID: 2, Description: "Chocolate milkshake, whole milk based", DataType: "Branded"},
			},
		},
	}
	searcher := NewSearcher(client, NewScorer())

	got, err := searcher.Search(context.Background(), "whole milk", "whole milk")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].FdcID != 1 {
		t.Errorf("expected the closer match (fdc_id 1) ranked first, got fdc_id %d", got[0].FdcID)
	}
}

func TestSearcherSearch_OrdersByTierThenFdcIDWithoutScorer(t *testing.T) {
	client := &fakeUSDAClient{
		searchByDataType: map[string][]domain.SearchFoodItem{
			"Branded|": {
				{FdcID: 20, Description: "B"},
				{FdcID: 10, Description: "A"},
			},
			"Foundation|SR Legacy|": {
				{FdcID: 99, Description: "C"},
			},
		},
	}
	searcher := NewSearcher(client, nil)

	got, err := searcher.Search(context.Background(), "x", "")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3", len(got))
	}
	if got[0].FdcID != 99 {
		t.Errorf("expected tier-1 candidate first, got fdc_id %d", got[0].FdcID)
	}
	if got[1].FdcID != 10 || got[2].FdcID != 20 {
		t.Errorf("expected tier-3 candidates ordered by fdc_id ascending, got fdc_ids %v", fdcIDs(got[1:]))
	}
}

func TestSearcherSearch_PropagatesClientError(t *testing.T) {
	client := &fakeUSDAClient{searchErr: context.DeadlineExceeded}
	searcher := NewSearcher(client, nil)

	_, err := searcher.Search(context.Background(), "x", "")
	if err == nil {
		t.Fatal("expected Search to propagate the client error")
	}
}

func fdcIDs(candidates []domain.Candidate) []int {
	out := make([]int, len(candidates))
	for i, c := range candidates {
		out[i] = c.FdcID
	}
	return out
}
