package usecase

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
)

// tierSpec describes one of the four fixed catalog partitions searched by
// the Multi-Tier Searcher.
type tierSpec struct {
	tier      domain.SearchTier
	dataTypes []string
	pageSize  int
}

var searchTiers = []tierSpec{
	{tier: domain.TierFoundationLegacy, dataTypes: []string{"Foundation", "SR Legacy"}, pageSize: 30},
	{tier: domain.TierSurveyFNDDS, dataTypes: []string{"Survey (FNDDS)"}, pageSize: 20},
	{tier: domain.TierBranded, dataTypes: []string{"Branded"}, pageSize: 20},
	{tier: domain.TierUnfiltered, dataTypes: nil, pageSize: 10},
}

// maxFusedCandidates bounds the merged result set returned to callers.
const maxFusedCandidates = 80

// Searcher implements C5: it issues the four fixed-partition tier searches
// concurrently against the catalog client, merges them in tier order for
// determinism, and optionally re-ranks the fused set with the Relevance
// Scorer.
type Searcher struct {
	client domain.USDAClient
	scorer *Scorer
}

// NewSearcher constructs a Searcher. scorer may be nil, in which case the
// fused set is never re-ranked and is instead ordered by (tier, fdc_id).
func NewSearcher(client domain.USDAClient, scorer *Scorer) *Searcher {
	return &Searcher{client: client, scorer: scorer}
}

// tierResult holds one tier's raw search hits, kept separate until the
// sequential merge so that merge order is independent of completion order.
type tierResult struct {
	tier  domain.SearchTier
	items []domain.SearchFoodItem
}

// Search runs the four tier searches concurrently for query, merges them in
// fixed tier order 1->4 deduplicating by FdcID, re-ranks by relevance to
// ingredient when ingredient is non-empty (otherwise by tier then FdcID),
// and returns at most maxFusedCandidates. avoidWords, when non-empty, is
// applied as the relevance scorer's compatibility penalty so candidates
// matching an LLM-supplied avoid term rank below equivalent clean matches.
func (s *Searcher) Search(ctx context.Context, query string, ingredient string, avoidWords ...string) ([]domain.Candidate, error) {
	results := make([]tierResult, len(searchTiers))

	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range searchTiers {
		i, spec := i, spec
		g.Go(func() error {
			items, err := s.client.Search(gctx, query, spec.pageSize, spec.dataTypes)
			if err != nil {
				return err
			}
			results[i] = tierResult{tier: spec.tier, items: items}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	var merged []domain.Candidate
	for _, tr := range results {
		for pos, item := range tr.items {
			if seen[item.FdcID] {
				continue
			}
			seen[item.FdcID] = true
			merged = append(merged, domain.Candidate{
				FdcID:        item.FdcID,
				Description:  item.Description,
				DataType:     item.DataType,
				FoodCategory: item.FoodCategory,
				BrandOwner:   item.BrandOwner,
				SearchTier:   tr.tier,
				Position:     pos,
			})
		}
	}

	if ingredient != "" && s.scorer != nil {
		for i := range merged {
			merged[i].RelevanceScore = s.scorer.Score(merged[i], ingredient, avoidWords...)
		}
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].RelevanceScore > merged[j].RelevanceScore
		})
	} else {
		sort.SliceStable(merged, func(i, j int) bool {
			if merged[i].SearchTier != merged[j].SearchTier {
				return merged[i].SearchTier < merged[j].SearchTier
			}
			return merged[i].FdcID < merged[j].FdcID
		})
	}

	if len(merged) > maxFusedCandidates {
		merged = merged[:maxFusedCandidates]
	}
	return merged, nil
}
