package domain

// SearchTier identifies which of the four data-type partitions a Candidate
// was first discovered in.
type SearchTier int

const (
	TierFoundationLegacy SearchTier = 1
	TierSurveyFNDDS      SearchTier = 2
	TierBranded          SearchTier = 3
	TierUnfiltered       SearchTier = 4
)

// Candidate is a fused, deduplicated search row produced by the Multi-Tier
// Searcher (C5) and progressively annotated by the Relevance Scorer (C6),
// Semantic Verifier (C7), and Nutritional Similarity Gate (C8). It is a
// request-scoped value: nothing outside one ingredient's resolution holds a
// reference to it once a Result Record has been emitted.
type Candidate struct {
	FdcID        int
	Description  string
	DataType     string
	FoodCategory string
	BrandOwner   string

	SearchTier SearchTier
	Position   int // 0-based position within its discovering tier's result page

	RelevanceScore float64

	SemanticScore     *float64
	SemanticReasoning string

	NutritionalScore     *float64
	NutritionalReasoning string
	KeyDifferences       []string

	// Nutrients is populated once a detail record has been fetched and
	// normalized for this candidate (C8's fetch, or the final EXTRACT step),
	// so downstream stages need not re-fetch it.
	Nutrients NutrientRow
}
