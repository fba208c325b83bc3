package domain

// SearchIntent is the structured query plan produced by the Search-Intent
// Generator (C4) and persisted per normalized ingredient. Treated as a pure
// value: the orchestrator never mutates one in place, it builds a new one
// per retry attempt.
type SearchIntent struct {
	SearchQuery     string   `json:"search_query"`
	IsPhrase        bool     `json:"is_phrase"`
	PreferredForm   string   `json:"preferred_form,omitempty"`
	Avoid           []string `json:"avoid,omitempty"`
	ExpectedPattern string   `json:"expected_pattern,omitempty"`
	RetryReason     string   `json:"retry_reason,omitempty"`
}
