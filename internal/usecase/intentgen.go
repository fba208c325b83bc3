package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
	"github.com/ConferInc/usda-mapping-agent/internal/infrastructure/cache"
)

// IntentGenerator implements C4: an LLM-backed producer of a structured
// search-query plan, persistently cached per normalized ingredient.
type IntentGenerator struct {
	llm     domain.LLMClient
	cache   *cache.IntentCache
	cleaner *QueryCleaner
}

// NewIntentGenerator constructs an IntentGenerator. llm may report
// Available() == false; the generator then always returns the deterministic
// fallback plan, built from the QueryCleaner's noise-stripped query.
func NewIntentGenerator(llm domain.LLMClient, intentCache *cache.IntentCache) *IntentGenerator {
	return &IntentGenerator{llm: llm, cache: intentCache, cleaner: NewQueryCleaner()}
}

// Generate consults the intent cache first; on a hit it returns the cached
// plan without invoking the LLM. On a miss it prompts the LLM (whose client
// retries once without the structured-output constraint if the provider
// rejects it); if the call fails or the reply is not valid JSON, it falls
// back to a deterministic plan with no further LLM call. The cache is
// written only on LLM success.
func (g *IntentGenerator) Generate(ctx context.Context, ingredient string) (domain.SearchIntent, bool /* fromCache */) {
	if cached, ok := g.cache.Get(ingredient); ok {
		return cached, true
	}

	if g.llm == nil || !g.llm.Available() {
		return g.fallbackIntent(ingredient), false
	}

	intent, err := g.promptLLM(ctx, ingredient)
	if err != nil {
		return g.fallbackIntent(ingredient), false
	}

	_ = g.cache.Set(ingredient, intent)
	return intent, false
}

func (g *IntentGenerator) promptLLM(ctx context.Context, ingredient string) (domain.SearchIntent, error) {
	messages := []domain.ChatMessage{
		{Role: "system", Content: "You are a helpful assistant that returns only valid JSON."},
		{Role: "user", Content: intentPrompt(ingredient)},
	}

	content, err := g.llm.Chat(ctx, messages, 0, true)
	if err != nil {
		return domain.SearchIntent{}, err
	}

	var raw struct {
		SearchQuery     json.RawMessage `json:"search_query"`
		IsPhrase        bool            `json:"is_phrase"`
		PreferredForm   string          `json:"preferred_form"`
		Avoid           []string        `json:"avoid"`
		ExpectedPattern string          `json:"expected_pattern"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return domain.SearchIntent{}, err
	}

	searchQuery := normalizeSearchQuery(raw.SearchQuery, ingredient)

	return domain.SearchIntent{
		SearchQuery:     searchQuery,
		IsPhrase:        raw.IsPhrase,
		PreferredForm:   raw.PreferredForm,
		Avoid:           raw.Avoid,
		ExpectedPattern: raw.ExpectedPattern,
	}, nil
}

// normalizeSearchQuery defensively coerces an LLM's search_query field,
// which may arrive as a JSON string, a JSON array (take the first element),
// or occasionally another scalar type, into a plain trimmed string.
func normalizeSearchQuery(raw json.RawMessage, ingredient string) string {
	if len(raw) == 0 {
		return ingredient
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		asString = strings.Trim(strings.TrimSpace(asString), `"'`)
		if asString != "" {
			return asString
		}
		return ingredient
	}

	var asList []string
	if err := json.Unmarshal(raw, &asList); err == nil {
		if len(asList) > 0 && strings.TrimSpace(asList[0]) != "" {
			return strings.TrimSpace(asList[0])
		}
		return ingredient
	}

	return ingredient
}

// fallbackIntent is used when the LLM is unavailable or fails entirely. It
// strips packaging/marketing noise via the QueryCleaner rather than simply
// echoing the raw ingredient string back as the search query.
func (g *IntentGenerator) fallbackIntent(ingredient string) domain.SearchIntent {
	query := g.cleaner.Clean(ingredient)
	preferredForm := ""
	if keywords := g.cleaner.Keywords(ingredient); len(keywords) > 0 {
		preferredForm = keywords[0]
	}
	return domain.SearchIntent{
		SearchQuery:   query,
		IsPhrase:      strings.Contains(strings.TrimSpace(query), " "),
		PreferredForm: preferredForm,
	}
}

func intentPrompt(ingredient string) string {
	var b strings.Builder
	b.WriteString("You are a nutrition database expert. Analyze this ingredient and generate search intent ")
	b.WriteString("for USDA FoodData Central API keyword search.\n\n")
	b.WriteString("Ingredient: \"" + ingredient + "\"\n\n")
	b.WriteString("SEMANTIC UNDERSTANDING:\n")
	b.WriteString("- \"black pepper\" = spice (pepper that is black). USDA format: \"Spices, pepper, black\" or \"Pepper, black\"\n")
	b.WriteString("- \"onion\" = vegetable, can be yellow/red/white (valid color types). USDA format: \"Onions, raw\" or \"Onions, yellow\"\n")
	b.WriteString("- \"vegetable oil\" = generic cooking oil. USDA format: \"Oil, vegetable\" or \"Vegetable oil\"\n")
	b.WriteString("- Color/type AFTER the ingredient is a valid modifier (e.g. \"Onions, yellow\"). Color/type BEFORE it is a different variety (e.g. \"Green onion\").\n\n")
	b.WriteString("Return JSON with five fields: search_query, is_phrase, preferred_form, avoid, expected_pattern.\n")
	b.WriteString("search_query must be terms that return the actual ingredient, not items merely containing the word.\n")
	b.WriteString("avoid must list words signalling a wrong category or variety.\n")
	b.WriteString("Return ONLY valid JSON.")
	return b.String()
}
