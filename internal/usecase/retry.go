package usecase

import (
	"strings"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
)

// variantDictionary holds deterministic substitutions for ingredients whose
// bare name is ambiguous or under-specified for catalog search.
var variantDictionary = map[string][]string{
	"tzatziki":  {"tzatziki dip", "tzatziki sauce"},
	"guacamole": {"guacamole dip"},
	"chutney":   {"mango chutney", "chutney sauce"},
	"brandy":    {"brandy liqueur"},
	"sorbet":    {"fruit sorbet"},
	"gelato":    {"gelato dessert"},
}

// retryModifiers supply attempt 2's last resort: retryModifiers[0] is
// appended only when neither the previous query nor the ingredient has any
// words, since a multi-word query is reversed and a single word has its
// plural toggled instead.
var retryModifiers = []string{"raw", "fresh", "dried", "whole"}

// categoryPrefixes maps an ingredient's head word to a category used as a
// third-attempt search prefix.
var categoryPrefixes = map[string]string{
	"pepper":  "spice",
	"lentil":  "legume",
	"cheese":  "dairy",
	"oil":     "fat",
	"rice":    "grain",
	"vinegar": "condiment",
	"herb":    "spice",
	"spice":   "spice",
}

// RetryStrategist implements C9: a deterministic state machine producing a
// mutated search plan for retry attempts 2 and 3.
type RetryStrategist struct{}

// NewRetryStrategist constructs a RetryStrategist.
func NewRetryStrategist() *RetryStrategist {
	return &RetryStrategist{}
}

// Plan returns the query and retry_reason for attempt (2 or 3), given the
// ingredient, the original (attempt-1) plan, and the set of queries already
// tried. A generated query identical to one already tried is replaced by the
// ingredient's last word, or the ingredient itself if that too was tried.
func (r *RetryStrategist) Plan(attempt int, ingredient string, original domain.SearchIntent, tried map[string]bool) domain.SearchIntent {
	var query, reason string

	switch attempt {
	case 2:
		query, reason = r.mutateAttempt2(ingredient, original.SearchQuery)
	case 3:
		query, reason = r.mutateAttempt3(ingredient)
	default:
		query, reason = ingredient, "unsupported attempt index"
	}

	query = strings.TrimSpace(query)
	if query == "" || tried[strings.ToLower(query)] {
		lastWord := ingredient
		if words := strings.Fields(ingredient); len(words) > 0 {
			lastWord = words[len(words)-1]
		}
		if !tried[strings.ToLower(lastWord)] {
			query = lastWord
		} else {
			query = ingredient
		}
	}

	return domain.SearchIntent{
		SearchQuery: query,
		Avoid:       original.Avoid,
		RetryReason: reason,
	}
}

func (r *RetryStrategist) mutateAttempt2(ingredient, prevQuery string) (string, string) {
	key := strings.ToLower(strings.TrimSpace(ingredient))

	if variants, ok := variantDictionary[key]; ok && len(variants) > 0 {
		return variants[0], "variant substitution for ambiguous bare name"
	}

	words := strings.Fields(prevQuery)
	if len(words) == 0 {
		words = strings.Fields(ingredient)
	}

	if len(words) >= 2 {
		reversed := make([]string, len(words))
		for i, w := range words {
			reversed[len(words)-1-i] = w
		}
		return strings.Join(reversed, " "), "reversed word order"
	}

	if len(words) == 1 {
		word := words[0]
		if strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") {
			return strings.TrimSuffix(word, "s"), "toggled plural to singular"
		}
		return word + "s", "toggled singular to plural"
	}

	return ingredient + " " + retryModifiers[0], "appended modifier " + retryModifiers[0]
}

func (r *RetryStrategist) mutateAttempt3(ingredient string) (string, string) {
	words := strings.Fields(strings.ToLower(ingredient))
	if len(words) == 0 {
		return ingredient, "no category match, unchanged"
	}
	head := words[len(words)-1]
	if category, ok := categoryPrefixes[head]; ok {
		return category + " " + ingredient, "category-prefix injection: " + category
	}
	return head, "simplified to head noun"
}
