package usecase

import (
	"strings"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
)

// relevanceBaseScore is the starting point before additive adjustments.
const relevanceBaseScore = 1000.0

// compoundIndicators are prepared-food roots that, when they begin or
// otherwise appear in a description, signal a processed product made WITH
// the ingredient rather than the ingredient itself.
var compoundIndicators = []string{
	"cheese", "crackers", "bread", "cookies", "cake",
	"soup", "sauce", "dressing", "cereal", "bar", "drink",
	"juice", "spread", "butter", "yogurt",
}

// processedForms are preservation/process terms penalized unless the query
// itself asked for that form.
var processedForms = []string{
	"dry", "powdered", "powder", "dehydrated", "canned", "frozen",
	"concentrated", "evaporated", "condensed",
}

// avoidWordNormalizationConstant is the scale against which the
// compatibility penalty scorer normalizes a [0, relevanceBaseScore*2]
// relevance score into a 0-100 penalty range (see SPEC_FULL.md Open
// Questions: the normalization constant is kept as a named constant rather
// than derived, matching the reference implementation's fixed 2000.0).
const avoidWordNormalizationConstant = 2000.0

// fuzzyEditDistance bounds the Levenshtein distance allowed for a query word
// and a description token to count as a fuzzy match (plurals, minor
// spelling drift), matching the teacher's default edit distance of 1.
const fuzzyEditDistance = 1

// fuzzyWeightFactor discounts a fuzzy word match relative to an exact one,
// mirroring the teacher's two-pass exact-then-fuzzy token matching.
const fuzzyWeightFactor = 0.8

// Scorer implements C6: a deterministic, additive relevance scorer over a
// fused candidate set, higher is better.
type Scorer struct{}

// NewScorer constructs a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score computes the relevance of candidate against ingredient, combining
// position, lexical proximity, data-type priority, and compound/processed
// penalties. avoidWords, when non-empty, applies the LLM-supplied
// compatibility penalty (see AvoidPenalty) on top of the relevance score.
func (s *Scorer) Score(c domain.Candidate, ingredient string, avoidWords ...string) float64 {
	description := strings.ToLower(c.Description)
	query := strings.ToLower(strings.TrimSpace(ingredient))
	queryWords := wordSet(query)

	score := relevanceBaseScore
	score -= float64(c.Position) * 10

	switch {
	case description == query:
		score += 500
	case strings.HasPrefix(description, query):
		score += 300
	default:
		queryWordList := strings.Fields(query)
		head := ""
		if len(queryWordList) > 0 {
			head = queryWordList[len(queryWordList)-1]
		}
		if head != "" && strings.HasPrefix(description, head) {
			score += 250
			if strings.Contains(description, query) {
				score += 100
			}
		} else if query != "" && strings.Contains(description, query) {
			score += 200
		}
	}

	descWords := wordSet(strings.ReplaceAll(description, ",", " "))
	matching := intersectWords(queryWords, descWords)
	if len(matching) > 0 {
		if len(matching) == len(queryWords) {
			score += 150
		} else {
			score += float64(len(matching)) * 30
		}
	}

	// Second pass: fuzzy-match query words that missed exact intersection
	// (plurals, minor spelling drift) at a discounted weight, same shape as
	// the teacher's exact-then-fuzzy token matching.
	if len(matching) < len(queryWords) {
		matched := make(map[string]bool, len(matching))
		for _, w := range matching {
			matched[w] = true
		}
		descTokens := tokenize(description)
		for qw := range queryWords {
			if matched[qw] {
				continue
			}
			for _, dt := range descTokens {
				if fuzzyTokenMatch(qw, dt, fuzzyEditDistance) {
					score += 30 * fuzzyWeightFactor
					break
				}
			}
		}
	}

	if len(avoidWords) > 0 {
		if penalty := AvoidPenalty(c.Description, ingredient, avoidWords); penalty > 0 {
			score -= penalty / 100 * avoidWordNormalizationConstant
		}
	}

	descWordList := strings.Fields(strings.ReplaceAll(description, ",", " "))
	if len(queryWords) <= 2 {
		first := ""
		if len(descWordList) > 0 {
			first = descWordList[0]
		}
		switch {
		case containsExact(compoundIndicators, first):
			score -= 800
		case containsAny(description, compoundIndicators):
			score -= 500
		}

		if !containsAny(query, processedForms) && containsAny(description, processedForms) {
			score -= 300
		}

		if len(descWordList) > len(queryWords)+1 {
			score -= 150
		}
	}

	switch c.DataType {
	case "Foundation":
		score += 100
	case "SR Legacy":
		score += 50
	case "Survey (FNDDS)":
		score += 25
	case "Branded":
		score -= 50
	}

	category := strings.ToLower(c.FoodCategory)
	if strings.Contains(query, "milk") && strings.Contains(category, "dairy") {
		score += 50
	}
	if strings.Contains(query, "fruit") && strings.Contains(category, "fruit") {
		score += 50
	}

	return score
}

// AvoidPenalty returns the heavy compatibility penalty applied when an
// LLM-supplied avoid word leads the description ahead of any ingredient
// word: 0, or 10 (the 200-point penalty normalized against
// avoidWordNormalizationConstant onto a 0-100 scale). Score converts it
// back into a 200-point deduction.
func AvoidPenalty(description, ingredient string, avoidWords []string) float64 {
	descLower := strings.ToLower(description)
	words := strings.Fields(descLower)
	first3 := words
	if len(first3) > 3 {
		first3 = first3[:3]
	}
	for i, w := range first3 {
		first3[i] = strings.TrimSuffix(w, ",")
	}

	ingredientWords := wordSet(strings.ToLower(ingredient))

	for _, avoid := range avoidWords {
		avoid = strings.ToLower(strings.TrimSpace(avoid))
		if len(avoid) < 3 || !strings.Contains(descLower, avoid) {
			continue
		}
		avoidPos := indexOf(first3, avoid)
		if avoidPos < 0 {
			continue
		}
		ingredientInFirst3 := false
		earliestIngredientPos := -1
		for i, w := range first3 {
			if containsAnyWord(w, ingredientWords) {
				ingredientInFirst3 = true
				if earliestIngredientPos < 0 {
					earliestIngredientPos = i
				}
			}
		}
		if earliestIngredientPos >= 0 && earliestIngredientPos < avoidPos {
			continue
		}
		if avoidPos == 0 || !ingredientInFirst3 {
			return 200 / avoidWordNormalizationConstant * 100
		}
	}
	return 0
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

func intersectWords(a, b map[string]bool) []string {
	var out []string
	for w := range a {
		if b[w] {
			out = append(out, w)
		}
	}
	return out
}

func containsExact(list []string, word string) bool {
	for _, v := range list {
		if v == word {
			return true
		}
	}
	return false
}

func containsAny(haystack string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(haystack, t) {
			return true
		}
	}
	return false
}

func containsAnyWord(word string, set map[string]bool) bool {
	for w := range set {
		if strings.Contains(word, w) {
			return true
		}
	}
	return false
}

func indexOf(list []string, target string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return -1
}
