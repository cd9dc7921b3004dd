// Package keyword extracts keywords from user questions and assigns
// them a coarse category. The extraction is intentionally simple:
// lowercase tokenization, stopword removal, and a lookup table mapping
// known keywords to categories. It needs no external service and runs
// synchronously inside the background enrichment task.
package keyword

import (
	"sort"
	"strings"
	"unicode"
)

// Result holds the outcome of processing a single question.
type Result struct {
	// Keywords are the distinct non-stopword tokens, in order of first
	// appearance.
	Keywords []string
	// Category is the best-matching category, or "general" when no
	// keyword maps to one.
	Category string
}

// CategoryGeneral is assigned when no keyword matches a known category.
const CategoryGeneral = "general"

// stopwords are common English tokens carrying no topical signal.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "can": {}, "could": {}, "do": {},
	"does": {}, "for": {}, "from": {}, "get": {}, "has": {}, "have": {},
	"how": {}, "i": {}, "if": {}, "in": {}, "is": {}, "it": {},
	"me": {}, "my": {}, "of": {}, "on": {}, "or": {}, "please": {},
	"should": {}, "so": {}, "that": {}, "the": {}, "their": {},
	"there": {}, "this": {}, "to": {}, "want": {}, "was": {},
	"we": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"who": {}, "why": {}, "will": {}, "with": {}, "would": {},
	"you": {}, "your": {},
}

// categoryKeywords maps topical keywords to their category. A question's
// category is the one matched by the most keywords, ties broken
// alphabetically for stable output.
var categoryKeywords = map[string]string{
	"account":      "account",
	"login":        "account",
	"password":     "account",
	"register":     "account",
	"signin":       "account",
	"signup":       "account",
	"username":     "account",
	"bill":         "billing",
	"billing":      "billing",
	"charge":       "billing",
	"invoice":      "billing",
	"pay":          "billing",
	"payment":      "billing",
	"price":        "billing",
	"pricing":      "billing",
	"refund":       "billing",
	"subscription": "billing",
	"deliver":      "shipping",
	"delivery":     "shipping",
	"order":        "shipping",
	"ship":         "shipping",
	"shipping":     "shipping",
	"track":        "shipping",
	"tracking":     "shipping",
	"cancel":       "returns",
	"exchange":     "returns",
	"return":       "returns",
	"returns":      "returns",
	"broken":       "support",
	"bug":          "support",
	"crash":        "support",
	"error":        "support",
	"fix":          "support",
	"help":         "support",
	"issue":        "support",
	"problem":      "support",
	"support":      "support",
	"hour":         "company",
	"hours":        "company",
	"location":     "company",
	"open":         "company",
	"contact":      "company",
}

// escalationWords flag questions that a canned answer should not absorb.
// Their presence marks the question for human follow-up.
var escalationWords = map[string]struct{}{
	"agent":      {},
	"angry":      {},
	"complaint":  {},
	"frustrated": {},
	"human":      {},
	"lawyer":     {},
	"manager":    {},
	"terrible":   {},
	"unacceptable": {},
	"urgent":     {},
}

// Process tokenizes the question, strips stopwords, and assigns a
// category based on which category's keywords appear most often.
func Process(question string) Result {
	tokens := tokenize(question)

	seen := make(map[string]struct{}, len(tokens))
	keywords := make([]string, 0, len(tokens))
	votes := make(map[string]int)

	for _, tok := range tokens {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)

		if cat, ok := categoryKeywords[tok]; ok {
			votes[cat]++
		}
	}

	return Result{
		Keywords: keywords,
		Category: pickCategory(votes),
	}
}

// RequiresHuman reports whether the question contains language that
// should route the conversation to a person.
func RequiresHuman(question string) bool {
	for _, tok := range tokenize(question) {
		if _, ok := escalationWords[tok]; ok {
			return true
		}
	}
	return false
}

func pickCategory(votes map[string]int) string {
	if len(votes) == 0 {
		return CategoryGeneral
	}

	categories := make([]string, 0, len(votes))
	for cat := range votes {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	best := categories[0]
	for _, cat := range categories[1:] {
		if votes[cat] > votes[best] {
			best = cat
		}
	}
	return best
}

// tokenize lowercases the input and splits on any non-letter,
// non-digit rune.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
