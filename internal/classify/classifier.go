// Package classify maps free-text queries to coarse intent categories and
// suggests response modes for them. Classification is a fixed keyword/regex
// decision table, not a learned model: the same input always produces the
// same category.
package classify

import (
	"regexp"
	"strings"

	"nexusai/internal/logging"
	"nexusai/internal/types"
)

// Keyword lists are matched as substrings of the lower-cased query.
var (
	codingKeywords = []string{
		"code", "coding", "function", "algorithm", "programming",
		"python", "javascript", "typescript", "golang", "java",
		"debug", "compile", "syntax", "binary search", "recursion",
		"array", "linked list", "leetcode", "regex", "sql query",
	}

	productKeywords = []string{
		"buy", "price", "cheap", "cheapest", "deal", "discount",
		"laptop", "phone", "headphone", "shoes", "shopping",
		"order", "amazon", "flipkart", "under", "budget",
		"best value", "compare prices",
	}

	researchKeywords = []string{
		"why", "how", "what", "explain", "research", "study",
		"analysis", "compare", "history", "theory", "difference",
		"impact", "causes", "effects", "overview",
	}
)

var (
	// Price-like token: a currency-prefixed amount or "under <amount>".
	pricePattern = regexp.MustCompile(`(?i)(₹|\$|rs\.?\s?)\d+|under\s+\d+|below\s+\d+`)

	// Code-like token: call syntax, braces, or common operators.
	codePattern = regexp.MustCompile(`\w+\(\)|\{.*\}|=>|==|\+\+|::|</?\w+>`)

	// Question-like phrasing: interrogative opener or trailing question mark.
	questionPattern = regexp.MustCompile(`(?i)^(what|why|how|when|where|who|which|is|are|can|does|do)\b|\?\s*$`)
)

// Classify assigns a category to a raw query. It is pure and total: any
// input, including the empty string, resolves to a category.
//
// Decision priority, first match wins:
//  1. any coding keyword, or a code-like token   -> coding
//  2. any product keyword, or a price-like token -> product
//  3. more than one research keyword, or a question-like phrasing -> research
//  4. otherwise -> general
//
// The research branch intentionally requires a count above one while coding
// and product fire on a single hit; downstream expectations depend on these
// exact thresholds for borderline queries.
func Classify(query string) types.QueryCategory {
	lower := strings.ToLower(query)

	codingCount := countMatches(lower, codingKeywords)
	productCount := countMatches(lower, productKeywords)
	researchCount := countMatches(lower, researchKeywords)

	var category types.QueryCategory
	switch {
	case codingCount > 0 || codePattern.MatchString(query):
		category = types.CategoryCoding
	case productCount > 0 || pricePattern.MatchString(query):
		category = types.CategoryProduct
	case researchCount > 1 || questionPattern.MatchString(query):
		category = types.CategoryResearch
	default:
		category = types.CategoryGeneral
	}

	logging.ClassifyDebug("query=%q coding=%d product=%d research=%d -> %s",
		truncate(query, 80), codingCount, productCount, researchCount, category)

	return category
}

// countMatches returns how many list members appear as substrings of s.
func countMatches(s string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			count++
		}
	}
	return count
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
