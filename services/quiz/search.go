package quiz

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// searchTerms splits a free-text query into terms, dropping punctuation.
func searchTerms(query string) []string {
	var terms []string
	for _, word := range strings.Fields(query) {
		if clean := strings.Trim(word, ".,!?;:()[]{}\"'"); clean != "" {
			terms = append(terms, clean)
		}
	}
	return terms
}

// topicMatches reports whether any term is a case-insensitive fuzzy
// subsequence of the topic, so "revolutin" still finds "French Revolution".
func topicMatches(topic string, terms []string) bool {
	if topic == "" {
		return false
	}

	for _, term := range terms {
		if fuzzy.MatchFold(term, topic) {
			return true
		}
	}

	return false
}
