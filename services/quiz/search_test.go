package quiz

import (
	"testing"
)

func TestTopicMatches(t *testing.T) {
	tests := []struct {
		name     string
		topic    string
		query    string
		expected bool
	}{
		{
			name:     "exact match",
			topic:    "Photosynthesis",
			query:    "photosynthesis",
			expected: true,
		},
		{
			name:     "case insensitive match",
			topic:    "CELL BIOLOGY",
			query:    "biology",
			expected: true,
		},
		{
			name:     "partial word match",
			topic:    "French Revolution",
			query:    "revol",
			expected: true,
		},
		{
			name:     "missing letter tolerance",
			topic:    "French Revolution",
			query:    "revolutin",
			expected: true,
		},
		{
			name:     "multiple terms - one matches",
			topic:    "Integrals and derivatives",
			query:    "derivatives nosql",
			expected: true,
		},
		{
			name:     "multiple terms - none match",
			topic:    "Integrals and derivatives",
			query:    "nosql blockchain",
			expected: false,
		},
		{
			name:     "punctuation in query",
			topic:    "volcanoes",
			query:    "volcanoes?",
			expected: true,
		},
		{
			name:     "no match",
			topic:    "World War II",
			query:    "cells",
			expected: false,
		},
		{
			name:     "empty query",
			topic:    "anything",
			query:    "",
			expected: false,
		},
		{
			name:     "empty topic",
			topic:    "",
			query:    "test",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := topicMatches(tt.topic, searchTerms(tt.query))
			if result != tt.expected {
				t.Errorf("topicMatches() = %v, expected %v for topic: %q with query: %q",
					result, tt.expected, tt.topic, tt.query)
			}
		})
	}
}
