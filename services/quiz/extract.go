package quiz

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"studybuddy/models"
)

var fencedBlock = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\n?(.*?)```")

// ExtractQuestions pulls the question list out of free model output. Fenced
// blocks are tried first, then every balanced {...} or [...] region in order.
// The first candidate that yields at least one usable question wins.
func ExtractQuestions(text string) ([]models.Question, error) {
	for _, candidate := range candidates(text) {
		if questions := parsePayload(candidate); len(questions) > 0 {
			return questions, nil
		}
	}
	return nil, ErrMalformedOutput
}

func candidates(text string) []string {
	var out []string
	for _, m := range fencedBlock.FindAllStringSubmatch(text, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return append(out, balancedRegions(text)...)
}

// balancedRegions returns every top-level region that opens with { or [ and
// closes at matching depth. Brackets inside JSON strings are ignored.
func balancedRegions(text string) []string {
	var regions []string

	for start := 0; start < len(text); start++ {
		if text[start] != '{' && text[start] != '[' {
			continue
		}
		end := matchingClose(text, start)
		if end < 0 {
			continue
		}
		regions = append(regions, text[start:end+1])
	}

	return regions
}

func matchingClose(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

func parsePayload(raw string) []models.Question {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var items []questionPayload
	if raw[0] == '[' {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil
		}
	} else {
		var payload quizPayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return nil
		}
		items = payload.Questions
	}

	usable := lo.FilterMap(items, func(item questionPayload, _ int) (models.Question, bool) {
		return normalize(item)
	})

	for i := range usable {
		usable[i].ID = fmt.Sprintf("q%d", i+1)
	}

	return usable
}

func normalize(item questionPayload) (models.Question, bool) {
	text := strings.TrimSpace(item.Question)
	options := lo.Compact(lo.Map(item.Options, func(o string, _ int) string {
		return strings.TrimSpace(o)
	}))
	if text == "" || len(options) < 2 {
		return models.Question{}, false
	}

	answer := strings.TrimSpace(item.Answer)
	if answer == "" {
		answer = strings.TrimSpace(item.CorrectAnswer)
	}

	if !lo.Contains(options, answer) {
		if idx, ok := letterIndex(answer); ok && idx < len(options) {
			answer = options[idx]
		}
	}

	return models.Question{
		Text:          text,
		CorrectAnswer: answer,
		Options:       options,
	}, true
}

// letterIndex reads "B", "b", "B)" or "B." as option index 1.
func letterIndex(s string) (int, bool) {
	s = strings.TrimRight(strings.ToUpper(s), ").")
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return 0, false
	}
	return int(s[0] - 'A'), true
}
