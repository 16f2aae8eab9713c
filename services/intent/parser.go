// Package intent classifies a chat message into one of a small closed set of
// intents using prefix and substring rules.
package intent

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

type Kind string

const (
	Summarize    Kind = "summarize"
	QuizGenerate Kind = "quiz_generate"
	QuizList     Kind = "quiz_list"
	QuizShow     Kind = "quiz_show"
	QuizAnswer   Kind = "quiz_answer"
	Progress     Kind = "progress"
	General      Kind = "general"
)

const DefaultTopic = "general knowledge"

type Intent struct {
	Kind    Kind
	Topic   string
	QuizID  string
	Answers []string
}

var (
	topicPattern     = regexp.MustCompile(`(?i)\b(summarize|explain|quiz me|generate quiz|create quiz)\b\s*(.*)`)
	connectorPattern = regexp.MustCompile(`(?i)^(on|about|for)\b\s*`)
	showQuizPattern  = regexp.MustCompile(`(?i)^show quiz\s+(\S+)`)
	answerPattern    = regexp.MustCompile(`(?i)^answer[:\s]`)
	answerSeparator  = regexp.MustCompile(`[,\s]+`)
)

// Parse applies the rules in priority order; the first match wins. Matching
// is case-insensitive but extracted values keep the message's casing.
// Trailing whitespace is kept so "summarize " still matches its prefix.
func Parse(message string) Intent {
	msg := strings.TrimLeftFunc(message, unicode.IsSpace)
	lower := strings.ToLower(msg)

	if rest, ok := cutPrefixFold(msg, "summarize "); ok {
		return Intent{Kind: Summarize, Topic: cleanTopic(rest)}
	}
	if rest, ok := cutPrefixFold(msg, "explain "); ok {
		return Intent{Kind: Summarize, Topic: cleanTopic(rest)}
	}

	if rest, ok := cutPrefixFold(msg, "quiz me on "); ok {
		return Intent{Kind: QuizGenerate, Topic: cleanTopic(rest)}
	}
	if strings.Contains(lower, "generate quiz") || strings.Contains(lower, "create quiz") {
		return Intent{Kind: QuizGenerate, Topic: ExtractTopic(msg)}
	}

	if _, ok := cutPrefixFold(msg, "list quizzes"); ok {
		return Intent{Kind: QuizList}
	}

	if m := showQuizPattern.FindStringSubmatch(msg); m != nil {
		return Intent{Kind: QuizShow, QuizID: m[1]}
	}

	if answerPattern.MatchString(msg) {
		return Intent{Kind: QuizAnswer, Answers: splitAnswers(msg[len("answer")+1:])}
	}

	if strings.Contains(lower, "progress") || strings.Contains(lower, "streak") {
		return Intent{Kind: Progress}
	}

	return Intent{Kind: General}
}

// ExtractTopic returns the text after the first study verb in the message,
// minus a leading "on", "about" or "for".
func ExtractTopic(message string) string {
	m := topicPattern.FindStringSubmatch(message)
	if m == nil {
		return DefaultTopic
	}
	return cleanTopic(connectorPattern.ReplaceAllString(strings.TrimSpace(m[2]), ""))
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}

func cleanTopic(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return DefaultTopic
	}
	return topic
}

func splitAnswers(rest string) []string {
	return lo.Compact(answerSeparator.Split(strings.TrimSpace(rest), -1))
}
