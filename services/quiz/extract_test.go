package quiz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormedOutput = "Here is your quiz!\n```json\n" + `{
  "questions": [
    {"question": "What is the capital of France?", "options": ["Paris", "London", "Berlin", "Rome"], "answer": "Paris"},
    {"question": "Which planet is known as the red planet?", "options": ["Venus", "Mars", "Jupiter", "Saturn"], "answer": "B"},
    {"question": "What is H2O?", "options": ["Salt", "Oxygen", "Water", "Hydrogen"], "answer": "Water"}
  ]
}` + "\n```\nGood luck!"

func TestExtractQuestions(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantCount int
		wantErr   bool
	}{
		{name: "fenced json block", text: wellFormedOutput, wantCount: 3},
		{
			name:      "bare fence without language",
			text:      "```\n{\"questions\":[{\"question\":\"Q?\",\"options\":[\"a\",\"b\"],\"answer\":\"a\"}]}\n```",
			wantCount: 1,
		},
		{
			name:      "object embedded in prose",
			text:      `Sure! {"questions":[{"question":"Q?","options":["x","y","z","w"],"answer":"z"}]} Anything else?`,
			wantCount: 1,
		},
		{
			name:      "bare array",
			text:      `[{"question":"Q1?","options":["a","b","c","d"],"answer":"c"},{"question":"Q2?","options":["a","b","c","d"],"answer":"d"}]`,
			wantCount: 2,
		},
		{
			name:      "brackets inside strings",
			text:      `Result: {"questions":[{"question":"Which is a set literal: {} or []?","options":["{}","[]"],"answer":"{}"}]}`,
			wantCount: 1,
		},
		{
			name:      "invalid fence falls back to later region",
			text:      "```json\nnot json\n```\nretry: {\"questions\":[{\"question\":\"Q?\",\"options\":[\"a\",\"b\"],\"answer\":\"b\"}]}",
			wantCount: 1,
		},
		{
			name:      "drops questions without enough options",
			text:      `{"questions":[{"question":"Q1?","options":["only"],"answer":"only"},{"question":"","options":["a","b"],"answer":"a"},{"question":"Q3?","options":["a","b"],"answer":"a"}]}`,
			wantCount: 1,
		},
		{name: "no structure", text: "I can't make a quiz about that.", wantErr: true},
		{name: "unterminated object", text: `{"questions":[{"question":"Q?"`, wantErr: true},
		{name: "empty question list", text: `{"questions":[]}`, wantErr: true},
		{name: "empty text", text: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := ExtractQuestions(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedOutput)
				assert.Empty(t, questions)
				return
			}
			require.NoError(t, err)
			assert.Len(t, questions, tt.wantCount)
		})
	}
}

func TestExtractQuestionsNormalizes(t *testing.T) {
	questions, err := ExtractQuestions(wellFormedOutput)
	require.NoError(t, err)
	require.Len(t, questions, 3)

	assert.Equal(t, "q1", questions[0].ID)
	assert.Equal(t, "q3", questions[2].ID)
	assert.Equal(t, "What is the capital of France?", questions[0].Text)
	assert.Equal(t, []string{"Paris", "London", "Berlin", "Rome"}, questions[0].Options)

	// A letter answer is rewritten to the option text.
	assert.Equal(t, "Mars", questions[1].CorrectAnswer)
}

func TestExtractQuestionsCorrectAnswerAlias(t *testing.T) {
	questions, err := ExtractQuestions(`{"questions":[{"question":"Q?","options":[" a ","b"],"correct_answer":"a"}]}`)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "a", questions[0].CorrectAnswer)
	assert.Equal(t, []string{"a", "b"}, questions[0].Options)
}

func TestGenerationPromptEmbedsSchema(t *testing.T) {
	prompt := generationPrompt("  volcanoes ")

	assert.Contains(t, prompt, `"volcanoes"`)
	assert.Contains(t, prompt, "exactly 3 questions")
	assert.Contains(t, prompt, `"questions"`)
	assert.Contains(t, prompt, `"options"`)
	assert.True(t, strings.Contains(prompt, "```json"))
}
