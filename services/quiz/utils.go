package quiz

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

const (
	QuestionsPerQuiz   = 3
	OptionsPerQuestion = 4

	QUIZ_GENERATION_PROMPT = `You are a study assistant writing a multiple-choice quiz about "%s".

Write exactly %d questions. Each question has exactly %d options: one correct answer and %d plausible distractors. The "answer" field must repeat the exact text of the correct option.

Reply with a single JSON object inside a ` + "```json" + ` fenced block and nothing else. The object must validate against this JSON schema:

%s`
)

type questionPayload struct {
	Question      string   `json:"question" jsonschema:"required,description=The question text"`
	Options       []string `json:"options" jsonschema:"required,minItems=4,maxItems=4,description=Four answer options"`
	Answer        string   `json:"answer" jsonschema:"required,description=Exact text of the correct option"`
	CorrectAnswer string   `json:"correct_answer,omitempty" jsonschema:"-"`
}

type quizPayload struct {
	Questions []questionPayload `json:"questions" jsonschema:"required,minItems=3,maxItems=3"`
}

var payloadSchema = mustSchema()

func mustSchema() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&quizPayload{})

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("failed to marshal quiz schema: %v", err))
	}
	return string(out)
}

func generationPrompt(topic string) string {
	return fmt.Sprintf(QUIZ_GENERATION_PROMPT,
		strings.TrimSpace(topic), QuestionsPerQuiz, OptionsPerQuestion, OptionsPerQuestion-1, payloadSchema)
}

// Letter returns the label of the option at position i: A, B, C, ...
func Letter(i int) string {
	return string(rune('A' + i))
}
