package quiz

import (
	"math"
	"strings"

	"github.com/samber/lo"

	"studybuddy/models"
)

// CorrectLetter returns the label of the option whose text equals the correct
// answer. A question without options, or whose answer is not among them, has
// no correct letter and can never be scored.
func CorrectLetter(q models.Question) (string, bool) {
	idx := lo.IndexOf(q.Options, q.CorrectAnswer)
	if idx < 0 {
		return "", false
	}
	return Letter(idx), true
}

// Score grades answers positionally. Answers are trimmed and uppercased before
// comparison; missing answers count as wrong.
func Score(questions []models.Question, answers []string) (int, []models.QuestionMark) {
	score := 0
	marks := make([]models.QuestionMark, len(questions))

	for i, q := range questions {
		given := ""
		if i < len(answers) {
			given = strings.ToUpper(strings.TrimSpace(answers[i]))
		}

		letter, ok := CorrectLetter(q)
		correct := ok && given != "" && given == letter
		if correct {
			score++
		}

		marks[i] = models.QuestionMark{
			QuestionID:    q.ID,
			Given:         given,
			CorrectLetter: letter,
			Correct:       correct,
		}
	}

	return score, marks
}

func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}
