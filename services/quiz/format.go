package quiz

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"studybuddy/models"
)

const (
	MaxListed = 5

	NoQuizzesMessage = `You don't have any quizzes yet. Say "quiz me on <topic>" to create one.`
)

func FormatQuiz(quiz *models.Quiz) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Quiz on %s (id: %s)\n", quiz.Topic, quiz.ID)
	for i, q := range quiz.Questions {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, q.Text)
		for j, opt := range q.Options {
			fmt.Fprintf(&b, "   %s) %s\n", Letter(j), opt)
		}
	}

	maxOptions := lo.Max(lo.Map(quiz.Questions, func(q models.Question, _ int) int { return len(q.Options) }))
	if maxOptions == 0 {
		maxOptions = OptionsPerQuestion
	}
	fmt.Fprintf(&b, "\nReply with \"answer\" and %s (A-%s), one per question in order.",
		pluralize(len(quiz.Questions), "letter"), Letter(maxOptions-1))

	return b.String()
}

// FormatQuizList renders the newest quizzes first, at most MaxListed of them.
func FormatQuizList(quizzes []*models.Quiz) string {
	if len(quizzes) == 0 {
		return NoQuizzesMessage
	}

	var b strings.Builder
	b.WriteString("Your quizzes, newest first:\n")

	for _, quiz := range lo.Subset(quizzes, 0, MaxListed) {
		s := quiz.Summary()
		fmt.Fprintf(&b, "- %s: %s (%s, %s)\n", s.ID, s.Topic, pluralize(s.QuestionCount, "question"), s.CreatedAt.Format("Jan 2, 2006"))
	}

	if extra := len(quizzes) - MaxListed; extra > 0 {
		fmt.Fprintf(&b, "...and %d more.\n", extra)
	}

	b.WriteString(`Say "show quiz <id>" to see one.`)
	return b.String()
}

func FormatGrade(quiz *models.Quiz, grade *models.GradeResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You scored %d/%d (%d%%) on %s.\n", grade.Result.Score, grade.Result.Total, grade.Percentage, quiz.Topic)

	for i, mark := range grade.Marks {
		switch {
		case mark.Correct:
			fmt.Fprintf(&b, "%d. correct (%s)\n", i+1, mark.Given)
		case mark.CorrectLetter == "":
			fmt.Fprintf(&b, "%d. no gradable answer for this question\n", i+1)
		case mark.Given == "":
			fmt.Fprintf(&b, "%d. no answer, correct was %s\n", i+1, mark.CorrectLetter)
		default:
			fmt.Fprintf(&b, "%d. %s is wrong, correct was %s\n", i+1, mark.Given, mark.CorrectLetter)
		}
	}

	fmt.Fprintf(&b, "Study streak: %d", grade.Streak)
	return b.String()
}

func pluralize(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
