package chat

const (
	HelpMessage = `Hi! I'm your study buddy. Try one of these:
- "summarize <topic>" or "explain <topic>"
- "quiz me on <topic>"
- "list quizzes" or "show quiz <id>"
- "answer A, B, C" to answer your latest quiz
- "progress" to see your streak`

	InternalErrorMessage = "Sorry, something went wrong on my side and I can't be sure your progress was saved. Please try again."

	summarizeApology = "Sorry, I couldn't put together a summary of %s right now. Please try again in a moment."
	quizApology      = "Sorry, I couldn't create a quiz on %s right now. Please try again, maybe with a different topic."
	generalApology   = "Sorry, I'm having trouble answering right now. Please try again in a moment."

	quizNotFoundMessage   = "I couldn't find a quiz with id %s. Say \"list quizzes\" to see yours."
	noQuizToAnswerMessage = "You don't have a quiz to answer yet. Say \"quiz me on <topic>\" to get one."

	SUMMARY_PROMPT = `You are a patient tutor. Write a concise study summary of "%s" for a student.
Cover the key ideas in short paragraphs or bullet points and finish with one concrete example.
Keep it under 250 words.`

	PERSONA_PROMPT = `You are StudyBuddy, a friendly and encouraging study assistant.
The student you are talking to currently has a study streak of %d.
Answer their message helpfully and briefly. If it fits, suggest they summarize a topic or take a quiz.

Student: %s`
)
