package entities

import "math/rand"

// TriviaQuestion is a decoded, ready-to-display question.
// IncorrectAnswers never contains CorrectAnswer.
type TriviaQuestion struct {
	Category         string   // decoded display category
	Type             string   // "multiple" or "boolean"
	Difficulty       string   // "easy", "medium" or "hard"
	Question         string   // decoded question text
	CorrectAnswer    string   // decoded correct answer
	IncorrectAnswers []string // decoded distractors, 1 for boolean and 3 for multiple choice
}

// AllAnswersShuffled returns the correct answer together with all distractors
// in random order. A new slice is built and shuffled on every call.
func (q TriviaQuestion) AllAnswersShuffled() []string {
	answers := make([]string, 0, 1+len(q.IncorrectAnswers))
	answers = append(answers, q.CorrectAnswer)
	answers = append(answers, q.IncorrectAnswers...)

	rand.Shuffle(len(answers), func(i, j int) {
		answers[i], answers[j] = answers[j], answers[i]
	})

	return answers
}

// IsCorrect reports whether answer matches the correct answer exactly.
func (q TriviaQuestion) IsCorrect(answer string) bool {
	return answer == q.CorrectAnswer
}
