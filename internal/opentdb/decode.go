package opentdb

import (
	"html"
	"unicode/utf8"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

// DecodeHTML resolves named and numeric HTML character references in s.
// When the decoded text is not valid UTF-8 the original s is returned.
func DecodeHTML(s string) string {
	decoded := html.UnescapeString(s)
	if !utf8.ValidString(decoded) {
		return s
	}
	return decoded
}

// toTriviaQuestion decodes every text field of raw independently.
// Distractors that decode to the correct answer are dropped.
func toTriviaQuestion(raw rawQuestion) entities.TriviaQuestion {
	correct := DecodeHTML(deref(raw.CorrectAnswer))

	incorrect := make([]string, 0, len(raw.IncorrectAnswers))
	for _, a := range raw.IncorrectAnswers {
		decoded := DecodeHTML(a)
		if decoded == correct {
			continue
		}
		incorrect = append(incorrect, decoded)
	}

	return entities.TriviaQuestion{
		Category:         DecodeHTML(deref(raw.Category)),
		Type:             deref(raw.Type),
		Difficulty:       deref(raw.Difficulty),
		Question:         DecodeHTML(deref(raw.Question)),
		CorrectAnswer:    correct,
		IncorrectAnswers: incorrect,
	}
}

func toTriviaQuestions(raw []rawQuestion) []entities.TriviaQuestion {
	questions := make([]entities.TriviaQuestion, 0, len(raw))
	for _, q := range raw {
		questions = append(questions, toTriviaQuestion(q))
	}
	return questions
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
