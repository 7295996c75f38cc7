package entities

import (
	"time"

	"github.com/google/uuid"
)

// QuizResult is the stored outcome of a completed quiz session.
type QuizResult struct {
	ID             uuid.UUID
	UserID         int64
	CorrectAnswers int
	TotalQuestions int
	CategoryID     *int   // nil when any category was requested
	Difficulty     string // empty when any difficulty was requested
	QuestionType   string // empty when both question types were allowed
	StartedAt      time.Time
	CompletedAt    time.Time
}

// Percentage returns the share of correct answers in the range 0..100.
func (r *QuizResult) Percentage() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	return float64(r.CorrectAnswers) / float64(r.TotalQuestions) * 100
}

// UserStats aggregates all stored results of a user.
type UserStats struct {
	GamesPlayed    int
	TotalCorrect   int
	TotalQuestions int
	BestCorrect    int
	BestTotal      int
	LastPlayedAt   *time.Time
}

// Accuracy returns the share of correct answers over all games in the range 0..100.
func (s *UserStats) Accuracy() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(s.TotalQuestions) * 100
}
