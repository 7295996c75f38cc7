package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session statuses.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

var (
	ErrSessionNotActive = errors.New("quiz session is not active")
	ErrAnswerOutOfRange = errors.New("answer index out of range")
)

// QuizSession represents one game: a fetched batch of questions played in order.
// Generation identifies the fetch that produced the session so that callbacks
// and completions belonging to a superseded game can be told apart.
type QuizSession struct {
	ID                 uuid.UUID        // unique session ID
	UserID             int64            // user who started the quiz
	ChatID             int64            // chat the quiz is played in
	Generation         uint64           // fetch generation for the chat
	Options            PlayOptions      // filters the questions were fetched with
	Questions          []TriviaQuestion // questions in provider order
	CurrentQuestionNum int              // current question number, 1-based
	CorrectAnswers     int              // number of correct answers so far
	CurrentOptions     []string         // shuffled answers shown for the current question
	SessionStatus      string           // "active" or "completed"
	StartedAt          time.Time
	CompletedAt        *time.Time // nil until completed
}

// NewQuizSession creates an active session positioned at the first question.
func NewQuizSession(userID, chatID int64, generation uint64, opts PlayOptions, questions []TriviaQuestion) *QuizSession {
	return &QuizSession{
		ID:                 uuid.New(),
		UserID:             userID,
		ChatID:             chatID,
		Generation:         generation,
		Options:            opts,
		Questions:          questions,
		CurrentQuestionNum: 1,
		SessionStatus:      SessionActive,
		StartedAt:          time.Now(),
	}
}

func (s *QuizSession) TotalQuestions() int {
	return len(s.Questions)
}

func (s *QuizSession) IsActive() bool {
	return s.SessionStatus == SessionActive
}

// CurrentQuestion returns the question being asked, or false once the session is over.
func (s *QuizSession) CurrentQuestion() (*TriviaQuestion, bool) {
	if !s.IsActive() || s.CurrentQuestionNum < 1 || s.CurrentQuestionNum > len(s.Questions) {
		return nil, false
	}
	return &s.Questions[s.CurrentQuestionNum-1], true
}

// PrepareOptions shuffles the answers of the current question once.
// Later calls return the same order until the question is answered.
func (s *QuizSession) PrepareOptions() []string {
	q, ok := s.CurrentQuestion()
	if !ok {
		return nil
	}
	if s.CurrentOptions == nil {
		s.CurrentOptions = q.AllAnswersShuffled()
	}
	return s.CurrentOptions
}

// Answer scores the option at index for the current question and advances.
func (s *QuizSession) Answer(index int) (*QuizAnswer, error) {
	q, ok := s.CurrentQuestion()
	if !ok {
		return nil, ErrSessionNotActive
	}

	options := s.PrepareOptions()
	if index < 0 || index >= len(options) {
		return nil, ErrAnswerOutOfRange
	}

	qa := &QuizAnswer{
		SessionID:     s.ID,
		QuestionNum:   s.CurrentQuestionNum,
		UserAnswer:    options[index],
		CorrectAnswer: q.CorrectAnswer,
		IsCorrect:     q.IsCorrect(options[index]),
		AnsweredAt:    time.Now(),
	}

	if qa.IsCorrect {
		s.CorrectAnswers++
	}
	s.CurrentQuestionNum++
	s.CurrentOptions = nil

	if s.CurrentQuestionNum > len(s.Questions) {
		s.Complete()
	}

	return qa, nil
}

// Complete marks the quiz session as completed and sets the completion timestamp.
func (s *QuizSession) Complete() {
	s.SessionStatus = SessionCompleted
	now := time.Now()
	s.CompletedAt = &now
}

// Result builds the summary persisted for a completed session.
func (s *QuizSession) Result() *QuizResult {
	completedAt := time.Now()
	if s.CompletedAt != nil {
		completedAt = *s.CompletedAt
	}

	return &QuizResult{
		ID:             s.ID,
		UserID:         s.UserID,
		CorrectAnswers: s.CorrectAnswers,
		TotalQuestions: len(s.Questions),
		CategoryID:     s.Options.CategoryID,
		Difficulty:     s.Options.Difficulty,
		QuestionType:   s.Options.Type,
		StartedAt:      s.StartedAt,
		CompletedAt:    completedAt,
	}
}

// QuizAnswer represents a user's answer to one question of a session.
type QuizAnswer struct {
	SessionID     uuid.UUID
	QuestionNum   int // 1-based number of the answered question
	UserAnswer    string
	CorrectAnswer string
	IsCorrect     bool
	AnsweredAt    time.Time
}
