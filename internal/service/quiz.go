package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/opentdb"
	"github.com/aliskhannn/trivia-bot/internal/storage"
)

var (
	ErrNoActiveQuiz  = errors.New("no active quiz")
	ErrStaleQuiz     = errors.New("quiz was superseded")
	ErrInvalidAnswer = errors.New("invalid answer")
)

// AnswerOutcome describes the effect of one answer.
type AnswerOutcome struct {
	Answer  *entities.QuizAnswer
	Session entities.QuizSession // state after the answer was applied
	Result  *entities.QuizResult // set when the answer finished the quiz
}

func (o *AnswerOutcome) Finished() bool {
	return o.Result != nil
}

// QuizService runs quiz sessions: it fetches questions, keeps score and
// stores the result once the last question is answered.
type QuizService struct {
	fetcher   QuestionFetcher
	storage   QuizStorage
	results   ResultRepository
	validator *OptionsValidator
	logger    *zap.Logger
}

func NewQuizService(
	fetcher QuestionFetcher,
	quizStorage QuizStorage,
	results ResultRepository,
	logger *zap.Logger,
) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{
		fetcher:   fetcher,
		storage:   quizStorage,
		results:   results,
		validator: NewOptionsValidator(),
		logger:    logger,
	}
}

// StartQuiz fetches a new batch of questions and makes it the chat's active quiz.
// Calling it again supersedes the previous quiz; if a newer StartQuiz for the
// same chat completes first, this one returns ErrStaleQuiz and is discarded.
// Fetch failures are returned wrapped, so opentdb errors stay inspectable.
// If ctx ends first StartQuiz returns ctx.Err(); the pending fetch is then
// discarded by the generation check.
func (s *QuizService) StartQuiz(
	ctx context.Context, userID, chatID int64, opts entities.PlayOptions,
) (*entities.QuizSession, error) {
	if err := s.validator.Validate(opts); err != nil {
		return nil, err
	}

	generation := s.storage.NextGeneration(chatID)

	s.logger.Debug("starting quiz",
		zap.Int64("chat_id", chatID),
		zap.Uint64("generation", generation),
		zap.Int("amount", opts.AmountOrDefault()),
		zap.String("difficulty", opts.Difficulty),
		zap.String("type", opts.Type),
	)

	var res opentdb.Result
	select {
	case res = <-s.fetcher.FetchAsync(ctx, toRequest(opts)):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, fmt.Errorf("fetch questions: %w", res.Err)
	}

	session := entities.NewQuizSession(userID, chatID, generation, opts, res.Questions)
	session.PrepareOptions()
	snapshot := *session

	if err := s.storage.Store(session); err != nil {
		if errors.Is(err, storage.ErrStaleGeneration) {
			s.logger.Debug("discarding superseded quiz",
				zap.Int64("chat_id", chatID),
				zap.Uint64("generation", generation),
			)
			return nil, ErrStaleQuiz
		}
		return nil, err
	}

	return &snapshot, nil
}

// CurrentQuiz returns the active quiz of the chat.
func (s *QuizService) CurrentQuiz(chatID int64) (*entities.QuizSession, error) {
	session, err := s.storage.Get(chatID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, ErrNoActiveQuiz
		}
		return nil, err
	}
	return &session, nil
}

// SubmitAnswer applies the answer with answerIndex to question questionNum of
// the quiz identified by generation. Answers for another generation or another
// question than the current one return ErrStaleQuiz.
func (s *QuizService) SubmitAnswer(
	ctx context.Context, chatID int64, generation uint64, questionNum, answerIndex int,
) (*AnswerOutcome, error) {
	var outcome AnswerOutcome

	err := s.storage.Update(chatID, generation, func(qs *entities.QuizSession) error {
		if qs.CurrentQuestionNum != questionNum {
			return ErrStaleQuiz
		}

		qa, err := qs.Answer(answerIndex)
		if err != nil {
			if errors.Is(err, entities.ErrAnswerOutOfRange) {
				return ErrInvalidAnswer
			}
			return err
		}

		if qs.IsActive() {
			qs.PrepareOptions()
		}

		outcome.Answer = qa
		outcome.Session = *qs
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrSessionNotFound):
			return nil, ErrNoActiveQuiz
		case errors.Is(err, storage.ErrStaleGeneration):
			return nil, ErrStaleQuiz
		}
		return nil, err
	}

	if !outcome.Session.IsActive() {
		outcome.Result = outcome.Session.Result()
		s.storage.Delete(chatID, generation)

		// The final score is still reported when it cannot be stored.
		if err := s.results.Save(ctx, outcome.Result); err != nil {
			s.logger.Error("failed to save quiz result",
				zap.Int64("chat_id", chatID),
				zap.String("session_id", outcome.Result.ID.String()),
				zap.Error(err),
			)
		}
	}

	return &outcome, nil
}

// LastOptions returns the filters of the chat's latest quiz, including one
// that already finished.
func (s *QuizService) LastOptions(chatID int64) (entities.PlayOptions, bool) {
	return s.storage.LastOptions(chatID)
}

// AbandonQuiz drops the chat's active quiz, if any. Pending fetches for it are
// discarded when they complete.
func (s *QuizService) AbandonQuiz(chatID int64) {
	s.storage.Abandon(chatID)
}

func toRequest(opts entities.PlayOptions) opentdb.Request {
	return opentdb.Request{
		Amount:     opts.AmountOrDefault(),
		CategoryID: opts.CategoryID,
		Difficulty: opentdb.Difficulty(opts.Difficulty),
		Type:       opentdb.QuestionType(opts.Type),
	}
}
