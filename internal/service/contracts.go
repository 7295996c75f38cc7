package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/opentdb"
)

// QuestionFetcher produces a batch of decoded questions. The channel carries
// exactly one result and is then closed.
type QuestionFetcher interface {
	FetchAsync(ctx context.Context, r opentdb.Request) <-chan opentdb.Result
}

type QuizStorage interface {
	NextGeneration(chatID int64) uint64
	Store(session *entities.QuizSession) error
	Get(chatID int64) (entities.QuizSession, error)
	Update(chatID int64, generation uint64, fn func(*entities.QuizSession) error) error
	Delete(chatID int64, generation uint64)
	Abandon(chatID int64)
	LastOptions(chatID int64) (entities.PlayOptions, bool)
}

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	Exists(ctx context.Context, userID int64) (bool, error)
}

type ResultRepository interface {
	Save(ctx context.Context, res *entities.QuizResult) error
	GetStats(ctx context.Context, userID int64) (*entities.UserStats, error)
	ListRecent(ctx context.Context, userID int64, limit int) ([]*entities.QuizResult, error)
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}
