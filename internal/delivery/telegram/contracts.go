package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/service"
	"github.com/aliskhannn/trivia-bot/internal/storage"
)

// Bot is the part of *tgbotapi.BotAPI the handler uses.
type Bot interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64) (bool, error)
}

type QuizService interface {
	StartQuiz(ctx context.Context, userID, chatID int64, opts entities.PlayOptions) (*entities.QuizSession, error)
	CurrentQuiz(chatID int64) (*entities.QuizSession, error)
	SubmitAnswer(ctx context.Context, chatID int64, generation uint64, questionNum, answerIndex int) (*service.AnswerOutcome, error)
	AbandonQuiz(chatID int64)
	LastOptions(chatID int64) (entities.PlayOptions, bool)
}

type StatsService interface {
	GetStats(ctx context.Context, userID int64) (*entities.UserStats, error)
	Recent(ctx context.Context, userID int64, limit int) ([]*entities.QuizResult, error)
}

type ResetService interface {
	ResetUser(ctx context.Context, userID int64) (int64, error)
}

type MessageStorage interface {
	Store(chatID int64, messageID int)
	Get(chatID int64) (storage.QuestionMessage, bool)
	Delete(chatID int64)
}
