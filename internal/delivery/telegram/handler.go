package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

const (
	defaultUpdateTimeout = 60
	defaultWorkers       = 16
)

// Config tunes the update loop and the default quiz filters.
type Config struct {
	UpdateTimeout  int                  // long polling timeout in seconds
	Workers        int                  // updates handled concurrently
	DefaultOptions entities.PlayOptions // used when a command does not override them
}

type Handler struct {
	bot            Bot
	logger         *zap.Logger
	quizService    QuizService
	userService    UserService
	statsService   StatsService
	resetService   ResetService
	messageStorage MessageStorage
	cfg            Config
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	quizService QuizService,
	userService UserService,
	statsService StatsService,
	resetService ResetService,
	messageStorage MessageStorage,
	cfg Config,
) *Handler {
	if cfg.UpdateTimeout <= 0 {
		cfg.UpdateTimeout = defaultUpdateTimeout
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	return &Handler{
		bot:            bot,
		logger:         logger,
		quizService:    quizService,
		userService:    userService,
		statsService:   statsService,
		resetService:   resetService,
		messageStorage: messageStorage,
		cfg:            cfg,
	}
}

// Run polls for updates until ctx is done. Updates are handled concurrently,
// so a slow question fetch in one chat does not hold up the others.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = h.cfg.UpdateTimeout

	updates := h.bot.GetUpdatesChan(u)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.cfg.Workers)

	for {
		select {
		case <-ctx.Done():
			_ = g.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return g.Wait()
			}
			g.Go(func() error {
				h.handleUpdate(gctx, update)
				return nil
			})
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic while handling update",
				zap.Int("update_id", update.UpdateID),
				zap.Any("panic", r),
			)
		}
	}()

	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID
	userID := chatID
	if update.Message.From != nil {
		userID = update.Message.From.ID
	}

	isNew, err := h.userService.EnsureUser(ctx, userID, chatID)
	if err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	if !update.Message.IsCommand() {
		h.send(newPlainMessage(chatID, msgUnknownCommand))
		return
	}

	args := update.Message.CommandArguments()

	switch update.Message.Command() {
	case "start":
		h.send(withKeyboard(newMessage(chatID, welcomeMessage(isNew)), buildStartKeyboard()))

	case "help":
		h.send(newMessage(chatID, helpMessage()))

	case "play":
		_ = h.withErrorHandling(h.handlePlay(userID, args))(ctx, chatID)

	case "reset":
		_ = h.withErrorHandling(h.handleReset(userID))(ctx, chatID)

	case "stop":
		_ = h.withErrorHandling(h.handleStop())(ctx, chatID)

	case "stats":
		_ = h.withErrorHandling(h.handleStats(userID))(ctx, chatID)

	case "resetstats":
		h.send(withKeyboard(newPlainMessage(chatID, msgResetConfirm), buildResetConfirmKeyboard()))

	default:
		h.send(newPlainMessage(chatID, msgUnknownCommand))
	}
}

func withKeyboard(msg tgbotapi.MessageConfig, kb tgbotapi.InlineKeyboardMarkup) tgbotapi.MessageConfig {
	msg.ReplyMarkup = kb
	return msg
}

func (h *Handler) sendError(chatID int64, text string) {
	h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) (tgbotapi.Message, bool) {
	m, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return m, false
	}
	return m, true
}
