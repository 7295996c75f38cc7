package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/opentdb"
	"github.com/aliskhannn/trivia-bot/internal/service"
)

const recentResultsShown = 5

var errInvalidPlayArgs = errors.New("invalid play arguments")

// parsePlayArgs reads "/play" arguments on top of defaults. Tokens may come in
// any order: a difficulty, a question type, "any", or a numeric category ID.
func parsePlayArgs(args string, defaults entities.PlayOptions) (entities.PlayOptions, error) {
	opts := defaults

	for _, tok := range strings.Fields(strings.ToLower(args)) {
		switch tok {
		case "any":
			continue
		case string(opentdb.DifficultyEasy), string(opentdb.DifficultyMedium), string(opentdb.DifficultyHard):
			opts.Difficulty = tok
		case string(opentdb.TypeMultiple), string(opentdb.TypeBoolean):
			opts.Type = tok
		case "truefalse", "tf":
			opts.Type = string(opentdb.TypeBoolean)
		default:
			id, err := strconv.Atoi(tok)
			if err != nil || id <= 0 {
				return defaults, errInvalidPlayArgs
			}
			opts.CategoryID = &id
		}
	}

	return opts, nil
}

// handlePlay starts a quiz with the filters given after the command.
func (h *Handler) handlePlay(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		opts, err := parsePlayArgs(args, h.cfg.DefaultOptions)
		if err != nil {
			h.send(newPlainMessage(chatID, msgUsageInvalidArg))
			return nil
		}
		return h.startQuiz(ctx, userID, chatID, opts, 0)
	}
}

// handleReset fetches a new set of questions with the filters of the latest
// quiz in the chat, finished or not.
func (h *Handler) handleReset(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		opts, ok := h.quizService.LastOptions(chatID)
		if !ok {
			opts = h.cfg.DefaultOptions
		}
		return h.startQuiz(ctx, userID, chatID, opts, 0)
	}
}

func (h *Handler) handleStop() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if _, err := h.quizService.CurrentQuiz(chatID); err != nil {
			if errors.Is(err, service.ErrNoActiveQuiz) {
				h.send(newPlainMessage(chatID, msgNoActiveQuiz))
				return nil
			}
			return err
		}

		h.quizService.AbandonQuiz(chatID)
		h.retireQuestionMessage(chatID)
		h.send(newPlainMessage(chatID, msgQuizStopped))
		return nil
	}
}

func (h *Handler) handleStats(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		stats, err := h.statsService.GetStats(ctx, userID)
		if err != nil {
			return err
		}

		if stats.GamesPlayed == 0 {
			h.send(newPlainMessage(chatID, msgStatsEmpty))
			return nil
		}

		recent, err := h.statsService.Recent(ctx, userID, recentResultsShown)
		if err != nil {
			return err
		}

		h.send(newMessage(chatID, statsMessage(stats, recent)))
		return nil
	}
}

// startQuiz fetches questions and shows the first one. While the fetch runs the
// chat sees a loading message, which becomes the question message (or the
// error message). When msgID is set that message is reused instead.
func (h *Handler) startQuiz(ctx context.Context, userID, chatID int64, opts entities.PlayOptions, msgID int) error {
	if opts.Amount <= 0 {
		opts.Amount = h.cfg.DefaultOptions.Amount
	}

	h.retireQuestionMessage(chatID)
	msgID = h.render(chatID, msgID, msgFetching, false, nil)

	session, err := h.quizService.StartQuiz(ctx, userID, chatID, opts)
	if err != nil {
		var fe *opentdb.FetchError
		switch {
		case errors.Is(err, service.ErrStaleQuiz):
			h.logger.Debug("quiz superseded before it was shown",
				zap.Int64("chat_id", chatID),
			)
			h.deleteMessage(chatID, msgID)
			return nil

		case errors.Is(err, service.ErrInvalidOptions):
			h.render(chatID, msgID, msgUsageInvalidArg, false, nil)
			return nil

		case errors.As(err, &fe):
			h.logger.Warn("failed to fetch questions",
				zap.Int64("chat_id", chatID),
				zap.Stringer("kind", fe.Kind),
				zap.Error(err),
			)
			kb := buildRetryKeyboard(opts)
			h.render(chatID, msgID, fetchErrorMessage(err), false, &kb)
			return nil
		}

		h.deleteMessage(chatID, msgID)
		return err
	}

	h.logger.Debug("quiz started",
		zap.Int64("chat_id", chatID),
		zap.String("session_id", session.ID.String()),
		zap.Int("questions", session.TotalQuestions()),
	)

	kb := buildAnswerKeyboard(session)
	msgID = h.render(chatID, msgID, questionMessage(session), true, &kb)
	if msgID != 0 {
		h.messageStorage.Store(chatID, msgID)
	}

	return nil
}

// render edits msgID in place, or sends a new message when msgID is zero.
// It returns the ID of the message now carrying the text, or zero on failure.
func (h *Handler) render(chatID int64, msgID int, text string, markdown bool, kb *tgbotapi.InlineKeyboardMarkup) int {
	if msgID == 0 {
		msg := newPlainMessage(chatID, text)
		if markdown {
			msg = newMessage(chatID, text)
		}
		if kb != nil {
			msg.ReplyMarkup = *kb
		}
		m, ok := h.send(msg)
		if !ok {
			return 0
		}
		return m.MessageID
	}

	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	if markdown {
		edit = newEdit(chatID, msgID, text)
	}
	edit.ReplyMarkup = kb
	if _, ok := h.send(edit); !ok {
		return 0
	}
	return msgID
}

// retireQuestionMessage removes the answer buttons of the chat's previous question.
func (h *Handler) retireQuestionMessage(chatID int64) {
	prev, ok := h.messageStorage.Get(chatID)
	if !ok {
		return
	}
	h.messageStorage.Delete(chatID)
	h.removeKeyboard(chatID, prev.MessageID)
}

func (h *Handler) removeKeyboard(chatID int64, msgID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, msgID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := h.bot.Request(edit); err != nil {
		h.logger.Debug("failed to remove keyboard",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", msgID),
			zap.Error(err),
		)
	}
}

func (h *Handler) deleteMessage(chatID int64, msgID int) {
	if msgID == 0 {
		return
	}
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, msgID)); err != nil {
		h.logger.Debug("failed to delete message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", msgID),
			zap.Error(err),
		)
	}
}
