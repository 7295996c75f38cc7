package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/trivia-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	cd := decodeCallback(cb.Data)

	// Results reference the user, who may never have sent a command.
	if _, err := h.userService.EnsureUser(ctx, cb.From.ID, chatID); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", cb.From.ID),
			zap.Error(err),
		)
	}

	switch cd.Action {
	case actionAnswer:
		_ = h.withErrorHandling(h.handleAnswer(cb, cd))(ctx, chatID)

	case actionNew, actionRetry:
		opts, err := parseOptionParams(cd.Params)
		if err != nil {
			h.logger.Warn("invalid callback data", zap.String("data", cd.Raw))
			h.answerCallback(cb.ID, "")
			return
		}
		h.answerCallback(cb.ID, "")

		msgID := 0
		if cd.Action == actionRetry {
			msgID = cb.Message.MessageID
		} else {
			h.removeKeyboard(chatID, cb.Message.MessageID)
		}

		_ = h.withErrorHandling(func(ctx context.Context, chatID int64) error {
			return h.startQuiz(ctx, cb.From.ID, chatID, opts, msgID)
		})(ctx, chatID)

	case actionReset:
		h.answerCallback(cb.ID, "")
		_ = h.withErrorHandling(h.handleResetStats(cb, cd))(ctx, chatID)

	default:
		h.logger.Debug("unknown callback action", zap.String("data", cd.Raw))
		h.answerCallback(cb.ID, "")
	}
}

// handleAnswer scores the pressed answer button and moves the message on to
// the next question or the final score.
func (h *Handler) handleAnswer(cb *tgbotapi.CallbackQuery, cd callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		p, err := parseAnswerCallback(cd)
		if err != nil {
			h.logger.Warn("invalid callback data", zap.String("data", cd.Raw))
			h.answerCallback(cb.ID, msgInvalidAnswer)
			return nil
		}

		outcome, err := h.quizService.SubmitAnswer(ctx, chatID, p.Generation, p.QuestionNum, p.AnswerIndex)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrStaleQuiz), errors.Is(err, service.ErrNoActiveQuiz):
				h.answerCallback(cb.ID, msgStaleButton)
				return nil
			case errors.Is(err, service.ErrInvalidAnswer):
				h.answerCallback(cb.ID, msgInvalidAnswer)
				return nil
			}
			h.answerCallback(cb.ID, "")
			return err
		}

		h.answerCallback(cb.ID, callbackFeedback(outcome.Answer))

		msgID := cb.Message.MessageID
		if outcome.Finished() {
			h.messageStorage.Delete(chatID)
			kb := buildResultKeyboard(outcome.Session.Options)
			h.render(chatID, msgID, finalScoreMessage(outcome.Answer, outcome.Result), true, &kb)
			return nil
		}

		kb := buildAnswerKeyboard(&outcome.Session)
		h.render(chatID, msgID, nextQuestionMessage(outcome.Answer, &outcome.Session), true, &kb)
		return nil
	}
}

func (h *Handler) handleResetStats(cb *tgbotapi.CallbackQuery, cd callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msgID := cb.Message.MessageID

		if len(cd.Params) != 1 || cd.Params[0] != resetConfirm {
			h.render(chatID, msgID, msgResetCancelled, false, nil)
			return nil
		}

		deleted, err := h.resetService.ResetUser(ctx, cb.From.ID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				h.render(chatID, msgID, msgResetNoUser, false, nil)
				return nil
			}
			return err
		}

		h.logger.Info("user results reset",
			zap.Int64("user_id", cb.From.ID),
			zap.Int64("deleted", deleted),
		)
		h.render(chatID, msgID, resetDoneMessage(deleted), false, nil)
		return nil
	}
}

// answerCallback removes the button "clock" and optionally shows a short toast.
func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}
