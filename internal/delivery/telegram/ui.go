package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

// buildAnswerKeyboard builds one button per answer in the order they were shuffled for the session.
func buildAnswerKeyboard(session *entities.QuizSession) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(session.CurrentOptions))
	for i, option := range session.CurrentOptions {
		data := buildAnswerCallback(session.Generation, session.CurrentQuestionNum, i)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(option, data),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildResultKeyboard builds keyboard for the final score screen.
func buildResultKeyboard(opts entities.PlayOptions) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Fetch New Game", buildNewGameCallback(opts)),
		),
	)
}

// buildRetryKeyboard builds keyboard shown when questions could not be fetched.
func buildRetryKeyboard(opts entities.PlayOptions) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Retry", buildRetryCallback(opts)),
		),
	)
}

// buildStartKeyboard builds keyboard attached to the welcome message.
func buildStartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Start quiz", buildNewGameCallback(entities.PlayOptions{})),
		),
	)
}

// buildResetConfirmKeyboard asks the user to confirm wiping their history.
func buildResetConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, delete", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", buildResetCancelCallback()),
		),
	)
}
