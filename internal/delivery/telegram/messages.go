// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/opentdb"
)

// Plain text messages.
const (
	msgInternalError   = "Something went wrong. Please try again later."
	msgUnknownCommand  = "Unknown command. Send /help to see what I can do."
	msgFetching        = "⏳ Fetching questions..."
	msgNoActiveQuiz    = "There is no quiz in progress. Send /play to start one."
	msgQuizStopped     = "Quiz stopped. Send /play whenever you want a new one."
	msgStaleButton     = "This question is no longer active."
	msgInvalidAnswer   = "That answer is not available."
	msgStatsEmpty      = "You have not finished any quiz yet. Send /play to start."
	msgResetCancelled  = "Nothing was deleted."
	msgResetNoUser     = "There is nothing to delete yet."
	msgResetConfirm    = "Delete all of your stored results? This cannot be undone."
	msgUsageInvalidArg = "Could not understand the options.\n\nUsage: /play [easy|medium|hard] [multiple|boolean] [category-id]\nExample: /play hard boolean 18"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func welcomeMessage(isNew bool) string {
	var sb strings.Builder

	if isNew {
		sb.WriteString(bold("Welcome to Trivia Bot!"))
	} else {
		sb.WriteString(bold("Welcome back!"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(md("Answer questions from the Open Trivia Database and keep track of your score."))
	sb.WriteString("\n\n")
	sb.WriteString(helpBody())

	return sb.String()
}

func helpMessage() string {
	return bold("Commands") + "\n\n" + helpBody()
}

func helpBody() string {
	lines := []string{
		"/play [easy|medium|hard] [multiple|boolean] [category-id] - start a quiz",
		"/reset - fetch a new set of questions",
		"/stop - stop the current quiz",
		"/stats - show your results",
		"/resetstats - delete your results",
		"/help - show this message",
	}
	return md(strings.Join(lines, "\n"))
}

// questionMessage renders the current question of the session.
// The answers themselves are shown on the keyboard.
func questionMessage(session *entities.QuizSession) string {
	q, ok := session.CurrentQuestion()
	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(bold(fmt.Sprintf("Question %d/%d", session.CurrentQuestionNum, session.TotalQuestions())))
	sb.WriteString("\n")

	meta := q.Category
	if q.Difficulty != "" {
		meta += " · " + q.Difficulty
	}
	sb.WriteString(italic(meta))
	sb.WriteString("\n\n")
	sb.WriteString(md(q.Question))

	return sb.String()
}

func answerFeedback(qa *entities.QuizAnswer) string {
	if qa.IsCorrect {
		return "✅ " + bold("Correct!")
	}
	return "❌ " + bold("Wrong.") + " " + md("The answer was: ") + bold(qa.CorrectAnswer)
}

// callbackFeedback is the short toast shown after pressing an answer button.
func callbackFeedback(qa *entities.QuizAnswer) string {
	if qa.IsCorrect {
		return "Correct!"
	}
	return "Wrong! " + qa.CorrectAnswer
}

func nextQuestionMessage(qa *entities.QuizAnswer, session *entities.QuizSession) string {
	return answerFeedback(qa) + "\n\n" + questionMessage(session)
}

func finalScoreMessage(qa *entities.QuizAnswer, res *entities.QuizResult) string {
	var sb strings.Builder

	if qa != nil {
		sb.WriteString(answerFeedback(qa))
		sb.WriteString("\n\n")
	}
	sb.WriteString("🏁 ")
	sb.WriteString(bold("Quiz finished"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Final score: %d/%d (%.0f%%)",
		res.CorrectAnswers, res.TotalQuestions, res.Percentage())))

	return sb.String()
}

func statsMessage(stats *entities.UserStats, recent []*entities.QuizResult) string {
	var sb strings.Builder

	sb.WriteString("📊 ")
	sb.WriteString(bold("Your results"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Games played: %d\n", stats.GamesPlayed)))
	sb.WriteString(md(fmt.Sprintf("Correct answers: %d/%d (%.0f%%)\n",
		stats.TotalCorrect, stats.TotalQuestions, stats.Accuracy())))
	sb.WriteString(md(fmt.Sprintf("Best game: %d/%d", stats.BestCorrect, stats.BestTotal)))

	if len(recent) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(bold("Recent games"))
		for _, r := range recent {
			sb.WriteString("\n")
			sb.WriteString(md(fmt.Sprintf("%s  %d/%d%s",
				r.CompletedAt.Format("2006-01-02 15:04"),
				r.CorrectAnswers, r.TotalQuestions, describeFilters(r))))
		}
	}

	return sb.String()
}

func describeFilters(r *entities.QuizResult) string {
	var parts []string
	if r.Difficulty != "" {
		parts = append(parts, r.Difficulty)
	}
	if r.QuestionType != "" {
		parts = append(parts, r.QuestionType)
	}
	if r.CategoryID != nil {
		parts = append(parts, fmt.Sprintf("category %d", *r.CategoryID))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  (" + strings.Join(parts, ", ") + ")"
}

func resetDoneMessage(deleted int64) string {
	return fmt.Sprintf("Deleted %d stored result(s).", deleted)
}

// fetchErrorMessage explains why questions could not be loaded.
func fetchErrorMessage(err error) string {
	var fe *opentdb.FetchError
	if !errors.As(err, &fe) {
		return "⚠️ Could not load questions. Please try again."
	}

	switch fe.Kind {
	case opentdb.KindBadRequestURL:
		return "⚠️ The trivia service address is misconfigured."
	case opentdb.KindNetwork:
		return "⚠️ Could not reach the trivia service. Check the connection and try again."
	case opentdb.KindEmptyResults:
		return "⚠️ No questions were returned. Try again or change the filters."
	case opentdb.KindDecoding:
		return "⚠️ The trivia service sent a response that could not be read."
	case opentdb.KindNonZeroResponseCode:
		switch fe.Code {
		case opentdb.CodeNoResults:
			return "⚠️ There are not enough questions for these filters. Try another category or difficulty."
		case opentdb.CodeInvalidParameter:
			return "⚠️ The trivia service rejected these filters."
		case opentdb.CodeRateLimit:
			return "⚠️ Too many requests. Wait a few seconds and retry."
		default:
			return fmt.Sprintf("⚠️ The trivia service answered with code %d.", fe.Code)
		}
	}

	return "⚠️ Could not load questions. Please try again."
}
