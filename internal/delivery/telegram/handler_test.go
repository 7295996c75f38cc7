package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/trivia-bot/internal/opentdb"
	"github.com/aliskhannn/trivia-bot/internal/service"
	"github.com/aliskhannn/trivia-bot/internal/storage"
)

const (
	testChatID = int64(100)
	testUserID = int64(7)
)

type fakeBot struct {
	mu       sync.Mutex
	nextID   int
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	updates  chan tgbotapi.Update
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return b.updates
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) lastSent(t *testing.T) tgbotapi.Chattable {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.sent)
	return b.sent[len(b.sent)-1]
}

func (b *fakeBot) callbackTexts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var texts []string
	for _, r := range b.requests {
		if cb, ok := r.(tgbotapi.CallbackConfig); ok {
			texts = append(texts, cb.Text)
		}
	}
	return texts
}

type fakeFetcher struct {
	questions []entities.TriviaQuestion
	err       error
}

func (f *fakeFetcher) Fetch(context.Context, opentdb.Request) ([]entities.TriviaQuestion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.questions, nil
}

func (f *fakeFetcher) FetchAsync(ctx context.Context, r opentdb.Request) <-chan opentdb.Result {
	ch := make(chan opentdb.Result, 1)
	questions, err := f.Fetch(ctx, r)
	ch <- opentdb.Result{Questions: questions, Err: err}
	close(ch)
	return ch
}

type fakeResults struct {
	mu    sync.Mutex
	saved []*entities.QuizResult
	stats *entities.UserStats
}

func (f *fakeResults) Save(_ context.Context, res *entities.QuizResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, res)
	return nil
}

func (f *fakeResults) GetStats(context.Context, int64) (*entities.UserStats, error) {
	if f.stats == nil {
		return &entities.UserStats{}, nil
	}
	return f.stats, nil
}

func (f *fakeResults) ListRecent(context.Context, int64, int) ([]*entities.QuizResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved, nil
}

type fakeUsers struct {
	mu      sync.Mutex
	ensured []int64
}

func (f *fakeUsers) EnsureUser(_ context.Context, userID, _ int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensured = append(f.ensured, userID)
	return true, nil
}

type fakeReset struct {
	deleted int64
	err     error
}

func (f fakeReset) ResetUser(context.Context, int64) (int64, error) { return f.deleted, f.err }

type fixture struct {
	bot      *fakeBot
	fetcher  *fakeFetcher
	results  *fakeResults
	users    *fakeUsers
	quiz     *service.QuizService
	messages *storage.MessageStorage
	handler  *Handler
}

func newFixture(t *testing.T, reset fakeReset) *fixture {
	t.Helper()

	f := &fixture{
		bot:      &fakeBot{updates: make(chan tgbotapi.Update)},
		fetcher:  &fakeFetcher{questions: testQuestions()},
		results:  &fakeResults{},
		users:    &fakeUsers{},
		messages: storage.NewMessageStorage(),
	}
	f.quiz = service.NewQuizService(f.fetcher, storage.NewQuizStorage(), f.results, zap.NewNop())
	f.handler = NewHandler(
		f.bot,
		zap.NewNop(),
		f.quiz,
		f.users,
		service.NewStatsService(f.results),
		reset,
		f.messages,
		Config{DefaultOptions: entities.PlayOptions{Amount: 5}},
	)
	return f
}

func testQuestions() []entities.TriviaQuestion {
	return []entities.TriviaQuestion{
		{Category: "Science", Question: "Is water wet?", CorrectAnswer: "True", IncorrectAnswers: []string{"False"}},
		{Category: "Geography", Question: "Capital of France?", CorrectAnswer: "Paris", IncorrectAnswers: []string{"Rome", "Berlin"}},
	}
}

func commandUpdate(text string) tgbotapi.Update {
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text:     text,
			Chat:     &tgbotapi.Chat{ID: testChatID},
			From:     &tgbotapi.User{ID: testUserID},
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
		},
	}
}

func callbackUpdate(messageID int, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb",
			From:    &tgbotapi.User{ID: testUserID},
			Message: &tgbotapi.Message{MessageID: messageID, Chat: &tgbotapi.Chat{ID: testChatID}},
			Data:    data,
		},
	}
}

func indexOf(options []string, s string) int {
	for i, o := range options {
		if o == s {
			return i
		}
	}
	return -1
}

func TestHandler_PlayToFinalScore(t *testing.T) {
	f := newFixture(t, fakeReset{})
	ctx := context.Background()

	f.handler.handleUpdate(ctx, commandUpdate("/play"))

	edit, ok := f.bot.lastSent(t).(tgbotapi.EditMessageTextConfig)
	require.True(t, ok, "loading message should become the question")
	assert.Contains(t, edit.Text, "Question 1/2")
	require.NotNil(t, edit.ReplyMarkup)
	assert.Len(t, edit.ReplyMarkup.InlineKeyboard, 2)

	stored, ok := f.messages.Get(testChatID)
	require.True(t, ok)
	assert.Equal(t, edit.MessageID, stored.MessageID)

	session, err := f.quiz.CurrentQuiz(testChatID)
	require.NoError(t, err)

	correct := indexOf(session.CurrentOptions, "True")
	f.handler.handleUpdate(ctx, callbackUpdate(stored.MessageID, buildAnswerCallback(session.Generation, 1, correct)))

	edit, ok = f.bot.lastSent(t).(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Contains(t, edit.Text, "Question 2/2")
	assert.Contains(t, edit.Text, "Correct")

	session, err = f.quiz.CurrentQuiz(testChatID)
	require.NoError(t, err)

	wrong := indexOf(session.CurrentOptions, "Rome")
	f.handler.handleUpdate(ctx, callbackUpdate(stored.MessageID, buildAnswerCallback(session.Generation, 2, wrong)))

	edit, ok = f.bot.lastSent(t).(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Contains(t, edit.Text, "Final score: 1/2")
	require.NotNil(t, edit.ReplyMarkup)
	assert.Equal(t, buildNewGameCallback(entities.PlayOptions{Amount: 5}), *edit.ReplyMarkup.InlineKeyboard[0][0].CallbackData)

	assert.Equal(t, []string{"Correct!", "Wrong! Paris"}, f.bot.callbackTexts())
	assert.Len(t, f.results.saved, 1)

	_, ok = f.messages.Get(testChatID)
	assert.False(t, ok)
}

func TestHandler_FetchFailureOffersRetry(t *testing.T) {
	f := newFixture(t, fakeReset{})
	f.fetcher.err = &opentdb.FetchError{Kind: opentdb.KindNonZeroResponseCode, Code: opentdb.CodeRateLimit}

	f.handler.handleUpdate(context.Background(), commandUpdate("/play hard"))

	edit, ok := f.bot.lastSent(t).(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Contains(t, edit.Text, "Too many requests")
	require.NotNil(t, edit.ReplyMarkup)

	retry := *edit.ReplyMarkup.InlineKeyboard[0][0].CallbackData
	assert.Equal(t, "retry:5:hard::", retry)

	f.fetcher.err = nil
	f.handler.handleUpdate(context.Background(), callbackUpdate(edit.MessageID, retry))

	edit, ok = f.bot.lastSent(t).(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Contains(t, edit.Text, "Question 1/2")

	session, err := f.quiz.CurrentQuiz(testChatID)
	require.NoError(t, err)
	assert.Equal(t, "hard", session.Options.Difficulty)
}

func TestHandler_ResetAfterFinishKeepsFilters(t *testing.T) {
	f := newFixture(t, fakeReset{})
	f.fetcher.questions = testQuestions()[:1]
	ctx := context.Background()

	f.handler.handleUpdate(ctx, commandUpdate("/play hard boolean"))
	session, err := f.quiz.CurrentQuiz(testChatID)
	require.NoError(t, err)

	stored, ok := f.messages.Get(testChatID)
	require.True(t, ok)
	f.handler.handleUpdate(ctx, callbackUpdate(stored.MessageID, buildAnswerCallback(session.Generation, 1, 0)))

	_, err = f.quiz.CurrentQuiz(testChatID)
	require.ErrorIs(t, err, service.ErrNoActiveQuiz)

	f.handler.handleUpdate(ctx, commandUpdate("/reset"))

	next, err := f.quiz.CurrentQuiz(testChatID)
	require.NoError(t, err)
	assert.Equal(t, "hard", next.Options.Difficulty)
	assert.Equal(t, "boolean", next.Options.Type)
}

func TestHandler_CallbackEnsuresUser(t *testing.T) {
	f := newFixture(t, fakeReset{})

	f.handler.handleUpdate(context.Background(), callbackUpdate(1, buildNewGameCallback(entities.PlayOptions{})))

	f.users.mu.Lock()
	defer f.users.mu.Unlock()
	assert.Equal(t, []int64{testUserID}, f.users.ensured)
}

func TestHandler_InvalidPlayArgs(t *testing.T) {
	f := newFixture(t, fakeReset{})

	f.handler.handleUpdate(context.Background(), commandUpdate("/play banana"))

	msg, ok := f.bot.lastSent(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, msgUsageInvalidArg, msg.Text)

	_, err := f.quiz.CurrentQuiz(testChatID)
	assert.ErrorIs(t, err, service.ErrNoActiveQuiz)
}

func TestHandler_StaleButtonAfterReset(t *testing.T) {
	f := newFixture(t, fakeReset{})
	ctx := context.Background()

	f.handler.handleUpdate(ctx, commandUpdate("/play"))
	first, err := f.quiz.CurrentQuiz(testChatID)
	require.NoError(t, err)

	f.handler.handleUpdate(ctx, commandUpdate("/reset"))
	second, err := f.quiz.CurrentQuiz(testChatID)
	require.NoError(t, err)
	assert.Greater(t, second.Generation, first.Generation)

	f.handler.handleUpdate(ctx, callbackUpdate(1, buildAnswerCallback(first.Generation, 1, 0)))

	assert.Equal(t, []string{msgStaleButton}, f.bot.callbackTexts())

	current, err := f.quiz.CurrentQuiz(testChatID)
	require.NoError(t, err)
	assert.Equal(t, 1, current.CurrentQuestionNum)
}

func TestHandler_Stop(t *testing.T) {
	f := newFixture(t, fakeReset{})
	ctx := context.Background()

	f.handler.handleUpdate(ctx, commandUpdate("/stop"))
	msg, ok := f.bot.lastSent(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, msgNoActiveQuiz, msg.Text)

	f.handler.handleUpdate(ctx, commandUpdate("/play"))
	f.handler.handleUpdate(ctx, commandUpdate("/stop"))

	msg, ok = f.bot.lastSent(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, msgQuizStopped, msg.Text)

	_, err := f.quiz.CurrentQuiz(testChatID)
	assert.ErrorIs(t, err, service.ErrNoActiveQuiz)
}

func TestHandler_StatsEmpty(t *testing.T) {
	f := newFixture(t, fakeReset{})

	f.handler.handleUpdate(context.Background(), commandUpdate("/stats"))

	msg, ok := f.bot.lastSent(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, msgStatsEmpty, msg.Text)
}

func TestHandler_ResetStats(t *testing.T) {
	tests := []struct {
		name  string
		reset fakeReset
		data  string
		want  string
	}{
		{name: "confirm", reset: fakeReset{deleted: 3}, data: buildResetConfirmCallback(), want: resetDoneMessage(3)},
		{name: "cancel", data: buildResetCancelCallback(), want: msgResetCancelled},
		{name: "unknown user", reset: fakeReset{err: repository.ErrUserNotFound}, data: buildResetConfirmCallback(), want: msgResetNoUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.reset)

			f.handler.handleUpdate(context.Background(), callbackUpdate(10, tt.data))

			edit, ok := f.bot.lastSent(t).(tgbotapi.EditMessageTextConfig)
			require.True(t, ok)
			assert.Equal(t, tt.want, edit.Text)
			assert.Equal(t, 10, edit.MessageID)
		})
	}
}

func TestHandler_RunStopsWhenUpdatesClose(t *testing.T) {
	f := newFixture(t, fakeReset{})

	done := make(chan error, 1)
	go func() { done <- f.handler.Run(context.Background()) }()

	f.bot.updates <- commandUpdate("/help")
	close(f.bot.updates)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the updates channel closed")
	}

	msg, ok := f.bot.lastSent(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, helpMessage(), msg.Text)
}

func TestHandler_RunStopsOnCancel(t *testing.T) {
	f := newFixture(t, fakeReset{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.handler.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
