package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/service"
)

type recordingResults struct {
	fakeResults
	limit int
}

func (r *recordingResults) ListRecent(_ context.Context, _ int64, limit int) ([]*entities.QuizResult, error) {
	r.limit = limit
	return []*entities.QuizResult{{CorrectAnswers: 3, TotalQuestions: 5}}, nil
}

func TestStatsService_RecentCapsLimit(t *testing.T) {
	repo := &recordingResults{}
	svc := service.NewStatsService(repo)

	for _, tc := range []struct{ in, want int }{{0, 10}, {-1, 10}, {3, 3}, {100, 10}} {
		res, err := svc.Recent(context.Background(), 1, tc.in)
		require.NoError(t, err)
		assert.Len(t, res, 1)
		assert.Equal(t, tc.want, repo.limit)
	}
}

type fakeUsers struct {
	saved []*entities.User
}

func (f *fakeUsers) Save(_ context.Context, u *entities.User) (bool, error) {
	f.saved = append(f.saved, u)
	return len(f.saved) == 1, nil
}

func (f *fakeUsers) Exists(context.Context, int64) (bool, error) {
	return len(f.saved) > 0, nil
}

func TestUserService_EnsureUser(t *testing.T) {
	repo := &fakeUsers{}
	svc := service.NewUserService(repo)

	created, err := svc.EnsureUser(context.Background(), 7, 70)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureUser(context.Background(), 7, 70)
	require.NoError(t, err)
	assert.False(t, created)

	require.Len(t, repo.saved, 2)
	assert.Equal(t, int64(70), repo.saved[0].ChatID)
	assert.True(t, repo.saved[0].IsActive)
}
