package service

import (
	"context"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

const maxRecentResults = 10

type StatsService struct {
	repository ResultRepository
}

func NewStatsService(repository ResultRepository) *StatsService {
	return &StatsService{repository: repository}
}

// GetStats returns aggregated results of the user.
func (s *StatsService) GetStats(ctx context.Context, userID int64) (*entities.UserStats, error) {
	return s.repository.GetStats(ctx, userID)
}

// Recent returns the latest results, capped at maxRecentResults.
func (s *StatsService) Recent(ctx context.Context, userID int64, limit int) ([]*entities.QuizResult, error) {
	if limit <= 0 || limit > maxRecentResults {
		limit = maxRecentResults
	}
	return s.repository.ListRecent(ctx, userID, limit)
}
