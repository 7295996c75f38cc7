package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/infra/postgres"
)

// ResultRepository stores outcomes of completed quiz sessions.
type ResultRepository struct {
	db postgres.DBTX
}

func NewResultRepository(db postgres.DBTX) *ResultRepository {
	return &ResultRepository{db: db}
}

// Save inserts a result. Saving the same session twice is a no-op.
func (r *ResultRepository) Save(ctx context.Context, res *entities.QuizResult) error {
	query := `
		INSERT INTO quiz_results (
			id, user_id, correct_answers, total_questions,
			category_id, difficulty, question_type, started_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.Exec(
		ctx,
		query,
		res.ID,
		res.UserID,
		res.CorrectAnswers,
		res.TotalQuestions,
		res.CategoryID,
		res.Difficulty,
		res.QuestionType,
		res.StartedAt,
		res.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("save quiz result: %w", err)
	}

	return nil
}

// GetStats aggregates all results of a user. A user without results gets zero stats.
func (r *ResultRepository) GetStats(ctx context.Context, userID int64) (*entities.UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(correct_answers), 0),
			COALESCE(SUM(total_questions), 0),
			MAX(completed_at)
		FROM quiz_results
		WHERE user_id = $1
	`

	var stats entities.UserStats
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.GamesPlayed,
		&stats.TotalCorrect,
		&stats.TotalQuestions,
		&stats.LastPlayedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	if stats.GamesPlayed == 0 {
		return &stats, nil
	}

	bestQuery := `
		SELECT correct_answers, total_questions
		FROM quiz_results
		WHERE user_id = $1
		ORDER BY correct_answers::float / GREATEST(total_questions, 1) DESC, total_questions DESC, completed_at DESC
		LIMIT 1
	`
	if err := r.db.QueryRow(ctx, bestQuery, userID).Scan(&stats.BestCorrect, &stats.BestTotal); err != nil {
		return nil, fmt.Errorf("get best result: %w", err)
	}

	return &stats, nil
}

// ListRecent returns up to limit latest results of a user, newest first.
func (r *ResultRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]*entities.QuizResult, error) {
	query := `
		SELECT id, user_id, correct_answers, total_questions,
		       category_id, COALESCE(difficulty, ''), COALESCE(question_type, ''),
		       started_at, completed_at
		FROM quiz_results
		WHERE user_id = $1
		ORDER BY completed_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent results: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entities.QuizResult, error) {
		var res entities.QuizResult
		err := row.Scan(
			&res.ID,
			&res.UserID,
			&res.CorrectAnswers,
			&res.TotalQuestions,
			&res.CategoryID,
			&res.Difficulty,
			&res.QuestionType,
			&res.StartedAt,
			&res.CompletedAt,
		)
		return &res, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan recent results: %w", err)
	}

	return results, nil
}
