package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/trivia-bot/internal/infra/postgres/repository"
)

type ResetService struct {
	tr Transactor
}

func NewResetService(tr Transactor) *ResetService {
	return &ResetService{tr: tr}
}

// ResetUser deletes the user's stored results and returns how many were removed.
func (s *ResetService) ResetUser(ctx context.Context, userID int64) (int64, error) {
	var deleted int64

	err := s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		userRepo := repository.NewUserRepository(tx)
		resetRepo := repository.NewResetRepository(tx)

		exists, err := userRepo.Exists(ctx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return repository.ErrUserNotFound
		}

		deleted, err = resetRepo.ResetUser(ctx, userID)
		return err
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
