package service

import (
	"context"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

type UserService struct {
	repository UserRepository
}

func NewUserService(repository UserRepository) *UserService {
	return &UserService{repository: repository}
}

// EnsureUser creates the user on first contact and keeps the chat ID current.
// It reports whether the user is new.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64) (bool, error) {
	return s.repository.Save(ctx, entities.NewUser(userID, chatID))
}
