// Package user содержит бизнес-логику профиля пользователя.
package user

import (
	"context"
	"log/slog"

	"github.com/studingplace/learning-platform/internal/models"
)

// Repository определяет методы для работы с профилями в хранилище.
type Repository interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req models.DummyProfile) (int, error)
}

// UserService реализует операции над профилем текущего пользователя.
type UserService struct {
	repo Repository
	log  *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo Repository, log *slog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// Profile возвращает профиль пользователя по его ID.
func (s *UserService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return s.repo.GetUser(ctx, userID)
}

// UpdateProfile обновляет изменяемые поля профиля и возвращает его новое состояние.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req models.DummyProfile) (*models.User, error) {
	if _, err := s.repo.UpdateProfile(ctx, userID, req); err != nil {
		return nil, err
	}
	s.log.Info("updated user profile", slog.Int64("user", userID))
	return s.repo.GetUser(ctx, userID)
}
