// Package subscription содержит бизнес-логику подписки на обновления курса.
package subscription

import (
	"context"
	"log/slog"

	"github.com/studingplace/learning-platform/internal/apperr"
)

// Repository определяет методы для работы с подписками в хранилище.
type Repository interface {
	// CourseExists сообщает, существует ли курс.
	CourseExists(ctx context.Context, courseID int64) (bool, error)
	// ToggleSubscription атомарно переключает подписку и возвращает новое состояние.
	ToggleSubscription(ctx context.Context, userID, courseID int64) (bool, error)
}

// SubscriptionService реализует переключение подписки пользователя на курс.
//
// Подписка не связана с покупками: это бесплатное "следить за обновлениями",
// доступное любому аутентифицированному пользователю для любого курса.
type SubscriptionService struct {
	repo Repository
	log  *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo Repository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo: repo,
		log:  log,
	}
}

// Toggle переключает подписку пользователя на курс и возвращает её новое
// состояние: true — подписка создана, false — снята. Операция обратна сама
// себе: два последовательных вызова восстанавливают исходное состояние.
// Уникальность пары (user, course) обеспечивается ограничением хранилища.
func (s *SubscriptionService) Toggle(ctx context.Context, userID, courseID int64) (bool, error) {
	exists, err := s.repo.CourseExists(ctx, courseID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, apperr.ErrNotFound
	}

	subscribed, err := s.repo.ToggleSubscription(ctx, userID, courseID)
	if err != nil {
		return false, err
	}

	s.log.Info("toggled subscription",
		slog.Int64("user", userID),
		slog.Int64("course", courseID),
		slog.Bool("subscribed", subscribed))
	return subscribed, nil
}
