package repository

import (
	"context"
	"fmt"
)

// ToggleSubscription атомарно переключает подписку пользователя на курс.
// Возвращает true, если подписка создана, и false, если снята.
//
// Выполняется в транзакции: сначала попытка удалить существующую строку,
// затем вставка с ON CONFLICT DO NOTHING. Гонка одновременных переключений
// разрешается уникальным ограничением (user_id, course_id) на уровне схемы,
// а не проверкой в приложении.
func (s *Storage) ToggleSubscription(ctx context.Context, userID, courseID int64) (bool, error) {
	const op = "storage.ToggleSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = $1 AND course_id = $2`,
		userID, courseID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	subscribed := false
	if deleted == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO subscriptions (user_id, course_id, is_active)
			 VALUES ($1, $2, true)
			 ON CONFLICT (user_id, course_id) DO NOTHING`,
			userID, courseID)
		if err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		subscribed = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return subscribed, nil
}

// IsSubscribed сообщает, есть ли у пользователя активная подписка на курс.
func (s *Storage) IsSubscribed(ctx context.Context, userID, courseID int64) (bool, error) {
	const op = "storage.IsSubscribed"
	var exists bool
	query := `SELECT EXISTS (
	    SELECT 1 FROM subscriptions
	    WHERE user_id = $1 AND course_id = $2 AND is_active = true
	)`
	if err := s.DB.QueryRowContext(ctx, query, userID, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CountSubscriptions возвращает количество строк подписок для пары (user, course).
// Используется тестами для проверки уникальности.
func (s *Storage) CountSubscriptions(ctx context.Context, userID, courseID int64) (int, error) {
	const op = "storage.CountSubscriptions"
	var count int
	query := `SELECT COUNT(*) FROM subscriptions WHERE user_id = $1 AND course_id = $2`
	if err := s.DB.QueryRowContext(ctx, query, userID, courseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
