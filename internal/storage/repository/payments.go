package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/studingplace/learning-platform/internal/apperr"
	"github.com/studingplace/learning-platform/internal/models"
)

const paymentColumns = `id, user_id, course_id, lesson_id, amount, payment_method,
			      stripe_product_id, stripe_price_id, stripe_session_id, payment_url,
			      status, created_at`

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	var p models.Payment
	var courseID, lessonID sql.NullInt64
	if err := row.Scan(&p.ID, &p.UserID, &courseID, &lessonID, &p.Amount, &p.PaymentMethod,
		&p.StripeProductID, &p.StripePriceID, &p.StripeSessionID, &p.PaymentURL,
		&p.Status, &p.CreatedAt); err != nil {
		return nil, err
	}
	if courseID.Valid {
		p.CourseID = &courseID.Int64
	}
	if lessonID.Valid {
		p.LessonID = &lessonID.Int64
	}
	return &p, nil
}

// CreatePayment вставляет новый платёж и возвращает его ID.
// Инвариант "ровно одна из целей (курс, урок)" дополнительно закреплён
// CHECK-ограничением payments_single_target.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (int64, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (user_id, course_id, lesson_id, amount, payment_method,
			      stripe_product_id, stripe_price_id, stripe_session_id, payment_url, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		payment.UserID, payment.CourseID, payment.LessonID, payment.Amount,
		payment.PaymentMethod, payment.StripeProductID, payment.StripePriceID,
		payment.StripeSessionID, payment.PaymentURL, payment.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadPayment возвращает платёж по ID, если он принадлежит пользователю.
// Чужой или отсутствующий платёж неразличимы для вызывающего: not found.
func (s *Storage) ReadPayment(ctx context.Context, id, userID int64) (*models.Payment, error) {
	const op = "storage.ReadPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 AND user_id = $2`
	payment, err := scanPayment(s.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payment, nil
}

// UpdatePaymentStatus сохраняет новый статус платежа.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, id int64, status string) error {
	const op = "storage.UpdatePaymentStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments SET status = $1 WHERE id = $2`
	if _, err := s.DB.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListPayments возвращает платежи пользователя, новые сначала, с пагинацией,
// и общее их количество.
func (s *Storage) ListPayments(ctx context.Context, userID int64, limit, offset int) ([]*models.Payment, int, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payments WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE user_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		item, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}
