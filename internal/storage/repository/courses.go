package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/studingplace/learning-platform/internal/apperr"
	"github.com/studingplace/learning-platform/internal/models"
)

const courseColumns = `c.id, c.title, c.description, c.preview, c.price, c.owner_id,
			      c.created_at, c.updated_at,
			      (SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id) AS lessons_count`

func scanCourse(row interface{ Scan(...any) error }) (*models.Course, error) {
	var c models.Course
	var price sql.NullFloat64
	var ownerID sql.NullInt64
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Preview, &price, &ownerID,
		&c.CreatedAt, &c.UpdatedAt, &c.LessonsCount); err != nil {
		return nil, err
	}
	if price.Valid {
		c.Price = &price.Float64
	}
	if ownerID.Valid {
		c.OwnerID = &ownerID.Int64
	}
	return &c, nil
}

// CreateCourse вставляет новый курс и возвращает его ID.
func (s *Storage) CreateCourse(ctx context.Context, course models.Course) (int64, error) {
	const op = "storage.CreateCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO courses (title, description, preview, price, owner_id)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		course.Title, course.Description, course.Preview, course.Price, course.OwnerID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadCourse возвращает курс по его ID вместе с количеством уроков.
func (s *Storage) ReadCourse(ctx context.Context, id int64) (*models.Course, error) {
	const op = "storage.ReadCourse"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + courseColumns + ` FROM courses c WHERE c.id = $1`
	course, err := scanCourse(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return course, nil
}

// UpdateCourse обновляет данные курса по его ID и возвращает количество изменённых строк.
func (s *Storage) UpdateCourse(ctx context.Context, req models.DummyCourse, id int64) (int, error) {
	const op = "storage.UpdateCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE courses
			  SET title = $1, description = $2, preview = $3, price = $4, updated_at = now()
			  WHERE id = $5`
	result, err := s.DB.ExecContext(ctx, query, req.Title, req.Description, req.Preview, req.Price, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveCourse удаляет курс по ID и возвращает количество удалённых строк.
// Уроки и подписки курса удаляются каскадом на уровне схемы.
func (s *Storage) RemoveCourse(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM courses WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListCourses возвращает все курсы с пагинацией и общее их количество.
func (s *Storage) ListCourses(ctx context.Context, limit, offset int) ([]*models.Course, int, error) {
	const op = "storage.ListCourses"
	return s.listCourses(ctx, op,
		`SELECT `+courseColumns+` FROM courses c ORDER BY c.id LIMIT $1 OFFSET $2`,
		`SELECT COUNT(*) FROM courses`,
		[]any{limit, offset}, nil)
}

// ListCoursesByOwner возвращает курсы, принадлежащие пользователю, с пагинацией.
func (s *Storage) ListCoursesByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Course, int, error) {
	const op = "storage.ListCoursesByOwner"
	return s.listCourses(ctx, op,
		`SELECT `+courseColumns+` FROM courses c WHERE c.owner_id = $1 ORDER BY c.id LIMIT $2 OFFSET $3`,
		`SELECT COUNT(*) FROM courses WHERE owner_id = $1`,
		[]any{ownerID, limit, offset}, []any{ownerID})
}

func (s *Storage) listCourses(ctx context.Context, op, query, countQuery string, args, countArgs []any) ([]*models.Course, int, error) {
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Course
	for rows.Next() {
		item, err := scanCourse(rows)
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

// CourseExists сообщает, существует ли курс с данным ID.
func (s *Storage) CourseExists(ctx context.Context, id int64) (bool, error) {
	const op = "storage.CourseExists"
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)`
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListSubscriberEmails возвращает email всех активных подписчиков курса.
func (s *Storage) ListSubscriberEmails(ctx context.Context, courseID int64) ([]string, error) {
	const op = "storage.ListSubscriberEmails"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.email
			  FROM subscriptions s
			  JOIN users u ON u.id = s.user_id
			  WHERE s.course_id = $1 AND s.is_active = true AND u.is_active = true
			  ORDER BY u.email`
	rows, err := s.DB.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
