package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/studingplace/learning-platform/internal/apperr"
	"github.com/studingplace/learning-platform/internal/models"
)

const lessonColumns = `id, title, description, preview, video_link, course_id, owner_id,
			      created_at, updated_at`

func scanLesson(row interface{ Scan(...any) error }) (*models.Lesson, error) {
	var l models.Lesson
	var ownerID sql.NullInt64
	if err := row.Scan(&l.ID, &l.Title, &l.Description, &l.Preview, &l.VideoLink,
		&l.CourseID, &ownerID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	if ownerID.Valid {
		l.OwnerID = &ownerID.Int64
	}
	return &l, nil
}

// CreateLesson вставляет новый урок и возвращает его ID.
func (s *Storage) CreateLesson(ctx context.Context, lesson models.Lesson) (int64, error) {
	const op = "storage.CreateLesson"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO lessons (title, description, preview, video_link, course_id, owner_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		lesson.Title, lesson.Description, lesson.Preview, lesson.VideoLink,
		lesson.CourseID, lesson.OwnerID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadLesson возвращает урок по его ID.
func (s *Storage) ReadLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	const op = "storage.ReadLesson"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`
	lesson, err := scanLesson(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return lesson, nil
}

// UpdateLesson обновляет данные урока по его ID и возвращает количество изменённых строк.
func (s *Storage) UpdateLesson(ctx context.Context, req models.DummyLesson, id int64) (int, error) {
	const op = "storage.UpdateLesson"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE lessons
			  SET title = $1, description = $2, preview = $3, video_link = $4, updated_at = now()
			  WHERE id = $5`
	result, err := s.DB.ExecContext(ctx, query,
		req.Title, req.Description, req.Preview, req.VideoLink, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveLesson удаляет урок по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveLesson(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveLesson"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM lessons WHERE id = $1`
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

// ListLessons возвращает все уроки с пагинацией и общее их количество.
func (s *Storage) ListLessons(ctx context.Context, limit, offset int) ([]*models.Lesson, int, error) {
	const op = "storage.ListLessons"
	return s.listLessons(ctx, op,
		`SELECT `+lessonColumns+` FROM lessons ORDER BY id LIMIT $1 OFFSET $2`,
		`SELECT COUNT(*) FROM lessons`,
		[]any{limit, offset}, nil)
}

// ListLessonsByOwner возвращает уроки, принадлежащие пользователю, с пагинацией.
func (s *Storage) ListLessonsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Lesson, int, error) {
	const op = "storage.ListLessonsByOwner"
	return s.listLessons(ctx, op,
		`SELECT `+lessonColumns+` FROM lessons WHERE owner_id = $1 ORDER BY id LIMIT $2 OFFSET $3`,
		`SELECT COUNT(*) FROM lessons WHERE owner_id = $1`,
		[]any{ownerID, limit, offset}, []any{ownerID})
}

func (s *Storage) listLessons(ctx context.Context, op, query, countQuery string, args, countArgs []any) ([]*models.Lesson, int, error) {
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

	var result []*models.Lesson
	for rows.Next() {
		item, err := scanLesson(rows)
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
