package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/studingplace/learning-platform/internal/apperr"
	"github.com/studingplace/learning-platform/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его ID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO users (email, password_hash, name, phone, city, avatar)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Name, user.Phone, user.City,
		user.Avatar).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по email вместе с его группами.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	return s.getUser(ctx, op, `WHERE email = $1`, email)
}

// GetUser возвращает пользователя по ID вместе с его группами.
func (s *Storage) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	const op = "storage.GetUser"
	return s.getUser(ctx, op, `WHERE id = $1`, userID)
}

func (s *Storage) getUser(ctx context.Context, op, where string, arg any) (*models.User, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, name, phone, city, avatar,
			      is_active, is_staff, is_superuser, created_at
			  FROM users ` + where
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone,
		&u.City, &u.Avatar, &u.IsActive, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	groups, err := s.GetUserGroups(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.Groups = groups
	return u, nil
}

// GetUserGroups возвращает имена групп, в которых состоит пользователь.
func (s *Storage) GetUserGroups(ctx context.Context, userID int64) ([]string, error) {
	const op = "storage.GetUserGroups"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT group_name FROM user_groups WHERE user_id = $1 ORDER BY group_name`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AddUserToGroup добавляет пользователя в группу. Повторное добавление — не ошибка.
func (s *Storage) AddUserToGroup(ctx context.Context, userID int64, group string) error {
	const op = "storage.AddUserToGroup"
	query := `INSERT INTO user_groups (user_id, group_name) VALUES ($1, $2)
			  ON CONFLICT (user_id, group_name) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, userID, group); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateProfile обновляет изменяемые поля профиля пользователя.
// Пустые поля запроса оставляют прежние значения.
func (s *Storage) UpdateProfile(ctx context.Context, userID int64, req models.DummyProfile) (int, error) {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name = COALESCE(NULLIF($1, ''), name),
			      phone = COALESCE(NULLIF($2, ''), phone),
			      city = COALESCE(NULLIF($3, ''), city),
			      avatar = COALESCE(NULLIF($4, ''), avatar)
			  WHERE id = $5`
	result, err := s.DB.ExecContext(ctx, query, req.Name, req.Phone, req.City, req.Avatar, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
