// Package auth содержит бизнес-логику регистрации, входа и проверки токенов.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/studingplace/learning-platform/internal/lib/jwt"
	"github.com/studingplace/learning-platform/internal/lib/password"
	"github.com/studingplace/learning-platform/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
// Отсутствие пользователя и неверный пароль для вызывающего неразличимы.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его ID.
	RegisterUser(ctx context.Context, user models.User) (int64, error)
	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserGroups возвращает группы пользователя.
	GetUserGroups(ctx context.Context, userID int64) ([]string, error)
}

// Notifier публикует приветственное письмо. Ошибки отправки не всплывают.
type Notifier interface {
	Welcome(name, email string)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	notifier Notifier
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, notifier Notifier) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		notifier: notifier,
	}
}

// Register создает нового пользователя с хэшированием пароля
// и публикует приветственное письмо.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (int64, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return 0, err
	}
	user := models.User{
		Email:        req.Email,
		PasswordHash: hashed,
		Name:         req.Name,
		Phone:        req.Phone,
		City:         req.City,
		IsActive:     true,
	}
	id, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return 0, err
	}

	if s.notifier != nil {
		s.notifier.Welcome(req.Name, req.Email)
	}
	return id, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.jwtMaker.GenerateToken(user.ID, user.Email)
}

// ValidateToken проверяет JWT и возвращает идентичность пользователя
// вместе с актуальным членством в группах. Группы читаются из хранилища
// на каждый запрос: изменение состава модераторов действует сразу.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.ValidateToken"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	groups, err := s.users.GetUserGroups(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.User{
		ID:     claims.UserID,
		Email:  claims.Email,
		Groups: groups,
	}, nil
}
