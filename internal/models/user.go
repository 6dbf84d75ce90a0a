// Package models содержит доменные структуры учебной платформы:
// пользователей, курсы, уроки, подписки и платежи, а также
// вспомогательные Dummy-типы для приёма данных из JSON-запросов.
package models

import "time"

// ModeratorsGroup — имя группы, членство в которой даёт права модератора.
const ModeratorsGroup = "Moderators"

// User представляет зарегистрированного пользователя платформы.
// Идентичность пользователя определяется email (уникален).
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	City         string    `json:"city,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	Groups       []string  `json:"groups,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// InGroup сообщает, состоит ли пользователь в группе с данным именем.
func (u *User) InGroup(name string) bool {
	for _, g := range u.Groups {
		if g == name {
			return true
		}
	}
	return false
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,max=150"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=15"`
	City     string `json:"city,omitempty" validate:"omitempty,max=100"`
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// DummyProfile используется для обновления профиля текущего пользователя.
type DummyProfile struct {
	Name   string `json:"name,omitempty" validate:"omitempty,max=150"`
	Phone  string `json:"phone,omitempty" validate:"omitempty,max=15"`
	City   string `json:"city,omitempty" validate:"omitempty,max=100"`
	Avatar string `json:"avatar,omitempty"`
}
