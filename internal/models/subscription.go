package models

import "time"

// Subscription связывает пользователя и курс, на обновления которого он подписан.
// Пара (user, course) уникальна на уровне хранилища: повторная подписка — это
// переключение, а не новая строка.
type Subscription struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user"`
	CourseID  int64     `json:"course"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// DummySubscription используется для приёма запроса на переключение подписки.
type DummySubscription struct {
	CourseID int64 `json:"course_id" validate:"required,gt=0"`
}
