package models

import "time"

// Course представляет курс каталога.
// Price == nil означает бесплатный курс, OwnerID == nil — запись без владельца
// (данные, заведённые до появления владельцев).
type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Preview     string    `json:"preview,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	OwnerID     *int64    `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Вычисляемые поля, заполняются при сериализации списка/карточки.
	LessonsCount int  `json:"lessons_count"`
	IsSubscribed bool `json:"is_subscribed"`
}

// DummyCourse используется для приёма данных курса из JSON-запроса.
type DummyCourse struct {
	Title       string   `json:"title" validate:"required,max=100"`
	Description string   `json:"description" validate:"required"`
	Preview     string   `json:"preview,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
}
