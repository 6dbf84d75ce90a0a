package models

import "time"

// Lesson представляет урок внутри курса. Ссылка на видео должна вести
// на разрешённый видеохостинг по https (см. lib/videolink).
type Lesson struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Preview     string    `json:"preview,omitempty"`
	VideoLink   string    `json:"video_link"`
	CourseID    int64     `json:"course"`
	OwnerID     *int64    `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DummyLesson используется для приёма данных урока из JSON-запроса.
type DummyLesson struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required"`
	Preview     string `json:"preview,omitempty"`
	VideoLink   string `json:"video_link,omitempty"`
	CourseID    int64  `json:"course_id" validate:"required,gt=0"`
}
