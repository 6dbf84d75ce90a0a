package models

// Виды уведомлений, публикуемых в очередь notices.
const (
	NoticeCourseUpdated = "course_updated"
	NoticeLessonAdded   = "lesson_added"
	NoticeWelcome       = "welcome"
)

// Notice — событие для почтовых уведомлений. Публикуется сервисами
// каталога и регистрации, потребляется воркером notification-sender.
// Список адресатов вкладывается в событие, чтобы воркеру не требовался
// доступ к базе для рассылки.
type Notice struct {
	Kind        string   `json:"kind"`
	CourseID    int64    `json:"course_id,omitempty"`
	CourseTitle string   `json:"course_title,omitempty"`
	LessonTitle string   `json:"lesson_title,omitempty"`
	UserName    string   `json:"user_name,omitempty"`
	Emails      []string `json:"emails"`
}
