// Package notifier публикует события почтовых уведомлений в RabbitMQ.
//
// Публикация выполняется по принципу fire-and-forget: ошибка брокера
// логируется и не влияет на результат операции, которая её вызвала.
package notifier

import (
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/studingplace/learning-platform/internal/lib/rabbitmq"
	"github.com/studingplace/learning-platform/internal/lib/sl"
	"github.com/studingplace/learning-platform/internal/models"
)

// Notifier отправляет события уведомлений в очередь notices.
type Notifier struct {
	ch  *amqp.Channel
	log *slog.Logger
}

// New создает новый Notifier поверх открытого канала RabbitMQ.
func New(ch *amqp.Channel, log *slog.Logger) *Notifier {
	return &Notifier{ch: ch, log: log}
}

// CourseUpdated публикует уведомление об обновлении курса для его подписчиков.
func (n *Notifier) CourseUpdated(course *models.Course, emails []string) {
	n.publish(models.Notice{
		Kind:        models.NoticeCourseUpdated,
		CourseID:    course.ID,
		CourseTitle: course.Title,
		Emails:      emails,
	})
}

// LessonAdded публикует уведомление о новом уроке для подписчиков курса.
func (n *Notifier) LessonAdded(course *models.Course, lessonTitle string, emails []string) {
	n.publish(models.Notice{
		Kind:        models.NoticeLessonAdded,
		CourseID:    course.ID,
		CourseTitle: course.Title,
		LessonTitle: lessonTitle,
		Emails:      emails,
	})
}

// Welcome публикует приветственное письмо новому пользователю.
func (n *Notifier) Welcome(name, email string) {
	n.publish(models.Notice{
		Kind:     models.NoticeWelcome,
		UserName: name,
		Emails:   []string{email},
	})
}

func (n *Notifier) publish(notice models.Notice) {
	if len(notice.Emails) == 0 {
		n.log.Info("no recipients for notice", slog.String("kind", notice.Kind))
		return
	}
	err := rabbitmq.PublishMessage(n.ch, rabbitmq.NotificationsExchange, rabbitmq.NoticesRoutingKey, notice)
	if err != nil {
		n.log.Error("failed to publish notice", slog.String("kind", notice.Kind), sl.Err(err))
	}
}
