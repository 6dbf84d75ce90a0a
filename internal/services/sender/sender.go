// Package sender формирует и отправляет почтовые уведомления
// по событиям из очереди notices.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/studingplace/learning-platform/internal/lib/sl"
	"github.com/studingplace/learning-platform/internal/lib/smtp"
	"github.com/studingplace/learning-platform/internal/models"
)

// SenderService потребляет события Notice и рассылает письма по SMTP.
type SenderService struct {
	transport Transport
	log       *slog.Logger
}

// Transport описывает подключение к SMTP-серверу.
type Transport interface {
	Connect() (smtp.Client, error)
	GetSMTPUser() string
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport Transport) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// HandleNotice разбирает событие из очереди и отправляет письмо,
// соответствующее его виду. Событие неизвестного вида подтверждается
// без отправки, чтобы не зациклить очередь.
func (s *SenderService) HandleNotice(body []byte) error {
	var notice models.Notice
	if err := json.Unmarshal(body, &notice); err != nil {
		s.log.Error("failed to unmarshal notice body", sl.Err(err))
		return fmt.Errorf("error unmarshalling notice: %w", err)
	}

	var subject, bodyText string
	switch notice.Kind {
	case models.NoticeCourseUpdated:
		subject = fmt.Sprintf("Обновление курса «%s»", notice.CourseTitle)
		bodyText = fmt.Sprintf("Здравствуйте!\n\nМатериалы курса «%s» были обновлены.\n\nЗагляните на платформу, чтобы посмотреть изменения.",
			notice.CourseTitle)
	case models.NoticeLessonAdded:
		subject = fmt.Sprintf("Новый урок в курсе «%s»", notice.CourseTitle)
		bodyText = fmt.Sprintf("Здравствуйте!\n\nВ курсе «%s» появился новый урок: «%s».\n\nПриятного обучения!",
			notice.CourseTitle, notice.LessonTitle)
	case models.NoticeWelcome:
		subject = "Добро пожаловать на обучающую платформу"
		bodyText = fmt.Sprintf("Здравствуйте, %s!\n\nВаша учётная запись создана. Подписывайтесь на курсы, чтобы получать уведомления об обновлениях.",
			notice.UserName)
	default:
		s.log.Warn("skipping notice of unknown kind", slog.String("kind", notice.Kind))
		return nil
	}

	if len(notice.Emails) == 0 {
		s.log.Warn("notice has no recipients", slog.String("kind", notice.Kind))
		return nil
	}
	return s.sendEmail(notice.Emails, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
