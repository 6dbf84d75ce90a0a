package sender_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studingplace/learning-platform/internal/lib/smtp"
	"github.com/studingplace/learning-platform/internal/models"
	"github.com/studingplace/learning-platform/internal/services/sender"
)

// clientFake записывает SMTP-диалог вместо отправки письма.
type clientFake struct {
	from string
	rcpt []string
	body bytes.Buffer
	quit bool
}

type writeCloser struct{ *clientFake }

func (w writeCloser) Write(p []byte) (int, error) { return w.body.Write(p) }
func (w writeCloser) Close() error                { return nil }

func (c *clientFake) Mail(from string) error          { c.from = from; return nil }
func (c *clientFake) Rcpt(to string) error            { c.rcpt = append(c.rcpt, to); return nil }
func (c *clientFake) Data() (io.WriteCloser, error)   { return writeCloser{c}, nil }
func (c *clientFake) Quit() error                     { c.quit = true; return nil }
func (c *clientFake) Close() error                    { return nil }

type transportFake struct{ client *clientFake }

func (t *transportFake) Connect() (smtp.Client, error) { return t.client, nil }
func (t *transportFake) GetSMTPUser() string           { return "notices@example.com" }

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func marshal(t *testing.T, n models.Notice) []byte {
	t.Helper()
	body, err := json.Marshal(n)
	require.NoError(t, err)
	return body
}

func TestSenderService_HandleNotice_LessonAdded(t *testing.T) {
	client := &clientFake{}
	svc := sender.NewSenderService(newNoopLogger(), &transportFake{client: client})

	body := marshal(t, models.Notice{
		Kind:        models.NoticeLessonAdded,
		CourseID:    10,
		CourseTitle: "Go с нуля",
		LessonTitle: "Срезы",
		Emails:      []string{"a@b.c", "d@e.f"},
	})

	require.NoError(t, svc.HandleNotice(body))
	assert.Equal(t, "notices@example.com", client.from)
	assert.Equal(t, []string{"a@b.c", "d@e.f"}, client.rcpt)
	assert.Contains(t, client.body.String(), "Go с нуля")
	assert.Contains(t, client.body.String(), "Срезы")
	assert.True(t, client.quit)
}

func TestSenderService_HandleNotice_Welcome(t *testing.T) {
	client := &clientFake{}
	svc := sender.NewSenderService(newNoopLogger(), &transportFake{client: client})

	body := marshal(t, models.Notice{
		Kind:     models.NoticeWelcome,
		UserName: "Ivan",
		Emails:   []string{"ivan@example.com"},
	})

	require.NoError(t, svc.HandleNotice(body))
	assert.Contains(t, client.body.String(), "Ivan")
}

func TestSenderService_HandleNotice_UnknownKindAcked(t *testing.T) {
	client := &clientFake{}
	svc := sender.NewSenderService(newNoopLogger(), &transportFake{client: client})

	body := marshal(t, models.Notice{Kind: "mystery", Emails: []string{"a@b.c"}})

	// Неизвестный вид подтверждается без отправки, чтобы не зациклить очередь.
	require.NoError(t, svc.HandleNotice(body))
	assert.Empty(t, client.rcpt)
}

func TestSenderService_HandleNotice_BadJSON(t *testing.T) {
	svc := sender.NewSenderService(newNoopLogger(), &transportFake{client: &clientFake{}})
	assert.Error(t, svc.HandleNotice([]byte("{not json")))
}
