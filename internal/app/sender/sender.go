// Package sender собирает воркер почтовых уведомлений: подключение к
// RabbitMQ, SMTP-транспорт и потребитель очереди notices.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/studingplace/learning-platform/internal/config"
	"github.com/studingplace/learning-platform/internal/lib/rabbitmq"
	"github.com/studingplace/learning-platform/internal/lib/smtp"
	senderservice "github.com/studingplace/learning-platform/internal/services/sender"
)

// App связывает потребителя очереди уведомлений с его зависимостями.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New инициализирует зависимости воркера уведомлений.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(logger, newTransport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.NoticesQueue, a.senderService.HandleNotice)
	if err != nil {
		a.logger.Error("failed to start notices consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notification sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
