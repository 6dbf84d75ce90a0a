// Package learningplatform собирает HTTP-приложение учебной платформы:
// хранилище, кеш, брокер уведомлений, платёжный провайдер, сервисы и маршруты.
package learningplatform

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/studingplace/learning-platform/internal/cache"
	"github.com/studingplace/learning-platform/internal/config"
	"github.com/studingplace/learning-platform/internal/lib/jwt"
	"github.com/studingplace/learning-platform/internal/lib/rabbitmq"
	"github.com/studingplace/learning-platform/internal/migrations"
	"github.com/studingplace/learning-platform/internal/notifier"
	"github.com/studingplace/learning-platform/internal/paymentprovider"
	authservice "github.com/studingplace/learning-platform/internal/services/auth"
	courseservice "github.com/studingplace/learning-platform/internal/services/course"
	lessonservice "github.com/studingplace/learning-platform/internal/services/lesson"
	paymentservice "github.com/studingplace/learning-platform/internal/services/payment"
	subscriptionservice "github.com/studingplace/learning-platform/internal/services/subscription"
	userservice "github.com/studingplace/learning-platform/internal/services/user"
	"github.com/studingplace/learning-platform/internal/storage/repository"
)

// App связывает HTTP-сервер с его зависимостями и управляет их жизненным циклом.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	amqp   *amqp.Connection
	ch     *amqp.Channel
}

// New инициализирует все зависимости приложения и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	notices := notifier.New(ch, logger)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paymentprovider.NewClient(cfg.StripeSecretKey)

	authService := authservice.NewAuthService(db, jwtMaker, notices)
	userService := userservice.NewUserService(db, logger)
	courseService := courseservice.NewCourseService(db, cacheRedis, notices, logger)
	lessonService := lessonservice.NewLessonService(db, notices, logger)
	subscriptionService := subscriptionservice.NewSubscriptionService(db, logger)
	paymentService := paymentservice.NewPaymentService(db, providerClient, paymentservice.Options{
		Currency:   cfg.Currency,
		SuccessURL: cfg.SuccessURL,
		CancelURL:  cfg.CancelURL,
	}, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Services{
		Auth:         authService,
		User:         userService,
		Course:       courseService,
		Lesson:       lessonService,
		Subscription: subscriptionService,
		Payment:      paymentService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		amqp:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.amqp.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		a.db.DB.Close()
		return err
	}
}
