// Package learningplatform предоставляет маршруты для основного приложения.
package learningplatform

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/studingplace/learning-platform/internal/http/handlers/auth/login"
	"github.com/studingplace/learning-platform/internal/http/handlers/auth/register"
	"github.com/studingplace/learning-platform/internal/http/handlers/course/coursecreate"
	"github.com/studingplace/learning-platform/internal/http/handlers/course/courselist"
	"github.com/studingplace/learning-platform/internal/http/handlers/course/courseread"
	"github.com/studingplace/learning-platform/internal/http/handlers/course/courseremove"
	"github.com/studingplace/learning-platform/internal/http/handlers/course/courseupdate"
	"github.com/studingplace/learning-platform/internal/http/handlers/health"
	"github.com/studingplace/learning-platform/internal/http/handlers/lesson/lessoncreate"
	"github.com/studingplace/learning-platform/internal/http/handlers/lesson/lessonlist"
	"github.com/studingplace/learning-platform/internal/http/handlers/lesson/lessonread"
	"github.com/studingplace/learning-platform/internal/http/handlers/lesson/lessonremove"
	"github.com/studingplace/learning-platform/internal/http/handlers/lesson/lessonupdate"
	"github.com/studingplace/learning-platform/internal/http/handlers/payment/paymentcreate"
	"github.com/studingplace/learning-platform/internal/http/handlers/payment/paymentlist"
	"github.com/studingplace/learning-platform/internal/http/handlers/payment/paymentstatus"
	"github.com/studingplace/learning-platform/internal/http/handlers/subscription/toggle"
	"github.com/studingplace/learning-platform/internal/http/handlers/user/profile"
	"github.com/studingplace/learning-platform/internal/http/handlers/user/profileupdate"
	"github.com/studingplace/learning-platform/internal/http/middlewarectx"
	authservice "github.com/studingplace/learning-platform/internal/services/auth"
	courseservice "github.com/studingplace/learning-platform/internal/services/course"
	lessonservice "github.com/studingplace/learning-platform/internal/services/lesson"
	paymentservice "github.com/studingplace/learning-platform/internal/services/payment"
	subscriptionservice "github.com/studingplace/learning-platform/internal/services/subscription"
	userservice "github.com/studingplace/learning-platform/internal/services/user"
)

// Services объединяет сервисы бизнес-логики, используемые маршрутами.
type Services struct {
	Auth         *authservice.AuthService
	User         *userservice.UserService
	Course       *courseservice.CourseService
	Lesson       *lessonservice.LessonService
	Subscription *subscriptionservice.SubscriptionService
	Payment      *paymentservice.PaymentService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/users/me", profile.New(logger, s.User).ServeHTTP)
			r.Put("/users/me", profileupdate.New(logger, s.User).ServeHTTP)

			r.Post("/courses", coursecreate.New(logger, s.Course).ServeHTTP)
			r.Get("/courses", courselist.New(logger, s.Course).ServeHTTP)
			r.Get("/courses/{id}", courseread.New(logger, s.Course).ServeHTTP)
			r.Put("/courses/{id}", courseupdate.New(logger, s.Course).ServeHTTP)
			r.Delete("/courses/{id}", courseremove.New(logger, s.Course).ServeHTTP)

			r.Post("/lessons", lessoncreate.New(logger, s.Lesson).ServeHTTP)
			r.Get("/lessons", lessonlist.New(logger, s.Lesson).ServeHTTP)
			r.Get("/lessons/{id}", lessonread.New(logger, s.Lesson).ServeHTTP)
			r.Put("/lessons/{id}", lessonupdate.New(logger, s.Lesson).ServeHTTP)
			r.Delete("/lessons/{id}", lessonremove.New(logger, s.Lesson).ServeHTTP)

			r.Post("/subscriptions/toggle", toggle.New(logger, s.Subscription).ServeHTTP)

			r.Post("/payments", paymentcreate.New(logger, s.Payment).ServeHTTP)
			r.Get("/payments", paymentlist.New(logger, s.Payment).ServeHTTP)
			r.Get("/payments/{id}/status", paymentstatus.New(logger, s.Payment).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
