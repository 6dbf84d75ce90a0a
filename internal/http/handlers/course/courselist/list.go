// Package courselist реализует HTTP-обработчик постраничного списка курсов.
//
// Модератор видит все курсы, остальные — только собственные. Ответ
// упакован в конверт списка с общим количеством и ссылками на страницы.
package courselist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/studingplace/learning-platform/internal/authz"
	"github.com/studingplace/learning-platform/internal/http/middlewarectx"
	"github.com/studingplace/learning-platform/internal/http/response"
	"github.com/studingplace/learning-platform/internal/lib/sl"
	"github.com/studingplace/learning-platform/internal/models"
)

// Handler обрабатывает запросы на получение списка курсов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка курсов.
type Service interface {
	List(ctx context.Context, p authz.Principal, limit, offset int) ([]*models.Course, int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список курсов
// @Description Возвращает страницу курсов, видимых пользователю, с общим количеством.
// @Tags Courses
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Размер страницы (по умолчанию 10)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} response.ListEnvelope "Страница курсов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /courses [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	p, ok := middlewarectx.Principal(r.Context())
	if !ok {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	courses, total, err := h.service.List(r.Context(), p, limit, offset)
	if err != nil {
		log.Error("failed to list courses", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list courses"))
		return
	}

	log.Info("listed courses", slog.Int("count", len(courses)), slog.Int("total", total))
	render.JSON(w, r, response.NewListEnvelope(r.URL.Path, total, limit, offset, courses))
}
