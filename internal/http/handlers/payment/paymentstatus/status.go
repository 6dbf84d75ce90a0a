// Package paymentstatus реализует HTTP-обработчик проверки статуса платежа.
//
// Handler запрашивает у платёжного провайдера актуальное состояние
// checkout-сессии платежа и возвращает обновлённый платёж.
package paymentstatus

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/studingplace/learning-platform/internal/apperr"
	"github.com/studingplace/learning-platform/internal/http/middlewarectx"
	"github.com/studingplace/learning-platform/internal/http/response"
	"github.com/studingplace/learning-platform/internal/lib/sl"
	"github.com/studingplace/learning-platform/internal/models"
)

// Handler обрабатывает запросы на проверку статуса платежа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики проверки статуса платежа.
type Service interface {
	CheckStatus(ctx context.Context, userID, paymentID int64) (*models.Payment, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверить статус платежа
// @Description Запрашивает у провайдера состояние checkout-сессии и возвращает обновлённый платёж.
// @Tags Payments
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID платежа"
// @Success 200 {object} map[string]any "Платёж с актуальным статусом"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID или платёж без сессии"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Платёж не найден"
// @Failure 502 {object} response.ErrorResponse "Ошибка платёжного провайдера"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments/{id}/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	p, ok := middlewarectx.Principal(r.Context())
	if !ok {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	payment, err := h.service.CheckStatus(r.Context(), p.UserID, id)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			log.Info("payment not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("payment not found"))
		case errors.Is(err, apperr.ErrNoSession):
			log.Error("payment has no checkout session", slog.Int64("id", id))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment has no checkout session"))
		case errors.Is(err, apperr.ErrProvider):
			log.Error("payment provider error", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment provider unavailable"))
		default:
			log.Error("failed to check payment status", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not check payment status"))
		}
		return
	}

	log.Info("checked payment status", slog.Int64("id", id), slog.String("status", payment.Status))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payment": payment,
	}))
}
