// Package paymentcreate реализует HTTP-обработчик создания платежа.
//
// Handler принимает цель платежа (курс либо урок, строго один),
// заводит checkout-сессию у платёжного провайдера и возвращает
// ссылку на страницу оплаты.
package paymentcreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/studingplace/learning-platform/internal/apperr"
	"github.com/studingplace/learning-platform/internal/http/middlewarectx"
	"github.com/studingplace/learning-platform/internal/http/response"
	"github.com/studingplace/learning-platform/internal/lib/sl"
	"github.com/studingplace/learning-platform/internal/models"
)

// Handler управляет HTTP-запросами на создание платежей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания платежа.
type Service interface {
	CreateCheckout(ctx context.Context, user models.User, req models.DummyPayment) (*models.Payment, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать платёж
// @Description Создает платёж за курс или урок и возвращает ссылку на страницу оплаты.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyPayment true "Цель платежа: ровно одно из course_id/lesson_id"
// @Success 201 {object} map[string]any "Созданный платёж со ссылкой на оплату"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или цель платежа"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Курс или урок не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Ошибка платёжного провайдера"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPayment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	p, ok := middlewarectx.Principal(r.Context())
	if !ok {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	user := models.User{ID: p.UserID, Email: p.Email, Groups: p.Groups}

	payment, err := h.service.CreateCheckout(r.Context(), user, req)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrAmbiguousTarget):
			log.Error("ambiguous payment target")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("exactly one of course_id or lesson_id must be set"))
		case errors.Is(err, apperr.ErrMissingTarget):
			log.Error("missing payment target")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("exactly one of course_id or lesson_id must be set"))
		case errors.Is(err, apperr.ErrNoPriceSet):
			log.Error("course has no price set")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("course has no price set"))
		case errors.Is(err, apperr.ErrNotFound):
			log.Info("payment target not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("payment target not found"))
		case errors.Is(err, apperr.ErrProvider):
			log.Error("payment provider error", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment provider unavailable"))
		default:
			log.Error("failed to create payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create payment"))
		}
		return
	}

	log.Info("created payment", slog.Int64("id", payment.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payment":     payment,
		"payment_url": payment.PaymentURL,
	}))
}
