// Package payment содержит оркестрацию платежей: создание checkout-сессии
// во внешнем провайдере, учёт платежей и проверку их статуса.
package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studingplace/learning-platform/internal/apperr"
	"github.com/studingplace/learning-platform/internal/models"
	"github.com/studingplace/learning-platform/internal/paymentprovider"
)

// Repository определяет методы для работы с платежами и их целями в хранилище.
type Repository interface {
	CreatePayment(ctx context.Context, payment models.Payment) (int64, error)
	// ReadPayment возвращает платёж только его владельцу; чужой платёж
	// неотличим от отсутствующего.
	ReadPayment(ctx context.Context, id, userID int64) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status string) error
	ListPayments(ctx context.Context, userID int64, limit, offset int) ([]*models.Payment, int, error)
	ReadCourse(ctx context.Context, id int64) (*models.Course, error)
	ReadLesson(ctx context.Context, id int64) (*models.Lesson, error)
}

// Provider описывает контракт внешнего платёжного провайдера.
type Provider interface {
	CreateProduct(ctx context.Context, name, description string) (string, error)
	CreatePrice(ctx context.Context, productID string, amountMinor int64, currency string) (string, error)
	CreateCheckoutSession(ctx context.Context, priceID, successURL, cancelURL, customerEmail string) (*paymentprovider.CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*paymentprovider.Session, error)
}

// Options задаёт параметры создаваемых сессий оплаты.
type Options struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

// PaymentService реализует бизнес-логику платежей.
type PaymentService struct {
	repo     Repository
	provider Provider
	opts     Options
	log      *slog.Logger
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(repo Repository, provider Provider, opts Options, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:     repo,
		provider: provider,
		opts:     opts,
		log:      log,
	}
}

// CreateCheckout создает платёж за курс или урок и заводит для него
// checkout-сессию у провайдера. Цель платежа указывается строго одна:
// курс либо урок. Урок оплачивается по цене родительского курса.
//
// Вызовы провайдера идут в порядке продукт, цена, сессия; при ошибке на
// любом шаге платёж не сохраняется, а уже созданные объекты провайдера
// остаются как есть, их идентификаторы пишутся в лог.
func (s *PaymentService) CreateCheckout(ctx context.Context, user models.User, req models.DummyPayment) (*models.Payment, error) {
	const op = "payment.CreateCheckout"

	if req.CourseID != nil && req.LessonID != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrValidation, apperr.ErrAmbiguousTarget)
	}
	if req.CourseID == nil && req.LessonID == nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrValidation, apperr.ErrMissingTarget)
	}

	var course *models.Course
	payment := models.Payment{
		UserID:        user.ID,
		PaymentMethod: models.PaymentMethodStripe,
		Status:        models.PaymentStatusPending,
	}

	if req.CourseID != nil {
		c, err := s.repo.ReadCourse(ctx, *req.CourseID)
		if err != nil {
			return nil, err
		}
		course = c
		payment.CourseID = &c.ID
	} else {
		lesson, err := s.repo.ReadLesson(ctx, *req.LessonID)
		if err != nil {
			return nil, err
		}
		c, err := s.repo.ReadCourse(ctx, lesson.CourseID)
		if err != nil {
			return nil, err
		}
		course = c
		payment.LessonID = &lesson.ID
	}

	if course.Price == nil || *course.Price <= 0 {
		return nil, fmt.Errorf("%w: %w", apperr.ErrValidation, apperr.ErrNoPriceSet)
	}
	payment.Amount = *course.Price
	amountMinor := int64(*course.Price * 100)

	productID, err := s.provider.CreateProduct(ctx, course.Title, course.Description)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, apperr.ErrProvider, err)
	}
	payment.StripeProductID = productID

	priceID, err := s.provider.CreatePrice(ctx, productID, amountMinor, s.opts.Currency)
	if err != nil {
		s.log.Error("checkout aborted after product creation",
			slog.String("product", productID))
		return nil, fmt.Errorf("%s: %w: %w", op, apperr.ErrProvider, err)
	}
	payment.StripePriceID = priceID

	session, err := s.provider.CreateCheckoutSession(ctx, priceID, s.opts.SuccessURL, s.opts.CancelURL, user.Email)
	if err != nil {
		s.log.Error("checkout aborted after price creation",
			slog.String("product", productID), slog.String("price", priceID))
		return nil, fmt.Errorf("%s: %w: %w", op, apperr.ErrProvider, err)
	}
	payment.StripeSessionID = session.ID
	payment.PaymentURL = session.URL

	id, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	payment.ID = id

	s.log.Info("created checkout session",
		slog.Int64("payment", id),
		slog.Int64("user", user.ID),
		slog.String("session", session.ID))
	return &payment, nil
}

// CheckStatus запрашивает у провайдера состояние checkout-сессии платежа,
// сохраняет и возвращает обновлённый статус. Платежи без сессии (наличные,
// перевод на счёт) проверке не подлежат.
func (s *PaymentService) CheckStatus(ctx context.Context, userID, paymentID int64) (*models.Payment, error) {
	const op = "payment.CheckStatus"

	payment, err := s.repo.ReadPayment(ctx, paymentID, userID)
	if err != nil {
		return nil, err
	}
	if payment.StripeSessionID == "" {
		return nil, fmt.Errorf("%w: %w", apperr.ErrValidation, apperr.ErrNoSession)
	}

	session, err := s.provider.GetSession(ctx, payment.StripeSessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, apperr.ErrProvider, err)
	}

	var status string
	switch session.PaymentStatus {
	case paymentprovider.SessionPaid:
		status = models.PaymentStatusPaid
	case paymentprovider.SessionUnpaid:
		status = models.PaymentStatusPending
	default:
		status = models.PaymentStatusFailed
	}

	if status != payment.Status {
		if err := s.repo.UpdatePaymentStatus(ctx, payment.ID, status); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("updated payment status",
			slog.Int64("payment", payment.ID),
			slog.String("from", payment.Status),
			slog.String("to", status))
	}
	payment.Status = status
	return payment, nil
}

// List возвращает страницу платежей пользователя и их общее количество.
// Пользователь видит только собственные платежи, модераторы исключений не имеют.
func (s *PaymentService) List(ctx context.Context, userID int64, limit, offset int) ([]*models.Payment, int, error) {
	return s.repo.ListPayments(ctx, userID, limit, offset)
}
