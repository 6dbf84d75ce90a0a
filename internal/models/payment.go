package models

import "time"

// Способы оплаты.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodStripe   = "stripe"
)

// Статусы платежа.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusCancelled = "cancelled"
	PaymentStatusFailed    = "failed"
)

// Payment представляет платёж пользователя за курс или урок.
// Заполнено ровно одно из полей CourseID/LessonID — инвариант закреплён
// CHECK-ограничением в хранилище. Поля Stripe* пусты для платежей,
// заведённых вручную (наличные, перевод на счёт).
type Payment struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user"`
	CourseID        *int64    `json:"course,omitempty"`
	LessonID        *int64    `json:"lesson,omitempty"`
	Amount          float64   `json:"amount"`
	PaymentMethod   string    `json:"payment_method"`
	StripeProductID string    `json:"stripe_product_id,omitempty"`
	StripePriceID   string    `json:"stripe_price_id,omitempty"`
	StripeSessionID string    `json:"stripe_session_id,omitempty"`
	PaymentURL      string    `json:"payment_url,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// DummyPayment используется для приёма запроса на оплату из JSON.
// Должно быть указано ровно одно из полей.
type DummyPayment struct {
	CourseID *int64 `json:"course_id,omitempty" validate:"omitempty,gt=0"`
	LessonID *int64 `json:"lesson_id,omitempty" validate:"omitempty,gt=0"`
}
