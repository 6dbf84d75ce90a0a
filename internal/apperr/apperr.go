// Package apperr определяет общие категории ошибок бизнес-уровня.
//
// Сервисы возвращают ошибки, обёрнутые вокруг этих сентинелов, а HTTP-обработчики
// сопоставляют их с кодами ответа через errors.Is, не разбирая текст ошибки.
package apperr

import "errors"

var (
	// ErrValidation — некорректные входные данные (плохая ссылка на видео, пустое обязательное поле).
	ErrValidation = errors.New("validation failed")
	// ErrNotFound — ресурс отсутствует либо находится вне видимого множества принципала.
	ErrNotFound = errors.New("not found")
	// ErrForbidden — ресурс виден, но действие запрещено политикой доступа.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict — нарушение инварианта данных.
	ErrConflict = errors.New("conflict")
	// ErrProvider — внешний платёжный провайдер вернул ошибку или неожиданный ответ.
	ErrProvider = errors.New("payment provider error")
)

// Ошибки оркестрации платежей. Все они уточняют базовые категории выше.
var (
	// ErrAmbiguousTarget — в платеже указаны и курс, и урок одновременно.
	ErrAmbiguousTarget = errors.New("payment target is ambiguous: both course and lesson are set")
	// ErrMissingTarget — в платеже не указан ни курс, ни урок.
	ErrMissingTarget = errors.New("payment target is missing: neither course nor lesson is set")
	// ErrNoPriceSet — у курса не задана цена, оплатить его нельзя.
	ErrNoPriceSet = errors.New("course has no price set")
	// ErrNoSession — платёж создан вручную (наличные/перевод) и не имеет checkout-сессии.
	ErrNoSession = errors.New("payment has no checkout session")
)
