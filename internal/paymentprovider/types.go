package paymentprovider

// Product — продукт Stripe, соответствует оплачиваемому курсу.
type Product struct {
	ID string `json:"id"`
}

// Price — цена продукта в минорных единицах валюты.
type Price struct {
	ID         string `json:"id"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
}

// CheckoutSession — сессия оплаты. URL ведёт плательщика на страницу Stripe.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Состояния оплаты сессии, возвращаемые Stripe.
const (
	SessionPaid   = "paid"
	SessionUnpaid = "unpaid"
)

// Session — состояние сессии при повторном запросе.
type Session struct {
	ID            string `json:"id"`
	PaymentStatus string `json:"payment_status"`
}

// apiError — конверт ошибки Stripe API.
type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
