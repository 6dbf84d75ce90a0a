package paymentprovider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studingplace/learning-platform/internal/paymentprovider"
)

func newFakeStripe(t *testing.T, handler http.HandlerFunc) *paymentprovider.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return paymentprovider.NewClientWithURL("sk_test_123", srv.URL)
}

func TestClient_CreateProduct(t *testing.T) {
	client := newFakeStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Go с нуля", r.PostForm.Get("name"))
		assert.Equal(t, "базовый курс", r.PostForm.Get("description"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "prod_123"}`))
	})

	id, err := client.CreateProduct(context.Background(), "Go с нуля", "базовый курс")
	require.NoError(t, err)
	assert.Equal(t, "prod_123", id)
}

func TestClient_CreatePrice(t *testing.T) {
	client := newFakeStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prices", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "prod_123", r.PostForm.Get("product"))
		assert.Equal(t, "150000", r.PostForm.Get("unit_amount"))
		assert.Equal(t, "rub", r.PostForm.Get("currency"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "price_123", "unit_amount": 150000, "currency": "rub"}`))
	})

	id, err := client.CreatePrice(context.Background(), "prod_123", 150000, "rub")
	require.NoError(t, err)
	assert.Equal(t, "price_123", id)
}

func TestClient_CreateCheckoutSession(t *testing.T) {
	client := newFakeStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "price_123", r.PostForm.Get("line_items[0][price]"))
		assert.Equal(t, "1", r.PostForm.Get("line_items[0][quantity]"))
		assert.Equal(t, "http://localhost/success/", r.PostForm.Get("success_url"))
		assert.Equal(t, "student@example.com", r.PostForm.Get("customer_email"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cs_123", "url": "https://checkout.stripe.com/pay/cs_123"}`))
	})

	session, err := client.CreateCheckoutSession(context.Background(),
		"price_123", "http://localhost/success/", "http://localhost/cancel/", "student@example.com")
	require.NoError(t, err)
	assert.Equal(t, "cs_123", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_123", session.URL)
}

func TestClient_GetSession(t *testing.T) {
	client := newFakeStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/checkout/sessions/cs_123", r.URL.Path)
		// GET-запросы не несут ключа идемпотентности.
		assert.Empty(t, r.Header.Get("Idempotency-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cs_123", "payment_status": "paid"}`))
	})

	session, err := client.GetSession(context.Background(), "cs_123")
	require.NoError(t, err)
	assert.Equal(t, paymentprovider.SessionPaid, session.PaymentStatus)
}

func TestClient_APIError(t *testing.T) {
	client := newFakeStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error": {"type": "card_error", "message": "Your card was declined."}}`))
	})

	_, err := client.CreateProduct(context.Background(), "Go", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Your card was declined.")
}

func TestClient_UnexpectedStatus(t *testing.T) {
	client := newFakeStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetSession(context.Background(), "cs_123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}
