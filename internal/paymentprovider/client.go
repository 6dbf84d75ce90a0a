// Package paymentprovider реализует клиент Stripe API.
//
// Оркестратору платежей нужны ровно четыре операции: создание продукта,
// создание цены, создание checkout-сессии и чтение её состояния. Клиент
// ходит в REST API напрямую (form-encoded запросы с Bearer-авторизацией),
// никакой другой частью Stripe не пользуется.
package paymentprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client — клиент Stripe API.
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Stripe с секретным ключом аккаунта.
func NewClient(secretKey string) *Client {
	return &Client{
		secretKey:  secretKey,
		apiURL:     "https://api.stripe.com/v1",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithURL создаёт клиент с произвольным адресом API. Используется в тестах.
func NewClientWithURL(secretKey, apiURL string) *Client {
	c := NewClient(secretKey)
	c.apiURL = apiURL
	return c
}

func (c *Client) newRequest(ctx context.Context, method, path string, form url.Values) (*http.Request, error) {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		// Повтор запроса после сетевой ошибки не должен плодить дубликаты.
		req.Header.Set("Idempotency-Key", uuid.New().String())
	}
	return req, nil
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("stripe: %s: %s", resp.Status, apiErr.Error.Message)
		}
		return fmt.Errorf("stripe: unexpected status: %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// CreateProduct создаёт продукт и возвращает его идентификатор.
func (c *Client) CreateProduct(ctx context.Context, name, description string) (string, error) {
	form := url.Values{}
	form.Set("name", name)
	if description != "" {
		form.Set("description", description)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/products", form)
	if err != nil {
		return "", err
	}
	var product Product
	if err := c.do(req, &product); err != nil {
		return "", err
	}
	return product.ID, nil
}

// CreatePrice создаёт цену продукта. Сумма передаётся в минорных единицах валюты.
func (c *Client) CreatePrice(ctx context.Context, productID string, amountMinor int64, currency string) (string, error) {
	form := url.Values{}
	form.Set("product", productID)
	form.Set("unit_amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", currency)

	req, err := c.newRequest(ctx, http.MethodPost, "/prices", form)
	if err != nil {
		return "", err
	}
	var price Price
	if err := c.do(req, &price); err != nil {
		return "", err
	}
	return price.ID, nil
}

// CreateCheckoutSession создаёт сессию оплаты и возвращает её идентификатор
// вместе с URL для перенаправления плательщика.
func (c *Client) CreateCheckoutSession(ctx context.Context, priceID, successURL, cancelURL, customerEmail string) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	if customerEmail != "" {
		form.Set("customer_email", customerEmail)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/checkout/sessions", form)
	if err != nil {
		return nil, err
	}
	var session CheckoutSession
	if err := c.do(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSession возвращает текущее состояние checkout-сессии.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return nil, err
	}
	var session Session
	if err := c.do(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
