// Package backend implements the HTTP clients for the storefront
// backend API and the captcha challenge service. All requests carry the
// shared service key in the X-API-KEY header.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"telegram-storefront-bot/internal/config"
	"telegram-storefront-bot/internal/domain"
	"telegram-storefront-bot/internal/domain/model"
	"telegram-storefront-bot/internal/domain/ports/adapter"
	"telegram-storefront-bot/internal/infra/metrics"
)

var _ adapter.BackendAPI = (*Client)(nil)

// APIError carries the backend's HTTP status so callers can tell a
// rejected request from transport trouble.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend api: status %d: %s", e.Status, e.Body)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.BackendConfig) *Client {
	return &Client{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// do issues one JSON request and decodes the response into out (when out
// is non-nil). 404 maps to domain.ErrNotFound, 401/403 to
// domain.ErrUnauthorized; other non-2xx statuses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ObserveBackend(method+" "+path, err == nil, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		switch resp.StatusCode {
		case http.StatusNotFound:
			return domain.ErrNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.ErrUnauthorized
		}
		return &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func (c *Client) GetUser(ctx context.Context, telegramID int64, botName string) (*model.BotUser, error) {
	var u model.BotUser
	path := fmt.Sprintf("/api/v1/bot/users/%d?bot=%s", telegramID, url.QueryEscape(botName))
	if err := c.do(ctx, http.MethodGet, path, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) RegisterUser(ctx context.Context, telegramID int64, username, botName string) (*model.BotUser, error) {
	in := map[string]interface{}{
		"telegram_id": telegramID,
		"username":    username,
		"bot":         botName,
	}
	var u model.BotUser
	if err := c.do(ctx, http.MethodPost, "/api/v1/bot/users", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ConfirmCaptcha(ctx context.Context, telegramID int64) error {
	path := fmt.Sprintf("/api/v1/bot/users/%d/captcha", telegramID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) GetSettings(ctx context.Context) (model.Settings, error) {
	var raw struct {
		ManagerChatID int64             `json:"manager_group_chat_id"`
		Public        map[string]string `json:"public"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/bot/settings", nil, &raw); err != nil {
		return model.Settings{}, err
	}
	return parseSettings(raw.ManagerChatID, raw.Public), nil
}

func (c *Client) GetCategories(ctx context.Context, parentID int64) ([]model.Category, error) {
	var out []model.Category
	path := "/api/v1/bot/categories?parent_id=" + strconv.FormatInt(parentID, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProducts(ctx context.Context, categoryID int64) ([]model.Product, error) {
	var out []model.Product
	path := "/api/v1/bot/products?category_id=" + strconv.FormatInt(categoryID, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, productID int64) (*model.Product, error) {
	var p model.Product
	path := "/api/v1/bot/products/" + strconv.FormatInt(productID, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetImage(ctx context.Context, imageID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/bot/images/"+url.PathEscape(imageID), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get image %s: %w", imageID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, &APIError{Status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) GetPaymentGateways(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, "/api/v1/bot/payment-gateways", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateInvoice(ctx context.Context, gateway string, amount int64, telegramID int64) (adapter.InvoiceResult, error) {
	in := map[string]interface{}{
		"gateway":     gateway,
		"amount":      amount,
		"telegram_id": telegramID,
	}
	var out adapter.InvoiceResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/bot/invoices", in, &out); err != nil {
		return adapter.InvoiceResult{}, err
	}
	return out, nil
}

func (c *Client) Purchase(ctx context.Context, productID, telegramID int64) (*model.Order, error) {
	in := map[string]interface{}{
		"product_id":  productID,
		"telegram_id": telegramID,
	}
	var o model.Order
	if err := c.do(ctx, http.MethodPost, "/api/v1/bot/orders", in, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) GetBalance(ctx context.Context, telegramID int64) (float64, error) {
	var out struct {
		Balance float64 `json:"balance"`
	}
	path := fmt.Sprintf("/api/v1/bot/users/%d/balance", telegramID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

func (c *Client) GetOrders(ctx context.Context, telegramID int64) ([]model.Order, error) {
	var out []model.Order
	path := fmt.Sprintf("/api/v1/bot/users/%d/orders", telegramID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSubscriptions(ctx context.Context, telegramID int64) ([]model.Subscription, error) {
	var out []model.Subscription
	path := fmt.Sprintf("/api/v1/bot/users/%d/subscriptions", telegramID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetReferralStats(ctx context.Context, telegramID int64) (model.ReferralStats, error) {
	var out model.ReferralStats
	path := fmt.Sprintf("/api/v1/bot/users/%d/referral", telegramID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return model.ReferralStats{}, err
	}
	return out, nil
}

func (c *Client) RegisterReferralBot(ctx context.Context, token string, telegramID int64) error {
	in := map[string]interface{}{
		"token":       token,
		"telegram_id": telegramID,
	}
	return c.do(ctx, http.MethodPost, "/api/v1/bot/referral-bots", in, nil)
}

func (c *Client) CompleteBalanceRequest(ctx context.Context, requestID, operatorID int64) error {
	in := map[string]interface{}{"operator_id": operatorID}
	path := fmt.Sprintf("/api/v1/bot/balance-requests/%d/complete", requestID)
	return c.do(ctx, http.MethodPost, path, in, nil)
}

func (c *Client) RejectBalanceRequest(ctx context.Context, requestID, operatorID int64) error {
	in := map[string]interface{}{"operator_id": operatorID}
	path := fmt.Sprintf("/api/v1/bot/balance-requests/%d/reject", requestID)
	return c.do(ctx, http.MethodPost, path, in, nil)
}

func (c *Client) ReportManagerChat(ctx context.Context, chatID int64) error {
	in := map[string]interface{}{"chat_id": chatID}
	return c.do(ctx, http.MethodPut, "/api/v1/bot/settings/manager-chat", in, nil)
}
