package adapter

import (
	"context"

	"telegram-storefront-bot/internal/domain/model"
)

// InvoiceResult is the payment backend's answer to a create-invoice
// call: either a pay URL or gateway-specific payment instructions.
type InvoiceResult struct {
	OrderID string            `json:"order_id"`
	PayURL  string            `json:"pay_url,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// BackendAPI is every synchronous call the bot worker makes against the
// storefront backend. Failures surface as inline errors to the user;
// they never crash a session.
type BackendAPI interface {
	GetUser(ctx context.Context, telegramID int64, botName string) (*model.BotUser, error)
	RegisterUser(ctx context.Context, telegramID int64, username, botName string) (*model.BotUser, error)
	ConfirmCaptcha(ctx context.Context, telegramID int64) error

	GetSettings(ctx context.Context) (model.Settings, error)
	GetCategories(ctx context.Context, parentID int64) ([]model.Category, error)
	GetProducts(ctx context.Context, categoryID int64) ([]model.Product, error)
	GetProduct(ctx context.Context, productID int64) (*model.Product, error)
	GetImage(ctx context.Context, imageID string) ([]byte, error)

	GetPaymentGateways(ctx context.Context) ([]string, error)
	CreateInvoice(ctx context.Context, gateway string, amount int64, telegramID int64) (InvoiceResult, error)
	Purchase(ctx context.Context, productID, telegramID int64) (*model.Order, error)

	GetBalance(ctx context.Context, telegramID int64) (float64, error)
	GetOrders(ctx context.Context, telegramID int64) ([]model.Order, error)
	GetSubscriptions(ctx context.Context, telegramID int64) ([]model.Subscription, error)
	GetReferralStats(ctx context.Context, telegramID int64) (model.ReferralStats, error)
	RegisterReferralBot(ctx context.Context, token string, telegramID int64) error

	CompleteBalanceRequest(ctx context.Context, requestID, operatorID int64) error
	RejectBalanceRequest(ctx context.Context, requestID, operatorID int64) error
	ReportManagerChat(ctx context.Context, chatID int64) error
}

// ChallengeProvider issues captcha challenges. The returned solution is
// embedded in dialogue state; the provider is never consulted again for
// the same challenge.
type ChallengeProvider interface {
	Challenge(ctx context.Context) (model.CaptchaChallenge, error)
}
