//go:build !integration

package telegram_test

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"telegram-storefront-bot/internal/domain/model"
	"telegram-storefront-bot/internal/domain/ports/adapter"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

var errPlatform = errors.New("platform says no")

// MockPlatform records every call and lets tests override behavior per
// method via function fields.
type MockPlatform struct {
	SendTextFunc   func(ctx context.Context, chatID int64, text string, kb model.Keyboard) (model.MessageRef, error)
	SendPhotoFunc  func(ctx context.Context, chatID int64, image []byte, caption string, kb model.Keyboard) (model.MessageRef, error)
	EditTextFunc   func(ctx context.Context, chatID int64, messageID int, text string, kb model.Keyboard) (model.MessageRef, error)
	EditPhotoFunc  func(ctx context.Context, chatID int64, messageID int, image []byte, caption string, kb model.Keyboard) (model.MessageRef, error)
	DeleteFunc     func(ctx context.Context, chatID int64, messageID int) error
	AnswerCbFunc   func(ctx context.Context, callbackID, text string, alert bool) error
	Calls          []string
	DeletedIDs     []int
	LastSentText   string
	LastCallbackID string
}

func (m *MockPlatform) SendText(ctx context.Context, chatID int64, text string, kb model.Keyboard) (model.MessageRef, error) {
	m.Calls = append(m.Calls, "SendText")
	m.LastSentText = text
	if m.SendTextFunc != nil {
		return m.SendTextFunc(ctx, chatID, text, kb)
	}
	return model.MessageRef{ID: 1000 + len(m.Calls)}, nil
}

func (m *MockPlatform) SendPhoto(ctx context.Context, chatID int64, image []byte, caption string, kb model.Keyboard) (model.MessageRef, error) {
	m.Calls = append(m.Calls, "SendPhoto")
	m.LastSentText = caption
	if m.SendPhotoFunc != nil {
		return m.SendPhotoFunc(ctx, chatID, image, caption, kb)
	}
	return model.MessageRef{ID: 1000 + len(m.Calls), HasPhoto: true}, nil
}

func (m *MockPlatform) EditText(ctx context.Context, chatID int64, messageID int, text string, kb model.Keyboard) (model.MessageRef, error) {
	m.Calls = append(m.Calls, "EditText")
	m.LastSentText = text
	if m.EditTextFunc != nil {
		return m.EditTextFunc(ctx, chatID, messageID, text, kb)
	}
	return model.MessageRef{ID: messageID}, nil
}

func (m *MockPlatform) EditPhoto(ctx context.Context, chatID int64, messageID int, image []byte, caption string, kb model.Keyboard) (model.MessageRef, error) {
	m.Calls = append(m.Calls, "EditPhoto")
	m.LastSentText = caption
	if m.EditPhotoFunc != nil {
		return m.EditPhotoFunc(ctx, chatID, messageID, image, caption, kb)
	}
	return model.MessageRef{ID: messageID, HasPhoto: true}, nil
}

func (m *MockPlatform) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	m.Calls = append(m.Calls, "DeleteMessage")
	m.DeletedIDs = append(m.DeletedIDs, messageID)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, chatID, messageID)
	}
	return nil
}

func (m *MockPlatform) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	m.Calls = append(m.Calls, "AnswerCallback")
	m.LastCallbackID = callbackID
	if m.AnswerCbFunc != nil {
		return m.AnswerCbFunc(ctx, callbackID, text, alert)
	}
	return nil
}

// MockBackend implements the backend port with overridable methods; the
// notification listener only ever calls GetImage, the rest return zero
// values.
type MockBackend struct {
	GetImageFunc func(ctx context.Context, imageID string) ([]byte, error)
}

func (m *MockBackend) GetImage(ctx context.Context, imageID string) ([]byte, error) {
	if m.GetImageFunc != nil {
		return m.GetImageFunc(ctx, imageID)
	}
	return []byte{0x89, 0x50}, nil
}

func (m *MockBackend) GetUser(context.Context, int64, string) (*model.BotUser, error) {
	return &model.BotUser{}, nil
}
func (m *MockBackend) RegisterUser(context.Context, int64, string, string) (*model.BotUser, error) {
	return &model.BotUser{}, nil
}
func (m *MockBackend) ConfirmCaptcha(context.Context, int64) error { return nil }
func (m *MockBackend) GetSettings(context.Context) (model.Settings, error) {
	return model.Settings{}, nil
}
func (m *MockBackend) GetCategories(context.Context, int64) ([]model.Category, error) {
	return nil, nil
}
func (m *MockBackend) GetProducts(context.Context, int64) ([]model.Product, error) {
	return nil, nil
}
func (m *MockBackend) GetProduct(context.Context, int64) (*model.Product, error) {
	return &model.Product{}, nil
}
func (m *MockBackend) GetPaymentGateways(context.Context) ([]string, error) { return nil, nil }
func (m *MockBackend) CreateInvoice(context.Context, string, int64, int64) (adapter.InvoiceResult, error) {
	return adapter.InvoiceResult{}, nil
}
func (m *MockBackend) Purchase(context.Context, int64, int64) (*model.Order, error) {
	return &model.Order{}, nil
}
func (m *MockBackend) GetBalance(context.Context, int64) (float64, error) { return 0, nil }
func (m *MockBackend) GetOrders(context.Context, int64) ([]model.Order, error) {
	return nil, nil
}
func (m *MockBackend) GetSubscriptions(context.Context, int64) ([]model.Subscription, error) {
	return nil, nil
}
func (m *MockBackend) GetReferralStats(context.Context, int64) (model.ReferralStats, error) {
	return model.ReferralStats{}, nil
}
func (m *MockBackend) RegisterReferralBot(context.Context, string, int64) error { return nil }
func (m *MockBackend) CompleteBalanceRequest(context.Context, int64, int64) error {
	return nil
}
func (m *MockBackend) RejectBalanceRequest(context.Context, int64, int64) error { return nil }
func (m *MockBackend) ReportManagerChat(context.Context, int64) error { return nil }
