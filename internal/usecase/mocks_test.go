//go:build !integration

package usecase_test

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"telegram-storefront-bot/internal/dialog"
	"telegram-storefront-bot/internal/domain"
	"telegram-storefront-bot/internal/domain/model"
	"telegram-storefront-bot/internal/domain/ports/adapter"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

var errBackend = errors.New("backend says no")

// MockDialogueRepo keeps states in a map with per-method overrides.
type MockDialogueRepo struct {
	GetFunc  func(ctx context.Context, chatID int64) (*dialog.State, error)
	SetFunc  func(ctx context.Context, chatID int64, state *dialog.State) error
	States   map[int64]*dialog.State
	SetCalls int
}

func NewMockDialogueRepo() *MockDialogueRepo {
	return &MockDialogueRepo{States: map[int64]*dialog.State{}}
}

func (m *MockDialogueRepo) Get(ctx context.Context, chatID int64) (*dialog.State, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, chatID)
	}
	st, ok := m.States[chatID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return st, nil
}

func (m *MockDialogueRepo) Set(ctx context.Context, chatID int64, state *dialog.State) error {
	m.SetCalls++
	if m.SetFunc != nil {
		return m.SetFunc(ctx, chatID, state)
	}
	m.States[chatID] = state
	return nil
}

// MockBackend implements the backend port; every method can be swapped
// per test, unset methods return benign zero values.
type MockBackend struct {
	GetUserFunc       func(ctx context.Context, telegramID int64, botName string) (*model.BotUser, error)
	RegisterUserFunc  func(ctx context.Context, telegramID int64, username, botName string) (*model.BotUser, error)
	ConfirmFunc       func(ctx context.Context, telegramID int64) error
	CreateInvoiceFunc func(ctx context.Context, gateway string, amount int64, telegramID int64) (adapter.InvoiceResult, error)
	PurchaseFunc      func(ctx context.Context, productID, telegramID int64) (*model.Order, error)
	GetSettingsFunc   func(ctx context.Context) (model.Settings, error)
	RegisterRefFunc   func(ctx context.Context, token string, telegramID int64) error

	RegisterUserCalls  int
	ConfirmCalls       int
	CreateInvoiceCalls int
	PurchaseCalls      int
}

func (m *MockBackend) GetUser(ctx context.Context, telegramID int64, botName string) (*model.BotUser, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, telegramID, botName)
	}
	return &model.BotUser{TelegramID: telegramID, Username: "alice", HasPassedCaptcha: true}, nil
}

func (m *MockBackend) RegisterUser(ctx context.Context, telegramID int64, username, botName string) (*model.BotUser, error) {
	m.RegisterUserCalls++
	if m.RegisterUserFunc != nil {
		return m.RegisterUserFunc(ctx, telegramID, username, botName)
	}
	return &model.BotUser{TelegramID: telegramID, Username: username}, nil
}

func (m *MockBackend) ConfirmCaptcha(ctx context.Context, telegramID int64) error {
	m.ConfirmCalls++
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, telegramID)
	}
	return nil
}

func (m *MockBackend) GetSettings(ctx context.Context) (model.Settings, error) {
	if m.GetSettingsFunc != nil {
		return m.GetSettingsFunc(ctx)
	}
	return model.Settings{}, nil
}

func (m *MockBackend) GetCategories(context.Context, int64) ([]model.Category, error) {
	return nil, nil
}

func (m *MockBackend) GetProducts(context.Context, int64) ([]model.Product, error) {
	return nil, nil
}

func (m *MockBackend) GetProduct(ctx context.Context, productID int64) (*model.Product, error) {
	return &model.Product{ID: productID, Name: "Widget", Price: 10}, nil
}

func (m *MockBackend) GetImage(context.Context, string) ([]byte, error) { return nil, nil }

func (m *MockBackend) GetPaymentGateways(context.Context) ([]string, error) {
	return []string{"stars", "card"}, nil
}

func (m *MockBackend) CreateInvoice(ctx context.Context, gateway string, amount int64, telegramID int64) (adapter.InvoiceResult, error) {
	m.CreateInvoiceCalls++
	if m.CreateInvoiceFunc != nil {
		return m.CreateInvoiceFunc(ctx, gateway, amount, telegramID)
	}
	return adapter.InvoiceResult{OrderID: "ord-1", PayURL: "https://pay.example/ord-1"}, nil
}

func (m *MockBackend) Purchase(ctx context.Context, productID, telegramID int64) (*model.Order, error) {
	m.PurchaseCalls++
	if m.PurchaseFunc != nil {
		return m.PurchaseFunc(ctx, productID, telegramID)
	}
	return &model.Order{ID: "ord-2", ProductName: "Widget", Status: "paid"}, nil
}

func (m *MockBackend) GetBalance(context.Context, int64) (float64, error) { return 150, nil }

func (m *MockBackend) GetOrders(context.Context, int64) ([]model.Order, error) { return nil, nil }

func (m *MockBackend) GetSubscriptions(context.Context, int64) ([]model.Subscription, error) {
	return nil, nil
}

func (m *MockBackend) GetReferralStats(context.Context, int64) (model.ReferralStats, error) {
	return model.ReferralStats{}, nil
}

func (m *MockBackend) RegisterReferralBot(ctx context.Context, token string, telegramID int64) error {
	if m.RegisterRefFunc != nil {
		return m.RegisterRefFunc(ctx, token, telegramID)
	}
	return nil
}

func (m *MockBackend) CompleteBalanceRequest(context.Context, int64, int64) error { return nil }
func (m *MockBackend) RejectBalanceRequest(context.Context, int64, int64) error { return nil }
func (m *MockBackend) ReportManagerChat(context.Context, int64) error { return nil }

// MockChallenge issues a fixed captcha.
type MockChallenge struct {
	ChallengeFunc func(ctx context.Context) (model.CaptchaChallenge, error)
	Calls         int
}

func (m *MockChallenge) Challenge(ctx context.Context) (model.CaptchaChallenge, error) {
	m.Calls++
	if m.ChallengeFunc != nil {
		return m.ChallengeFunc(ctx)
	}
	return model.CaptchaChallenge{
		Image:    []byte{0x89, 0x50},
		Solution: "7G3K",
		Options:  []string{"7G3K", "AAAA", "BBBB", "CCCC"},
	}, nil
}

// MockPlatform records callback answers and direct sends.
type MockPlatform struct {
	AnswerCalls  int
	LastAnswer   string
	LastAlert    bool
	SentTexts    []string
	AnswerCbFunc func(ctx context.Context, callbackID, text string, alert bool) error
}

func (m *MockPlatform) SendText(_ context.Context, _ int64, text string, _ model.Keyboard) (model.MessageRef, error) {
	m.SentTexts = append(m.SentTexts, text)
	return model.MessageRef{ID: 900}, nil
}

func (m *MockPlatform) SendPhoto(context.Context, int64, []byte, string, model.Keyboard) (model.MessageRef, error) {
	return model.MessageRef{ID: 901, HasPhoto: true}, nil
}

func (m *MockPlatform) EditText(_ context.Context, _ int64, messageID int, _ string, _ model.Keyboard) (model.MessageRef, error) {
	return model.MessageRef{ID: messageID}, nil
}

func (m *MockPlatform) EditPhoto(_ context.Context, _ int64, messageID int, _ []byte, _ string, _ model.Keyboard) (model.MessageRef, error) {
	return model.MessageRef{ID: messageID, HasPhoto: true}, nil
}

func (m *MockPlatform) DeleteMessage(context.Context, int64, int) error { return nil }

func (m *MockPlatform) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	m.AnswerCalls++
	m.LastAnswer = text
	m.LastAlert = alert
	if m.AnswerCbFunc != nil {
		return m.AnswerCbFunc(ctx, callbackID, text, alert)
	}
	return nil
}

// MockRenderer records rendered content without touching a platform.
type MockRenderer struct {
	RenderFunc  func(ctx context.Context, chatID int64, last *model.MessageRef, c model.Content) (model.MessageRef, error)
	RenderCalls int
	FreshCalls  int
	LastContent model.Content
}

func (m *MockRenderer) Render(ctx context.Context, chatID int64, last *model.MessageRef, c model.Content) (model.MessageRef, error) {
	m.RenderCalls++
	m.LastContent = c
	if m.RenderFunc != nil {
		return m.RenderFunc(ctx, chatID, last, c)
	}
	return model.MessageRef{ID: 500, HasPhoto: c.HasImage()}, nil
}

func (m *MockRenderer) RenderFresh(ctx context.Context, chatID int64, userMessageID int, last *model.MessageRef, c model.Content) (model.MessageRef, error) {
	m.FreshCalls++
	m.LastContent = c
	return model.MessageRef{ID: 501, HasPhoto: c.HasImage()}, nil
}
