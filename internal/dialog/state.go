// Package dialog is the pure core of the bot: the dialogue state
// enumeration, the action-token codec and the transition function.
// Nothing in this package performs I/O; side effects are described by
// Plan values and executed by the session use case.
package dialog

import "telegram-storefront-bot/internal/domain/model"

// Kind discriminates the dialogue state variants.
type Kind string

const (
	KindInitial         Kind = "initial"
	KindAwaitingCaptcha Kind = "awaiting_captcha"
	KindAwaitingToken   Kind = "awaiting_referral_token"
	KindMainMenu        Kind = "main_menu"
	KindBrowsing        Kind = "browsing"
	KindProduct         Kind = "product"
	KindDepositGateway  Kind = "deposit_select_gateway"
	KindDepositAmount   Kind = "deposit_select_amount"
	KindDepositConfirm  Kind = "deposit_confirm"
	KindBalance         Kind = "balance"
	KindOrders          Kind = "orders"
	KindSubscriptions   Kind = "subscriptions"
	KindReferral        Kind = "referral"
	KindSupport         Kind = "support"
)

// Invoice is the cached result of a create-invoice call, kept in state so
// a re-render never creates a duplicate invoice.
type Invoice struct {
	OrderID string            `json:"order_id"`
	PayURL  string            `json:"pay_url,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// State is the per-chat dialogue document. It is serialized as one JSON
// blob and always written back whole; partial updates would risk torn
// state across worker restarts.
type State struct {
	Kind Kind `json:"kind"`

	// AwaitingCaptcha
	Expected string `json:"expected,omitempty"`

	// Browsing / Product
	CategoryID int64 `json:"category_id,omitempty"`
	ProductID  int64 `json:"product_id,omitempty"`

	// Deposit wizard
	Gateway string   `json:"gateway,omitempty"`
	Amount  int64    `json:"amount,omitempty"`
	Invoice *Invoice `json:"invoice,omitempty"`

	// Render pointer: the most recent bot-authored message in this chat.
	LastMsg *model.MessageRef `json:"last_msg,omitempty"`
}

// NewState returns the state every fresh session starts in.
func NewState() *State { return &State{Kind: KindInitial} }

// clone returns a copy with the wizard-specific fields dropped, keeping
// only the render pointer. Every transition builds its successor from
// this so stale fields never leak between variants.
func (s *State) clone(kind Kind) *State {
	return &State{Kind: kind, LastMsg: s.LastMsg}
}
