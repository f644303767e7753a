package model

// NotificationEvent is the payload published by the backend on the
// per-bot channel. Field names are the wire contract shared with the
// backend publisher; there is no version field, so shape changes must be
// coordinated with a deploy of both sides.
type NotificationEvent struct {
	BotName         string   `json:"bot_name"`
	TelegramID      int64    `json:"telegram_id"`
	Message         string   `json:"message"`
	ImageID         string   `json:"image_id,omitempty"`
	MessageToEdit   *int     `json:"message_to_edit,omitempty"`
	MessageToDelete *int     `json:"message_to_delete,omitempty"`
	InlineKeyboard  Keyboard `json:"inline_keyboard,omitempty"`
}

// Administrative request kinds relayed to the manager bot.
const (
	RequestKindDeposit    = "deposit"
	RequestKindWithdrawal = "withdrawal"
)

// AdminRequestEvent is published on the fixed manager channel when an
// operator has to approve or reject a balance request.
type AdminRequestEvent struct {
	RequestID     int64   `json:"request_id"`
	AmountLocal   float64 `json:"amount_local"`
	AmountForeign float64 `json:"amount_foreign"`
	RequestKind   string  `json:"request_kind"`
}
