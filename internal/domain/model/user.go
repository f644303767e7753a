package model

// BotUser is the backend's view of one storefront customer, keyed by
// Telegram chat id.
type BotUser struct {
	TelegramID       int64   `json:"telegram_id"`
	Username         string  `json:"username"`
	IsBlocked        bool    `json:"is_blocked"`
	HasPassedCaptcha bool    `json:"has_passed_captcha"`
	Balance          float64 `json:"balance"`
}
