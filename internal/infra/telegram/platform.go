// Package telegram holds everything that touches the chat platform:
// the API adapter, the message renderer, the update dispatcher and the
// pub/sub notification listeners.
package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-storefront-bot/internal/domain"
	"telegram-storefront-bot/internal/domain/model"
	"telegram-storefront-bot/internal/domain/ports/adapter"
)

var _ adapter.ChatPlatform = (*Platform)(nil)

// Platform adapts tgbotapi to the ChatPlatform port. The underlying
// client has no context support; cancellation is handled at the polling
// and supervisor level instead.
type Platform struct {
	bot *tgbotapi.BotAPI
}

// NewPlatform authenticates the bot token. A revoked token surfaces as
// domain.ErrUnauthorized so the supervisor stops instead of retrying.
func NewPlatform(token string) (*Platform, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		if IsAuthError(err) {
			return nil, fmt.Errorf("telegram auth: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("telegram connect: %w", err)
	}
	return &Platform{bot: bot}, nil
}

// Username returns the authenticated bot's username.
func (p *Platform) Username() string { return p.bot.Self.UserName }

// UpdatesChan starts long polling.
func (p *Platform) UpdatesChan(timeout int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	return p.bot.GetUpdatesChan(u)
}

// StopReceivingUpdates stops the polling loop.
func (p *Platform) StopReceivingUpdates() { p.bot.StopReceivingUpdates() }

func (p *Platform) SendText(_ context.Context, chatID int64, text string, kb model.Keyboard) (model.MessageRef, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup, ok := toMarkup(kb); ok {
		msg.ReplyMarkup = markup
	}
	sent, err := p.bot.Send(msg)
	if err != nil {
		return model.MessageRef{}, wrapErr("send text", err)
	}
	return model.MessageRef{ID: sent.MessageID}, nil
}

func (p *Platform) SendPhoto(_ context.Context, chatID int64, image []byte, caption string, kb model.Keyboard) (model.MessageRef, error) {
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "image.png", Bytes: image})
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeHTML
	if markup, ok := toMarkup(kb); ok {
		msg.ReplyMarkup = markup
	}
	sent, err := p.bot.Send(msg)
	if err != nil {
		return model.MessageRef{}, wrapErr("send photo", err)
	}
	return model.MessageRef{ID: sent.MessageID, HasPhoto: true}, nil
}

func (p *Platform) EditText(_ context.Context, chatID int64, messageID int, text string, kb model.Keyboard) (model.MessageRef, error) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if markup, ok := toMarkup(kb); ok {
		edit.ReplyMarkup = &markup
	}
	sent, err := p.bot.Send(edit)
	if err != nil {
		return model.MessageRef{}, wrapErr("edit text", err)
	}
	return model.MessageRef{ID: sent.MessageID}, nil
}

func (p *Platform) EditPhoto(_ context.Context, chatID int64, messageID int, image []byte, caption string, kb model.Keyboard) (model.MessageRef, error) {
	media := tgbotapi.NewInputMediaPhoto(tgbotapi.FileBytes{Name: "image.png", Bytes: image})
	media.Caption = caption
	media.ParseMode = tgbotapi.ModeHTML

	edit := tgbotapi.EditMessageMediaConfig{
		BaseEdit: tgbotapi.BaseEdit{ChatID: chatID, MessageID: messageID},
		Media:    media,
	}
	if markup, ok := toMarkup(kb); ok {
		edit.ReplyMarkup = &markup
	}
	sent, err := p.bot.Send(edit)
	if err != nil {
		return model.MessageRef{}, wrapErr("edit photo", err)
	}
	return model.MessageRef{ID: sent.MessageID, HasPhoto: true}, nil
}

func (p *Platform) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	_, err := p.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

func (p *Platform) AnswerCallback(_ context.Context, callbackID, text string, alert bool) error {
	cb := tgbotapi.NewCallback(callbackID, text)
	cb.ShowAlert = alert
	_, err := p.bot.Request(cb)
	return err
}

func toMarkup(kb model.Keyboard) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(kb) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			} else {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Action))
			}
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

func wrapErr(op string, err error) error {
	if IsAuthError(err) {
		return fmt.Errorf("%s: %w", op, domain.ErrUnauthorized)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsAuthError reports whether err means the bot credential is dead
// (revoked or invalid token) rather than a transient platform failure.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		return true
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 401
	}
	return false
}
