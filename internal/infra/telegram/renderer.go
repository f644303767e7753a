package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-storefront-bot/internal/domain/model"
	"telegram-storefront-bot/internal/domain/ports/adapter"
	"telegram-storefront-bot/internal/infra/metrics"
)

var _ adapter.Renderer = (*Renderer)(nil)

// Renderer applies content against the chat platform following one
// fixed decision table:
//
//  1. no previous message            -> send
//  2. content type changed           -> delete old (best-effort), send
//  3. type matches                   -> edit; on any edit failure, send
//
// The platform forbids editing a text message into a photo message and
// vice versa, which is why the type check comes before the edit attempt.
type Renderer struct {
	platform adapter.ChatPlatform
	log      *zerolog.Logger
}

func NewRenderer(platform adapter.ChatPlatform, logger *zerolog.Logger) *Renderer {
	return &Renderer{platform: platform, log: logger}
}

func (r *Renderer) Render(ctx context.Context, chatID int64, last *model.MessageRef, c model.Content) (model.MessageRef, error) {
	if last == nil {
		metrics.IncRender("send")
		return r.send(ctx, chatID, c)
	}

	if last.HasPhoto != c.HasImage() {
		// Content type changed in place is not allowed by the platform.
		if err := r.platform.DeleteMessage(ctx, chatID, last.ID); err != nil {
			r.log.Debug().Err(err).Int("msg_id", last.ID).Msg("delete before resend failed")
		}
		metrics.IncRender("delete_send")
		return r.send(ctx, chatID, c)
	}

	ref, err := r.edit(ctx, chatID, last.ID, c)
	if err != nil {
		// Message too old, already deleted, or edited identically: fall
		// back to a fresh message instead of surfacing an error.
		r.log.Warn().Err(err).Int64("chat_id", chatID).Int("msg_id", last.ID).
			Msg("edit failed, sending new message")
		metrics.IncRender("fallback_send")
		return r.send(ctx, chatID, c)
	}
	metrics.IncRender("edit")
	return ref, nil
}

// RenderFresh is the free-text reply path: editing across a user-message
// boundary reads poorly, so the triggering user message and the previous
// bot message are deleted (best-effort) and a new message is always sent.
func (r *Renderer) RenderFresh(ctx context.Context, chatID int64, userMessageID int, last *model.MessageRef, c model.Content) (model.MessageRef, error) {
	if userMessageID != 0 {
		if err := r.platform.DeleteMessage(ctx, chatID, userMessageID); err != nil {
			r.log.Debug().Err(err).Int("msg_id", userMessageID).Msg("delete user message failed")
		}
	}
	if last != nil {
		if err := r.platform.DeleteMessage(ctx, chatID, last.ID); err != nil {
			r.log.Debug().Err(err).Int("msg_id", last.ID).Msg("delete previous bot message failed")
		}
	}
	metrics.IncRender("send")
	return r.send(ctx, chatID, c)
}

func (r *Renderer) send(ctx context.Context, chatID int64, c model.Content) (model.MessageRef, error) {
	if c.HasImage() {
		return r.platform.SendPhoto(ctx, chatID, c.Image, c.Text, c.Keyboard)
	}
	return r.platform.SendText(ctx, chatID, c.Text, c.Keyboard)
}

func (r *Renderer) edit(ctx context.Context, chatID int64, messageID int, c model.Content) (model.MessageRef, error) {
	if c.HasImage() {
		return r.platform.EditPhoto(ctx, chatID, messageID, c.Image, c.Text, c.Keyboard)
	}
	return r.platform.EditText(ctx, chatID, messageID, c.Text, c.Keyboard)
}
