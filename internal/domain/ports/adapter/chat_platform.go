package adapter

import (
	"context"

	"telegram-storefront-bot/internal/domain/model"
)

// ChatPlatform is the thin surface of the chat API the bot consumes.
// Implementations must return model.ErrUnauthorized-compatible errors on
// revoked credentials so the supervisor can stop instead of hot-looping.
type ChatPlatform interface {
	SendText(ctx context.Context, chatID int64, text string, kb model.Keyboard) (model.MessageRef, error)
	SendPhoto(ctx context.Context, chatID int64, image []byte, caption string, kb model.Keyboard) (model.MessageRef, error)
	EditText(ctx context.Context, chatID int64, messageID int, text string, kb model.Keyboard) (model.MessageRef, error)
	EditPhoto(ctx context.Context, chatID int64, messageID int, image []byte, caption string, kb model.Keyboard) (model.MessageRef, error)
	// DeleteMessage is best-effort everywhere it is used; callers ignore
	// its error when the message may already be gone.
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	// AnswerCallback shows a transient notice (alert when alert is true)
	// in response to a button press.
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
}

// Renderer applies a screen's content against the chat platform,
// following the edit / delete-and-resend / send decision table.
type Renderer interface {
	// Render shows content in a chat, reusing last when the platform
	// permits an in-place edit. It returns the ref of the message that
	// now displays the content.
	Render(ctx context.Context, chatID int64, last *model.MessageRef, c model.Content) (model.MessageRef, error)
	// RenderFresh is the free-text reply path: it deletes the triggering
	// user message and the previous bot message (both best-effort) and
	// always sends a new message.
	RenderFresh(ctx context.Context, chatID int64, userMessageID int, last *model.MessageRef, c model.Content) (model.MessageRef, error)
}
