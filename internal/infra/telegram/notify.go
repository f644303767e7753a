package telegram

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"telegram-storefront-bot/internal/domain/model"
	"telegram-storefront-bot/internal/domain/ports/adapter"
	"telegram-storefront-bot/internal/infra/metrics"
)

// NotificationListener subscribes to this bot's channel on the shared
// bus and pushes backend events (payment completed, broadcasts) into
// live chats. Delivery is at-most-once and best-effort: failures are
// logged and the stream moves on; there are no retries and no
// dead-letter path.
type NotificationListener struct {
	bus      adapter.Bus
	platform adapter.ChatPlatform
	backend  adapter.BackendAPI
	botName  string
	log      *zerolog.Logger
}

func NewNotificationListener(bus adapter.Bus, platform adapter.ChatPlatform, backend adapter.BackendAPI, botName string, logger *zerolog.Logger) *NotificationListener {
	return &NotificationListener{bus: bus, platform: platform, backend: backend, botName: botName, log: logger}
}

// Run consumes the channel until ctx is canceled. Each event is handled
// on its own goroutine so one hung platform call cannot starve delivery
// to other chats.
func (l *NotificationListener) Run(ctx context.Context) error {
	channel := adapter.NotifyChannel(l.botName)
	events, err := l.bus.Subscribe(ctx, channel)
	if err != nil {
		return err
	}
	l.log.Info().Str("channel", channel).Msg("notification listener subscribed")

	for payload := range events {
		go l.Handle(ctx, payload)
	}
	return ctx.Err()
}

// Handle processes one raw bus payload.
func (l *NotificationListener) Handle(ctx context.Context, payload []byte) {
	var ev model.NotificationEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		metrics.IncNotification("malformed")
		l.log.Warn().Err(err).Str("payload", string(payload)).Msg("malformed notification")
		return
	}
	if ev.TelegramID == 0 || ev.Message == "" {
		metrics.IncNotification("malformed")
		l.log.Warn().Str("payload", string(payload)).Msg("incomplete notification")
		return
	}

	// Stale-message cleanup first, e.g. removing a captcha photo before
	// the welcome text lands.
	if ev.MessageToDelete != nil {
		if err := l.platform.DeleteMessage(ctx, ev.TelegramID, *ev.MessageToDelete); err != nil {
			l.log.Debug().Err(err).Int("msg_id", *ev.MessageToDelete).Msg("notification delete failed")
		}
	}

	content := model.Content{Text: ev.Message, Keyboard: ev.InlineKeyboard}
	if ev.ImageID != "" {
		img, err := l.backend.GetImage(ctx, ev.ImageID)
		if err != nil {
			l.log.Warn().Err(err).Str("image_id", ev.ImageID).Msg("notification image fetch failed, sending text only")
		} else {
			content.Image = img
		}
	}

	if err := l.render(ctx, ev, content); err != nil {
		metrics.IncNotification("failed")
		l.log.Warn().Err(err).Int64("chat_id", ev.TelegramID).Msg("notification delivery failed")
		return
	}
	metrics.IncNotification("ok")
}

func (l *NotificationListener) render(ctx context.Context, ev model.NotificationEvent, c model.Content) error {
	if ev.MessageToEdit != nil && !c.HasImage() {
		if _, err := l.platform.EditText(ctx, ev.TelegramID, *ev.MessageToEdit, c.Text, c.Keyboard); err == nil {
			return nil
		}
		// Edit target gone or unchanged content: fall through to send.
	}
	if c.HasImage() {
		_, err := l.platform.SendPhoto(ctx, ev.TelegramID, c.Image, c.Text, c.Keyboard)
		return err
	}
	_, err := l.platform.SendText(ctx, ev.TelegramID, c.Text, c.Keyboard)
	return err
}
