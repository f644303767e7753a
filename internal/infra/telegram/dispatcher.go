package telegram

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-storefront-bot/internal/domain/model"
	"telegram-storefront-bot/internal/infra/metrics"
)

// UpdateHandler consumes reduced inbound updates; implemented by the
// session use case.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, up model.InboundUpdate) error
}

// Dispatcher long-polls the platform and fans updates out to a bounded
// worker set. Updates for different chats run concurrently; the handler
// serializes per-chat work by fully rewriting that chat's state.
type Dispatcher struct {
	platform *Platform
	handler  UpdateHandler
	workers  int
	log      *zerolog.Logger
}

func NewDispatcher(platform *Platform, handler UpdateHandler, workers int, logger *zerolog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 8
	}
	return &Dispatcher{platform: platform, handler: handler, workers: workers, log: logger}
}

// Run polls until ctx is canceled. In-flight handlers are awaited;
// best-effort delivery tolerates the ones canceled mid-render.
func (d *Dispatcher) Run(ctx context.Context) error {
	updates := d.platform.UpdatesChan(60)

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case update, ok := <-updateChan:
					if !ok {
						return
					}
					up, ok := reduceUpdate(update)
					if !ok {
						continue
					}
					if err := d.handler.HandleUpdate(ctx, up); err != nil {
						metrics.IncUpdateError()
						d.log.Error().Err(err).Int("worker", workerID).
							Int64("chat_id", up.ChatID).Msg("handle update")
					}
				case <-ctx.Done():
					return
				}
			}
		}(i + 1)
	}

	go func() {
		defer close(updateChan)
		for {
			select {
			case update := <-updates:
				select {
				case updateChan <- update:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	<-ctx.Done()
	d.platform.StopReceivingUpdates()
	wg.Wait()
	return nil
}

// reduceUpdate converts a raw platform update into the handler's shape.
// Unsupported update kinds are dropped here.
func reduceUpdate(update tgbotapi.Update) (model.InboundUpdate, bool) {
	switch {
	case update.CallbackQuery != nil:
		q := update.CallbackQuery
		if q.Message == nil {
			return model.InboundUpdate{}, false
		}
		metrics.IncUpdate("action")
		return model.InboundUpdate{
			ChatID:     q.Message.Chat.ID,
			Username:   q.From.UserName,
			CallbackID: q.ID,
			RawAction:  q.Data,
		}, true

	case update.Message != nil:
		msg := update.Message
		if msg.From == nil {
			return model.InboundUpdate{}, false
		}
		up := model.InboundUpdate{
			ChatID:    msg.Chat.ID,
			Username:  msg.From.UserName,
			MessageID: msg.MessageID,
		}
		if cmd := parseCommand(msg.Text); cmd != "" {
			metrics.IncUpdate("command")
			up.Command = cmd
			return up, true
		}
		if msg.Text != "" {
			metrics.IncUpdate("text")
			up.Text = msg.Text
			return up, true
		}
		return model.InboundUpdate{}, false
	}
	metrics.IncUpdate("other")
	return model.InboundUpdate{}, false
}

// parseCommand extracts the command name from "/cmd" or "/cmd@botname".
func parseCommand(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.Fields(text)[0][1:]
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd)
}
