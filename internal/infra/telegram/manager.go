package telegram

import (
	"context"
	"encoding/json"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-storefront-bot/internal/dialog"
	"telegram-storefront-bot/internal/domain/model"
	"telegram-storefront-bot/internal/domain/ports/adapter"
	"telegram-storefront-bot/internal/infra/i18n"
	"telegram-storefront-bot/internal/infra/metrics"
)

// ManagerListener runs the administrative bot: it renders approve/reject
// requests arriving on the global manager channel and relays operator
// decisions back to the backend. It keeps no state between requests —
// the request id inside the button token is the only correlation key.
type ManagerListener struct {
	platform *Platform
	bus      adapter.Bus
	backend  adapter.BackendAPI
	tr       *i18n.Translator
	log      *zerolog.Logger
}

func NewManagerListener(platform *Platform, bus adapter.Bus, backend adapter.BackendAPI, tr *i18n.Translator, logger *zerolog.Logger) *ManagerListener {
	return &ManagerListener{platform: platform, bus: bus, backend: backend, tr: tr, log: logger}
}

// Run starts the bus consumer and the update loop; it returns when ctx
// is canceled or the bus subscription is lost.
func (m *ManagerListener) Run(ctx context.Context) error {
	events, err := m.bus.Subscribe(ctx, adapter.ManagerChannel)
	if err != nil {
		return err
	}
	m.log.Info().Str("channel", adapter.ManagerChannel).Msg("manager listener subscribed")

	updates := m.platform.UpdatesChan(60)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				m.handleUpdate(ctx, update)
			}
		}
	}()

	for payload := range events {
		go m.HandleAdminRequest(ctx, payload)
	}

	m.platform.StopReceivingUpdates()
	wg.Wait()
	return ctx.Err()
}

// HandleAdminRequest renders one administrative approval request into
// the manager group chat.
func (m *ManagerListener) HandleAdminRequest(ctx context.Context, payload []byte) {
	var ev model.AdminRequestEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		// No version field on this channel: an incompatible publisher
		// shows up as a decode failure, so keep the raw payload visible.
		m.log.Warn().Err(err).Str("payload", string(payload)).Msg("malformed admin request")
		return
	}

	settings, err := m.backend.GetSettings(ctx)
	if err != nil {
		m.log.Error().Err(err).Int64("request_id", ev.RequestID).Msg("settings fetch failed, admin request dropped")
		return
	}
	if settings.ManagerChatID == 0 {
		m.log.Warn().Int64("request_id", ev.RequestID).Msg("manager chat not configured, admin request dropped")
		return
	}

	text, kb := m.buildRequest(ev)
	if _, err := m.platform.SendText(ctx, settings.ManagerChatID, text, kb); err != nil {
		m.log.Error().Err(err).Int64("request_id", ev.RequestID).Msg("admin request delivery failed")
	}
}

func (m *ManagerListener) buildRequest(ev model.AdminRequestEvent) (string, model.Keyboard) {
	kindKey, actionKey := "manager.kind_deposit", "manager.confirm_deposit"
	if ev.RequestKind == model.RequestKindWithdrawal {
		kindKey, actionKey = "manager.kind_withdrawal", "manager.confirm_withdrawal"
	}

	text := m.tr.T("manager.request",
		ev.RequestID, m.tr.T(kindKey), ev.AmountLocal, ev.AmountForeign, m.tr.T(actionKey))

	kb := model.Keyboard{model.Row(
		model.Button{
			Text:   m.tr.T("manager.approve"),
			Action: dialog.ManagerAction{Approve: true, RequestID: ev.RequestID, Kind: ev.RequestKind}.Encode(),
		},
		model.Button{
			Text:   m.tr.T("manager.reject"),
			Action: dialog.ManagerAction{Approve: false, RequestID: ev.RequestID, Kind: ev.RequestKind}.Encode(),
		},
	)}
	return text, kb
}

// handleUpdate also opportunistically reports the group chat identity on
// every inbound update, so the backend always has a fresh delivery
// target without a separate registration step.
func (m *ManagerListener) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		q := update.CallbackQuery
		if q.Message != nil {
			m.syncChatID(ctx, q.Message.Chat.ID)
		}
		m.handleCallback(ctx, q)
	case update.Message != nil:
		m.syncChatID(ctx, update.Message.Chat.ID)
	case update.MyChatMember != nil:
		m.syncChatID(ctx, update.MyChatMember.Chat.ID)
	}
}

func (m *ManagerListener) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	action, ok := dialog.DecodeManagerAction(q.Data)
	if !ok {
		return
	}

	operatorID := q.From.ID
	var err error
	decision := "reject"
	if action.Approve {
		decision = "approve"
		err = m.backend.CompleteBalanceRequest(ctx, action.RequestID, operatorID)
	} else {
		err = m.backend.RejectBalanceRequest(ctx, action.RequestID, operatorID)
	}
	metrics.IncManagerDecision(decision, err == nil)

	ackKey := "manager.approved"
	if !action.Approve {
		ackKey = "manager.rejected"
	}
	if err != nil {
		m.log.Error().Err(err).Int64("request_id", action.RequestID).Str("decision", decision).Msg("relay decision")
		ackKey = "manager.failed"
	} else if q.Message != nil {
		// The request is handled; its message only invites double-clicks.
		if derr := m.platform.DeleteMessage(ctx, q.Message.Chat.ID, q.Message.MessageID); derr != nil {
			m.log.Debug().Err(derr).Msg("delete processed request message failed")
		}
	}

	if aerr := m.platform.AnswerCallback(ctx, q.ID, m.tr.T(ackKey, action.RequestID), false); aerr != nil {
		m.log.Debug().Err(aerr).Msg("answer manager callback failed")
	}
}

func (m *ManagerListener) syncChatID(ctx context.Context, chatID int64) {
	// Group and supergroup ids are negative; private chats are not a
	// valid delivery target for admin requests.
	if chatID >= 0 {
		return
	}
	if err := m.backend.ReportManagerChat(ctx, chatID); err != nil {
		m.log.Warn().Err(err).Int64("chat_id", chatID).Msg("sync manager chat id failed")
	}
}
