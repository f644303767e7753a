package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-storefront-bot/internal/dialog"
	"telegram-storefront-bot/internal/domain"
	"telegram-storefront-bot/internal/domain/model"
	"telegram-storefront-bot/internal/domain/ports/adapter"
	"telegram-storefront-bot/internal/domain/ports/repository"
	"telegram-storefront-bot/internal/infra/i18n"
	"telegram-storefront-bot/internal/infra/logging"
)

// SessionUseCase drives one customer dialogue per inbound update: load
// the persisted state, run the transition, execute the planned effects,
// render the resulting screen and write the new state back.
type SessionUseCase struct {
	repo      repository.DialogueRepository
	backend   adapter.BackendAPI
	challenge adapter.ChallengeProvider
	platform  adapter.ChatPlatform
	renderer  adapter.Renderer
	views     *Views
	tr        *i18n.Translator
	botName   string
	log       *zerolog.Logger
}

func NewSessionUseCase(
	repo repository.DialogueRepository,
	backend adapter.BackendAPI,
	challenge adapter.ChallengeProvider,
	platform adapter.ChatPlatform,
	renderer adapter.Renderer,
	views *Views,
	tr *i18n.Translator,
	botName string,
	logger *zerolog.Logger,
) *SessionUseCase {
	return &SessionUseCase{
		repo:      repo,
		backend:   backend,
		challenge: challenge,
		platform:  platform,
		renderer:  renderer,
		views:     views,
		tr:        tr,
		botName:   botName,
		log:       logger,
	}
}

func (s *SessionUseCase) HandleUpdate(ctx context.Context, u model.InboundUpdate) error {
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithTgID(ctx, u.ChatID)
	ctx = logging.WithBot(ctx, s.botName)
	log := logging.With(ctx, s.log)
	defer logging.TraceDuration(log, "SessionUseCase.HandleUpdate")()

	user, err := s.ensureUser(ctx, u)
	if err != nil {
		s.ack(ctx, u, "", false)
		return fmt.Errorf("ensure user: %w", err)
	}
	if user.IsBlocked {
		if u.IsButton() {
			s.ack(ctx, u, s.tr.T("account.blocked"), true)
		} else {
			if _, err := s.platform.SendText(ctx, u.ChatID, s.tr.T("account.blocked"), nil); err != nil {
				log.Warn().Err(err).Msg("blocked notice send failed")
			}
		}
		return nil
	}

	st, err := s.repo.Get(ctx, u.ChatID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.ack(ctx, u, "", false)
		return fmt.Errorf("load dialogue: %w", err)
	}

	ev, ok := decodeEvent(u, user.HasPassedCaptcha)
	if !ok {
		// Garbage or unknown payload: acknowledge and drop.
		s.ack(ctx, u, "", false)
		return nil
	}

	// Every state-changing transition names a screen, so an empty plan
	// always means the event was ignored.
	next, plan := dialog.Transition(st, ev)
	if plan.Empty() {
		s.ack(ctx, u, "", false)
		return nil
	}

	data := screenData{user: user}
	notice := plan.Notice
	for _, eff := range plan.Effects {
		effNotice, err := s.runEffect(ctx, eff, ev, u, next, &data)
		if err != nil {
			log.Error().Err(err).Int("effect", int(eff)).Msg("effect failed")
			return s.fail(ctx, u, st)
		}
		if effNotice != "" {
			notice = effNotice
		}
	}

	s.ack(ctx, u, s.tr.T(notice), notice != "")

	content, err := s.views.Build(ctx, next, plan.Screen, data)
	if err != nil {
		log.Error().Err(err).Msg("view build failed")
		content = s.views.ErrorContent()
	}

	ref, err := s.render(ctx, u, next.LastMsg, content)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	next.LastMsg = &ref

	if err := s.repo.Set(ctx, u.ChatID, next); err != nil {
		return fmt.Errorf("save dialogue: %w", err)
	}
	return nil
}

// ensureUser looks the customer up, registering them on first contact.
func (s *SessionUseCase) ensureUser(ctx context.Context, u model.InboundUpdate) (*model.BotUser, error) {
	user, err := s.backend.GetUser(ctx, u.ChatID, s.botName)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.backend.RegisterUser(ctx, u.ChatID, u.Username, s.botName)
}

// runEffect executes one planned side effect, writing its result into
// the next state or the screen data. A non-empty return string is a
// notice key that overrides the plan's notice.
func (s *SessionUseCase) runEffect(ctx context.Context, eff dialog.Effect, ev dialog.Event, u model.InboundUpdate, next *dialog.State, data *screenData) (string, error) {
	switch eff {
	case dialog.EffectIssueChallenge:
		ch, err := s.challenge.Challenge(ctx)
		if err != nil {
			return "", fmt.Errorf("issue challenge: %w", err)
		}
		next.Expected = ch.Solution
		data.challenge = &ch
		return "", nil

	case dialog.EffectConfirmCaptcha:
		if err := s.backend.ConfirmCaptcha(ctx, u.ChatID); err != nil {
			return "", fmt.Errorf("confirm captcha: %w", err)
		}
		return "", nil

	case dialog.EffectCreateInvoice:
		res, err := s.backend.CreateInvoice(ctx, next.Gateway, next.Amount, u.ChatID)
		if err != nil {
			// The confirm screen renders the failure with a retry
			// button; the nil invoice in state is what arms the retry.
			logging.With(ctx, s.log).Warn().Err(err).
				Str("gateway", next.Gateway).Int64("amount", next.Amount).
				Msg("invoice creation failed")
			return "", nil
		}
		next.Invoice = &dialog.Invoice{OrderID: res.OrderID, PayURL: res.PayURL, Details: res.Details}
		return "", nil

	case dialog.EffectPurchase:
		order, err := s.backend.Purchase(ctx, next.ProductID, u.ChatID)
		if err != nil {
			// Rejected purchases (insufficient balance, product gone) stay
			// on the product screen so the buy button remains pressable.
			logging.With(ctx, s.log).Warn().Err(err).
				Int64("product_id", next.ProductID).Msg("purchase rejected")
			return "product.purchase_failed", nil
		}
		data.order = order
		return "", nil

	case dialog.EffectRegisterReferralToken:
		if err := s.backend.RegisterReferralBot(ctx, ev.Text, u.ChatID); err != nil {
			logging.With(ctx, s.log).Warn().Err(err).Msg("referral token rejected")
			return "referral.token_rejected", nil
		}
		return "", nil
	}
	return "", fmt.Errorf("unknown effect %d", eff)
}

// fail informs the user that the interaction failed without advancing
// the dialogue: the pre-effect state is what gets persisted, so the
// next press retries from where the user actually is.
func (s *SessionUseCase) fail(ctx context.Context, u model.InboundUpdate, st *dialog.State) error {
	if u.IsButton() {
		s.ack(ctx, u, s.tr.T("error.generic"), true)
		return nil
	}
	if st == nil {
		st = dialog.NewState()
	}
	ref, err := s.render(ctx, u, st.LastMsg, s.views.ErrorContent())
	if err != nil {
		return fmt.Errorf("render failure notice: %w", err)
	}
	st.LastMsg = &ref
	return s.repo.Set(ctx, u.ChatID, st)
}

func (s *SessionUseCase) render(ctx context.Context, u model.InboundUpdate, last *model.MessageRef, c model.Content) (model.MessageRef, error) {
	if u.IsButton() {
		return s.renderer.Render(ctx, u.ChatID, last, c)
	}
	return s.renderer.RenderFresh(ctx, u.ChatID, u.MessageID, last, c)
}

// ack answers the callback query when the update came from a button.
// Telegram keeps the button spinner alive until the callback is
// answered, even when the press changed nothing.
func (s *SessionUseCase) ack(ctx context.Context, u model.InboundUpdate, text string, alert bool) {
	if !u.IsButton() {
		return
	}
	if err := s.platform.AnswerCallback(ctx, u.CallbackID, text, alert); err != nil {
		logging.With(ctx, s.log).Debug().Err(err).Msg("callback answer failed")
	}
}

// decodeEvent turns a reduced platform update into a machine event.
// Unknown button payloads and empty updates report ok=false.
func decodeEvent(u model.InboundUpdate, verified bool) (dialog.Event, bool) {
	switch {
	case u.Command != "":
		return dialog.Event{Kind: dialog.EventCommand, Command: u.Command, Verified: verified}, true
	case u.RawAction != "":
		a, ok := dialog.DecodeAction(u.RawAction)
		if !ok {
			return dialog.Event{}, false
		}
		return dialog.Event{Kind: dialog.EventAction, Action: a, Verified: verified}, true
	case u.Text != "":
		return dialog.Event{Kind: dialog.EventText, Text: u.Text, Verified: verified}, true
	}
	return dialog.Event{}, false
}
