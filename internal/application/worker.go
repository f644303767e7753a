package application

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"telegram-storefront-bot/internal/config"
	"telegram-storefront-bot/internal/domain/ports/adapter"
	"telegram-storefront-bot/internal/domain/ports/repository"
	"telegram-storefront-bot/internal/infra/i18n"
	"telegram-storefront-bot/internal/infra/telegram"
	"telegram-storefront-bot/internal/usecase"
)

// BotWorker is one full customer-facing bot: platform connection,
// update dispatcher and notification listener, assembled per run so a
// restart re-authenticates from scratch.
type BotWorker struct {
	cfg       *config.Config
	repo      repository.DialogueRepository
	backend   adapter.BackendAPI
	challenge adapter.ChallengeProvider
	bus       adapter.Bus
	tr        *i18n.Translator
	log       *zerolog.Logger
}

func NewBotWorker(
	cfg *config.Config,
	repo repository.DialogueRepository,
	backend adapter.BackendAPI,
	challenge adapter.ChallengeProvider,
	bus adapter.Bus,
	tr *i18n.Translator,
	logger *zerolog.Logger,
) *BotWorker {
	return &BotWorker{
		cfg:       cfg,
		repo:      repo,
		backend:   backend,
		challenge: challenge,
		bus:       bus,
		tr:        tr,
		log:       logger,
	}
}

// Run connects to the platform and serves updates and notifications
// until ctx is canceled or one of the loops fails.
func (w *BotWorker) Run(ctx context.Context) error {
	platform, err := telegram.NewPlatform(w.cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("bot worker: %w", err)
	}
	w.log.Info().Str("username", platform.Username()).Msg("bot authenticated")

	renderer := telegram.NewRenderer(platform, w.log)
	views := usecase.NewViews(w.backend, w.tr, w.log)
	session := usecase.NewSessionUseCase(
		w.repo, w.backend, w.challenge, platform, renderer, views,
		w.tr, w.cfg.Bot.Username, w.log,
	)

	dispatcher := telegram.NewDispatcher(platform, session, w.cfg.Bot.Workers, w.log)
	listener := telegram.NewNotificationListener(w.bus, platform, w.backend, w.cfg.Bot.Username, w.log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dispatcher.Run(ctx) })
	g.Go(func() error { return listener.Run(ctx) })
	return g.Wait()
}

// ManagerWorker is the approval bot: it consumes admin request events
// and serves the managers' approve/reject buttons.
type ManagerWorker struct {
	cfg     *config.Config
	backend adapter.BackendAPI
	bus     adapter.Bus
	tr      *i18n.Translator
	log     *zerolog.Logger
}

func NewManagerWorker(cfg *config.Config, backend adapter.BackendAPI, bus adapter.Bus, tr *i18n.Translator, logger *zerolog.Logger) *ManagerWorker {
	return &ManagerWorker{cfg: cfg, backend: backend, bus: bus, tr: tr, log: logger}
}

func (m *ManagerWorker) Run(ctx context.Context) error {
	platform, err := telegram.NewPlatform(m.cfg.Manager.Token)
	if err != nil {
		return fmt.Errorf("manager worker: %w", err)
	}
	m.log.Info().Str("username", platform.Username()).Msg("manager bot authenticated")

	listener := telegram.NewManagerListener(platform, m.bus, m.backend, m.tr, m.log)
	return listener.Run(ctx)
}
