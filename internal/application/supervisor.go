// Package application wires infrastructure into running workers and
// keeps them alive: each worker runs under a supervisor that restarts
// it after transient failures and stops it for good when its bot
// credential is dead.
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"telegram-storefront-bot/internal/infra/metrics"
	"telegram-storefront-bot/internal/infra/telegram"
)

// Supervisor runs a worker function in a restart loop. A return value
// recognized by telegram.IsAuthError stops the worker permanently; any
// other failure is retried after the restart interval.
type Supervisor struct {
	name     string
	start    func(ctx context.Context) error
	interval time.Duration
	log      *zerolog.Logger
}

func NewSupervisor(name string, start func(ctx context.Context) error, interval time.Duration, logger *zerolog.Logger) *Supervisor {
	if interval <= 0 {
		interval = time.Second
	}
	return &Supervisor{name: name, start: start, interval: interval, log: logger}
}

// Run blocks until ctx is canceled or the worker fails permanently.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		err := s.start(ctx)

		if ctx.Err() != nil {
			s.log.Info().Str("worker", s.name).Msg("supervisor stopped")
			return nil
		}
		if telegram.IsAuthError(err) {
			s.log.Error().Err(err).Str("worker", s.name).Msg("credential revoked, worker stopped permanently")
			return fmt.Errorf("worker %s: %w", s.name, err)
		}

		if err != nil {
			s.log.Warn().Err(err).Str("worker", s.name).Dur("restart_in", s.interval).Msg("worker failed, restarting")
		} else {
			s.log.Warn().Str("worker", s.name).Dur("restart_in", s.interval).Msg("worker exited, restarting")
		}
		metrics.IncSupervisorRestart(s.name)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.interval):
		}
	}
}
