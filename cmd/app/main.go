// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"telegram-storefront-bot/internal/application"
	"telegram-storefront-bot/internal/config"
	"telegram-storefront-bot/internal/infra/backend"
	httpapi "telegram-storefront-bot/internal/infra/http"
	"telegram-storefront-bot/internal/infra/i18n"
	"telegram-storefront-bot/internal/infra/logging"
	"telegram-storefront-bot/internal/infra/metrics"
	red "telegram-storefront-bot/internal/infra/redis"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	// ---- Metrics ----
	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	dialogueRepo := red.NewDialogueRepo(redisClient, cfg.Bot.Username)
	bus := red.NewBus(redisClient)

	// ---- Backend ----
	backendClient := backend.NewClient(cfg.Backend)
	captchaClient := backend.NewCaptchaClient(cfg.Backend.CaptchaURL, cfg.Backend.APIKey, cfg.Backend.Timeout)

	// ---- i18n ----
	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Locale)
	if err != nil {
		log.Fatalf("i18n: %v", err)
	}

	// ---- HTTP (health + metrics) ----
	srv := httpapi.NewServer(cfg.HTTP.Port, registry, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Bot worker ----
	botWorker := application.NewBotWorker(cfg, dialogueRepo, backendClient, captchaClient, bus, tr, logger)
	botSup := application.NewSupervisor("bot", botWorker.Run, cfg.Supervisor.RestartInterval, logger)
	go func() {
		if err := botSup.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("bot supervisor exited")
		}
	}()

	// ---- Manager worker (optional) ----
	if cfg.Manager.Token != "" {
		managerWorker := application.NewManagerWorker(cfg, backendClient, bus, tr, logger)
		managerSup := application.NewSupervisor("manager", managerWorker.Run, cfg.Supervisor.RestartInterval, logger)
		go func() {
			if err := managerSup.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("manager supervisor exited")
			}
		}()
	} else {
		logger.Info().Msg("manager.token not set, manager bot disabled")
	}

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown")
	}
}
