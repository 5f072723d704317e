package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FxSignal/internal/account"
	"FxSignal/internal/advisor"
	"FxSignal/internal/collector"
	"FxSignal/internal/config"
	"FxSignal/internal/logging"
	"FxSignal/internal/notifier"
	"FxSignal/internal/recorder"
	"FxSignal/internal/scheduler"
	"FxSignal/internal/server"

	"github.com/rs/zerolog/log"
)

func main() {
	logging.Setup(os.Getenv("LOG_LEVEL"), false)
	log.Info().Msg("FxSignal starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init fetcher
	opts := collector.ClientOptions{
		Proxy:          cfg.Proxy,
		RequestsPerSec: cfg.DataSource.RequestsPerSec,
		MaxRetries:     cfg.DataSource.MaxRetries,
	}
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, opts)
	} else {
		fetcher = collector.NewYahooFetcher(opts)
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")

	col := collector.NewCollector(fetcher, cfg.DataSource.Period, cfg.DataSource.Interval)

	// Init account defaults
	acct, err := account.NewManager(cfg.Account.StateFile, account.State{
		Pair:        cfg.Account.Pair,
		Balance:     cfg.Account.Balance,
		RiskPercent: cfg.Account.RiskPercent,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init account manager")
	}

	rec := recorder.Open(ctx, cfg.Database.SQLitePath, cfg.Database.PostgresDSN)
	defer rec.Close()

	adv := advisor.New(col, rec)

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	var n notifier.Notifier = notifier.NoopNotifier{}
	if cfg.Telegram.BotToken != "" {
		chatID, _ := cfg.ChatID()
		tn, err = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, chatID, cfg.Proxy)
		if err != nil {
			log.Warn().Err(err).Msg("init telegram failed, notifications disabled")
		} else {
			n = tn
		}
	} else {
		log.Warn().Msg("telegram not configured, notifications disabled")
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, adv, acct, n, cfg.Schedule.Pairs)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatal().Err(err).Msg("register cron task")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP API
	srv := server.New(cfg.Server.Addr, adv, acct)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("start http server")
	}

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing signal task now")
		go sched.RunNow()
	}

	log.Info().Msg("FxSignal is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("FxSignal stopped")
}
