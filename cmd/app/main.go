package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"

	"youtube-performance-tracker/internal/config"
	pg "youtube-performance-tracker/internal/infra/db/postgres"
	"youtube-performance-tracker/internal/infra/events"
	"youtube-performance-tracker/internal/infra/logging"
	"youtube-performance-tracker/internal/infra/metrics"
	mp "youtube-performance-tracker/internal/infra/payment"
	red "youtube-performance-tracker/internal/infra/redis"
	"youtube-performance-tracker/internal/infra/sched"
	"youtube-performance-tracker/internal/infra/web"
	yt "youtube-performance-tracker/internal/infra/youtube"
	"youtube-performance-tracker/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (relaxed config checks)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	cache, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer cache.Close()

	// ---- Repositories ----
	payments := pg.NewPaymentRepo(pool)
	subs := pg.NewSubscriptionRepo(pool)
	companies := pg.NewCompanyRepo(pool)
	plans := pg.NewPlanRepo(pool)
	users := pg.NewUserRepo(pool)
	channels := pg.NewChannelRepoCacheDecorator(pg.NewChannelRepo(pool), cache, cfg.Redis.TTL)
	stats := pg.NewStatsRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Adapters ----
	gateway := mp.NewMercadoPagoGateway(
		cfg.Payment.MercadoPago.AccessToken,
		cfg.Payment.MercadoPago.WebhookSecret,
		cfg.Payment.MercadoPago.BaseURL,
	)
	youtube := yt.NewClient(cfg.YouTube.APIKey, cfg.YouTube.BaseURL, cfg.YouTube.MaxResults)

	// ---- Use cases ----
	bus := events.NewPaymentBus()
	engine := usecase.NewScoreEngine(usecase.ScoreThresholds{
		High:   cfg.Scoring.HighThreshold,
		Medium: cfg.Scoring.MediumThreshold,
	}, nil)
	billingUC := usecase.NewBillingUseCase(plans, users)
	paymentUC := usecase.NewPaymentUseCase(payments, subs, companies, plans, users, gateway, tm, bus, billingUC,
		func() string { return ulid.Make().String() }, logger)
	channelUC := usecase.NewChannelUseCase(channels, youtube, engine, logger)
	statsUC := usecase.NewStatsUseCase(stats, logger)
	planUC := usecase.NewPlanUseCase(plans)

	// ---- Background poller ----
	poller := sched.NewStatusPoller(paymentUC, payments, cfg.Scheduler.PollInterval, cfg.Scheduler.PollGrace, logger)
	go func() {
		if err := poller.Run(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("status poller stopped")
		}
	}()

	// ---- HTTP ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, cfg.Admin.SessionTTL)
	server := web.NewServer(cfg.Server.Port, paymentUC, channelUC, statsUC, planUC, bus, auth, cfg.Admin.Password, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
