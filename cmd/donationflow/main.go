package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"donationflow/internal/adapter/cache"
	"donationflow/internal/adapter/generator"
	"donationflow/internal/adapter/handler"
	"donationflow/internal/adapter/pricefeed"
	"donationflow/internal/adapter/storage"
	"donationflow/internal/application/service"
	"donationflow/internal/application/usecase"
	"donationflow/internal/domain/model"
	"donationflow/internal/domain/port"
	"donationflow/internal/infrastructure/config"
	"donationflow/internal/infrastructure/logger"
	"donationflow/internal/infrastructure/metrics"
	"donationflow/internal/infrastructure/server"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to the YAML config file")
	portFlag   = flag.Int("port", 0, "Port number")
	helpFlag   = flag.Bool("help", false, "Show help")
)

type App struct {
	config      *config.Config
	logger      zerolog.Logger
	server      *server.Server
	storage     port.StoragePort
	cache       port.CachePort
	modeService *service.ModeService
}

func main() {
	flag.Parse()

	if *helpFlag {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *portFlag != 0 {
		cfg.Server.Port = *portFlag
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info().Str("version", "1.0.0").Msg("starting donationflow")

	app, err := newApp(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize")
		os.Exit(1)
	}

	go func() {
		if err := app.server.Start(); err != nil {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down gracefully")
	app.shutdown()
}

func newApp(cfg *config.Config, log zerolog.Logger) (*App, error) {
	ctx := context.Background()

	postgresAdapter, err := storage.NewPostgresAdapter(cfg.PostgresDSN(), storage.PoolOptions{
		MaxOpenConns:    cfg.PostgreSQL.MaxOpenConns,
		MaxIdleConns:    cfg.PostgreSQL.MaxIdleConns,
		ConnMaxLifetime: cfg.PostgreSQL.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if err := postgresAdapter.InitSchema(ctx); err != nil {
		postgresAdapter.Close()
		return nil, fmt.Errorf("schema: %w", err)
	}

	redisAdapter, err := cache.NewRedisAdapter(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		postgresAdapter.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	initialMode, err := cfg.DataMode()
	if err != nil {
		postgresAdapter.Close()
		redisAdapter.Close()
		return nil, err
	}

	chains := model.Presets(cfg.Donation.SolanaAddress, cfg.Donation.EVMAddress)
	httpClient := &http.Client{}
	liveFeeds := []port.PriceFeedPort{
		pricefeed.NewJupiterFeed(cfg.PriceFeed.JupiterBaseURL, httpClient, log),
		pricefeed.NewCoinGeckoFeed(cfg.PriceFeed.CoinGeckoBaseURL, httpClient, log),
	}
	testFeed := generator.NewStaticFeed("test-generator", cfg.TestPrices.Prices, cfg.TestPrices.Jitter, log)

	m := metrics.Donations()
	modeService := service.NewModeService(initialMode, log)
	priceUseCase := usecase.NewPriceUseCase(chains, liveFeeds, testFeed, modeService, cfg.PriceFeed.Timeout, log)
	donationUseCase := usecase.NewDonationUseCase(chains, postgresAdapter, redisAdapter, cfg.Donation.IdempotencyTTL, m, log)

	handlers := handler.Handlers{
		Price:    handler.NewPriceHandler(priceUseCase, cfg.Donation.PresetAmounts, log),
		Donation: handler.NewDonationHandler(donationUseCase, log),
		Mode:     handler.NewModeHandler(modeService, nil, log),
		Health:   handler.NewHealthHandler(postgresAdapter, redisAdapter, log),

		AllowedOrigins:    cfg.CORS.AllowedOrigins,
		TrustProxyHeaders: cfg.RateLimit.TrustProxyHeaders,
	}
	if cfg.RateLimit.Enabled {
		handlers.Limiter = handler.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, m, log)
	}

	srv := server.NewServer(cfg.Server.Port, handler.NewRouter(handlers, log), server.Options{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, log)

	log.Info().
		Stringer("mode", initialMode).
		Str("solana_address", cfg.Donation.SolanaAddress).
		Str("evm_address", cfg.Donation.EVMAddress).
		Msg("donationflow configured")

	return &App{
		config:      cfg,
		logger:      log,
		server:      srv,
		storage:     postgresAdapter,
		cache:       redisAdapter,
		modeService: modeService,
	}, nil
}

func (a *App) shutdown() {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("shutdown error")
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error().Err(err).Msg("failed to close redis")
	}
	if err := a.storage.Close(); err != nil {
		a.logger.Error().Err(err).Msg("failed to close postgres")
	}

	a.logger.Info().Stringer("mode", a.modeService.GetCurrentMode()).Msg("shutdown complete")
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  donationflow [--config <path>] [--port <N>]")
	fmt.Println("  donationflow --help")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config PATH  Config file (default configs/config.yaml)")
	fmt.Println("  --port N       Port number")
}
