package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"listapresentes/productworker/config"
	"listapresentes/productworker/helpers"
	"listapresentes/productworker/internal/extractor"
	"listapresentes/productworker/logger"
	"listapresentes/productworker/services/cache"
	"listapresentes/productworker/services/escalation"
	"listapresentes/productworker/services/publisher"
	"listapresentes/productworker/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("version", cfg.AppVersion).
		Dur("refresh_interval", cfg.RefreshInterval).
		Bool("escalation", cfg.EscalationEnabled()).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services := initializeServices(ctx, cfg)
	defer services.Cleanup()

	w := newRefreshWorker(cfg, services)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Str("urls_file", cfg.RefreshURLsFile).Msg("Starting product refresh worker")
		workerDone <- w.Start(ctx)
	}()

	// Wait for shutdown signal or worker error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case err := <-workerDone:
		if err != nil {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Reporter  *escalation.AsyncReporter
}

// Cleanup drains pending reports and closes connections
func (s *Services) Cleanup() {
	if s.Reporter != nil {
		s.Reporter.Close()
	}
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices initializes all required services. Memcached and Redis
// being unreachable at startup is logged; the clients reconnect on use.
func initializeServices(ctx context.Context, cfg *config.Config) *Services {
	services := &Services{}

	// Initialize cache service
	cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
	if err := cacheService.Ping(); err != nil {
		logger.ForCache().Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache not reachable yet")
	} else {
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	}
	services.Cache = cacheService

	// Initialize publisher
	redisPublisher := publisher.NewRedisPublisher(
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	if err := redisPublisher.Ping(ctx); err != nil {
		logger.ForPublisher().Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis not reachable yet")
	} else {
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}
	services.Publisher = redisPublisher

	// Initialize escalation
	services.Reporter = escalation.NewAsyncReporter(
		escalation.NewReporter(cfg, cacheService),
		cfg.EscalationQueueSize,
		cfg.EscalationWorkers,
		0,
	)

	return services
}

// newRefreshWorker wires the extraction pipeline into the refresh worker
func newRefreshWorker(cfg *config.Config, services *Services) *worker.Worker {
	fetcher := extractor.HTTPFetcher{Client: helpers.NewHTTPClient(cfg.FetchTimeout)}
	orchestrator := extractor.NewOrchestrator(extractor.NewDispatcher(fetcher), services.Reporter)

	var images worker.ImageFetcher
	if cfg.EmbedImages {
		imageClient := helpers.NewHTTPClient(cfg.ImageFetchTimeout)
		images = func(ctx context.Context, url string) ([]byte, string, error) {
			return helpers.FetchImage(ctx, imageClient, url)
		}
	}

	return worker.NewWorker(
		orchestrator,
		services.Publisher,
		services.Cache,
		worker.FileSource{Path: cfg.RefreshURLsFile},
		images,
		worker.Options{
			Interval:      cfg.RefreshInterval,
			SweepTimeout:  cfg.SweepTimeout,
			ResultTTL:     cfg.ResultCacheTTL,
			Concurrency:   cfg.RefreshConcurrency,
			RatePerSecond: cfg.RefreshRatePerSecond,
			RateBurst:     cfg.RefreshRateBurst,
		},
	)
}
