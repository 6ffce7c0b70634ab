package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"omonat/internal/amqp"
	"omonat/internal/api"
	"omonat/internal/cache"
	"omonat/internal/cli"
	apphttp "omonat/internal/http"
	"omonat/internal/log"
	"omonat/internal/schema"
	"omonat/internal/services"
	"omonat/internal/session"
)

func main() {
	// .env is for local development only
	envErr := cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	if envErr != nil {
		logger.Warn("Failed to load .env file", log.FieldError, envErr.Error())
	}

	cfg := cli.LoadAndValidateConfig(logger)

	registry, err := session.NewRegistry(session.RegistryConfig{
		MaxSessions: cfg.SessionMax,
		TTL:         cfg.SessionTTL,
		Store: cache.StoreConfig{
			MaxEntries: cfg.CacheMaxEntries,
			TTL:        cfg.CacheTTL,
			Dedupe:     cfg.DedupeInterval,
			Timeout:    cfg.APITimeout,
		},
		NewClient: func(token string) (*api.Client, error) {
			return api.New(cfg.APIBaseURL,
				api.WithSessionToken(token),
				api.WithTimeout(cfg.APITimeout),
				api.WithLogger(logger))
		},
		Logger: logger,
	})
	if err != nil {
		logger.Error("Failed to initialize session registry", log.FieldError, err.Error())
		os.Exit(1)
	}

	validator, err := schema.New()
	if err != nil {
		logger.Error("Failed to compile request schemas", log.FieldError, err.Error())
		os.Exit(1)
	}

	cacheManager := cache.NewManager(logger)
	cacheManager.Register(registry)
	cacheManager.StartCleanup(cfg.CleanupInterval)

	loc := cfg.Location()
	deps := services.Deps{
		Logger:    logger,
		WarmStats: true,
		Clock:     func() time.Time { return time.Now().In(loc) },
	}

	var (
		bus   *amqp.Client
		ready func(context.Context) error
	)
	if cfg.BusEnabled() {
		bus, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
			os.Exit(1)
		}
		deps.Bus = bus
		ready = bus.Ready
		logger.Info("Invalidation bus enabled", "exchange", cfg.AMQPExchange, log.FieldOrigin, bus.Origin())
	} else {
		logger.Info("Invalidation bus disabled - no AMQP_URL provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Registry:           registry,
		Schema:             validator,
		Services:           deps,
		Logger:             logger,
		CookieSecure:       cfg.CookieSecure,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Ready:              ready,
	})

	// Setup graceful shutdown
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		cacheManager.Stop()
		if bus != nil {
			if err := bus.Close(); err != nil {
				logger.Warn("Failed to close AMQP client", log.FieldError, err.Error())
			}
		}
	})

	if bus != nil {
		go func() {
			if err := bus.Consume(ctx, amqp.Invalidator(registry, logger)); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Invalidation consumer stopped", log.FieldError, err.Error())
			}
		}()
	}

	logger.Info("Starting omonat gateway", "port", cfg.Port, "upstream", cfg.APIBaseURL, "timezone", loc.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
