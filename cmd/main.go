package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"shopease-service/internal/api"
	"shopease-service/internal/catalog"
	"shopease-service/internal/config"
	"shopease-service/internal/events"
	"shopease-service/internal/idempotency"
	"shopease-service/internal/payment"
	"shopease-service/internal/repository"
	"shopease-service/internal/service"
	"shopease-service/migrations"
)

func loadCatalog(ctx context.Context, cfg config.Config) (*catalog.Store, error) {
	sample, err := repository.NewSampleProductRepository()
	if err != nil {
		return nil, err
	}
	if cfg.CatalogSource != config.CatalogMySQL {
		return catalog.Load(ctx, sample)
	}

	db, err := config.ConnectDB(cfg.DB)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := migrations.AutoMigrateProducts(3, db); err != nil {
		return nil, err
	}
	repo := repository.NewMySQLProductRepository(db)
	products, err := sample.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	if err := repo.SeedProducts(ctx, products); err != nil {
		return nil, err
	}
	return catalog.Load(ctx, repo)
}

func idempotencyGuard(ctx context.Context, cfg config.Config) idempotency.Guard {
	if cfg.RedisAddr == "" {
		return idempotency.NewMemoryGuard(idempotency.DefaultTTL)
	}
	rdb, err := config.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	return idempotency.NewRedisGuard(rdb, idempotency.DefaultTTL)
}

func eventPublisher(cfg config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.LogPublisher{}
	}
	return events.NewKafkaPublisher(config.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
}

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := loadCatalog(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}

	publisher := eventPublisher(cfg)
	defer publisher.Close()

	storefront := service.NewStorefrontService(store, service.Options{
		Gateway:   payment.NewSimulatedGateway(cfg.PaymentDelay),
		Guard:     idempotencyGuard(ctx, cfg),
		Publisher: publisher,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.SessionTTL,
		Shards:    cfg.SessionShards,
	})
	go storefront.RunSweeper(ctx, time.Minute, cfg.SessionIdleTimeout)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     cfg.RateBurst,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	e.GET("/health", api.Health)
	api.NewStorefrontHandler(storefront).Register(e)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shut down server")
		}
	}()

	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Str("catalog", cfg.CatalogSource).Msg("starting shopease-service")
	if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}
