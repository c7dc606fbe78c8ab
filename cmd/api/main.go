package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"matchchat/internal/adapter/api"
	"matchchat/internal/adapter/api/handler"
	apimiddleware "matchchat/internal/adapter/api/middleware"
	"matchchat/internal/adapter/api/router"
	"matchchat/internal/infrastructure/cache"
	"matchchat/internal/infrastructure/events"
	"matchchat/internal/infrastructure/metrics"
	"matchchat/internal/usecase"
	"matchchat/pkg/config"
	"matchchat/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		logger.Fatal("%v", err)
	}
}

// run returns errors instead of exiting so deferred cleanup always runs.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.New()

	deps, err := newDependencies(ctx, cfg, clk)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	eligibilityCache := cache.NewEligibilityCache(clk, cfg.EligibilityCacheTTL)
	eligibilityUseCase := usecase.NewEligibilityUseCase(deps.matchRepo, eligibilityCache, clk, cfg.MetadataTimeout)
	reaperUseCase := usecase.NewReaperUseCase(deps.messageRepo, eligibilityCache, clk, cfg.SweepInterval)
	chatUseCase := usecase.NewChatUseCase(
		deps.messageRepo,
		deps.matchRepo,
		deps.userRepo,
		eligibilityUseCase,
		reaperUseCase,
		deps.limiter,
		clk,
		usecase.ChatConfig{
			MessageTTL:      cfg.MessageTTL,
			PollInterval:    cfg.PollInterval,
			MetadataTimeout: cfg.MetadataTimeout,
		},
	)

	reaperUseCase.StartSweepJob(ctx)

	if len(cfg.KafkaBrokers) > 0 {
		consumer := events.NewResultConsumer(cfg.KafkaBrokers, cfg.KafkaResultTopic, cfg.KafkaGroupID, reaperUseCase)
		defer consumer.Close()
		go consumer.Consume(ctx)
		logger.Info("Consuming match results from topic %s", cfg.KafkaResultTopic)
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l := logger.WithRequest(v.RequestID)
			l.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Err(v.Error).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(metrics.EchoMiddleware())

	ipLimiter := apimiddleware.NewRateLimiter(rate.Limit(20), 40, 5*time.Minute)
	defer ipLimiter.Stop()
	e.Use(ipLimiter.RateLimitMiddleware())

	e.Validator = api.NewValidator()

	handlers := &handler.Handlers{
		Chat:   handler.NewChatHandler(chatUseCase),
		Result: handler.NewResultHandler(reaperUseCase, deps.resultRecorder),
		Health: handler.NewHealthHandler(handler.HealthInfo{
			MessageStore:    cfg.MessageStore,
			MetadataBackend: cfg.MetadataBackend,
			AuthProvider:    cfg.AuthProvider,
		}),
	}
	if cfg.IsDevelopment() && deps.tokenIssuer != nil {
		handlers.DevToken = handler.NewDevTokenHandler(deps.tokenIssuer)
	}

	router.Setup(e, handlers, apimiddleware.NewAuthMiddleware(deps.verifier), router.Options{
		Environment:   cfg.Environment,
		InternalToken: cfg.InternalToken,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		return fmt.Errorf("server stopped: %w", err)
	}
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
	return nil
}
