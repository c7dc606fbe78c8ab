package main

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/benbjohnson/clock"
	"github.com/redis/go-redis/v9"

	"matchchat/internal/adapter/api/handler"
	"matchchat/internal/adapter/api/middleware"
	"matchchat/internal/adapter/repository"
	domainrepo "matchchat/internal/domain/repository"
	"matchchat/internal/infrastructure/auth"
	"matchchat/internal/infrastructure/firebase"
	"matchchat/internal/infrastructure/ratelimit"
	"matchchat/internal/infrastructure/sqlite"
	"matchchat/pkg/config"
	"matchchat/pkg/logger"
)

// dependencies holds the backends picked by configuration.
type dependencies struct {
	messageRepo    domainrepo.MessageRepository
	matchRepo      domainrepo.MatchRepository
	userRepo       domainrepo.UserRepository
	resultRecorder handler.ResultRecorder
	limiter        ratelimit.Limiter
	verifier       middleware.TokenVerifier
	tokenIssuer    handler.TokenIssuer

	closers []func() error
}

func newDependencies(ctx context.Context, cfg *config.Config, clk clock.Clock) (*dependencies, error) {
	d := &dependencies{}

	var fsClient *firestore.Client
	firestoreClient := func() (*firestore.Client, error) {
		if fsClient != nil {
			return fsClient, nil
		}
		opts, err := firebase.Credentials(cfg.FirebaseCredentialsJSON, cfg.FirebaseCredentialsPath)
		if err != nil {
			return nil, err
		}
		client, err := firebase.NewFirestoreClient(ctx, cfg.FirebaseProject, opts...)
		if err != nil {
			return nil, err
		}
		fsClient = client
		d.closers = append(d.closers, client.Close)
		return client, nil
	}

	switch cfg.MessageStore {
	case "memory":
		d.messageRepo = repository.NewMemoryMessageRepository(clk)
	case "sqlite":
		db, err := sqlite.InitDB(cfg.SQLitePath)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		d.closers = append(d.closers, db.Close)
		d.messageRepo = repository.NewSQLiteMessageRepository(db, clk)
	case "firestore":
		client, err := firestoreClient()
		if err != nil {
			d.Close()
			return nil, err
		}
		d.messageRepo = repository.NewFirestoreMessageRepository(client, clk)
	default:
		return nil, fmt.Errorf("unknown MESSAGE_STORE %q", cfg.MessageStore)
	}
	logger.Info("Message store: %s", cfg.MessageStore)

	switch cfg.MetadataBackend {
	case "fixture":
		fixtures, err := repository.LoadFixtureRepository(cfg.FixturePath)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.matchRepo = fixtures
		d.userRepo = fixtures
		d.resultRecorder = fixtures
	case "firestore":
		client, err := firestoreClient()
		if err != nil {
			d.Close()
			return nil, err
		}
		d.matchRepo = repository.NewFirestoreMatchRepository(client)
		d.userRepo = repository.NewFirestoreUserRepository(client)
	default:
		d.Close()
		return nil, fmt.Errorf("unknown METADATA_BACKEND %q", cfg.MetadataBackend)
	}
	logger.Info("Match metadata backend: %s", cfg.MetadataBackend)

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		d.closers = append(d.closers, rdb.Close)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("Redis at %s not reachable yet: %v", cfg.RedisAddr, err)
		}
		cancel()
		d.limiter = ratelimit.NewRedisLimiter(rdb)
		logger.Info("Rate limiter: redis %s", cfg.RedisAddr)
	} else {
		limiter := ratelimit.NewMemoryLimiter(clk)
		d.closers = append(d.closers, func() error { limiter.Stop(); return nil })
		d.limiter = limiter
	}

	switch cfg.AuthProvider {
	case "jwt":
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second, clk)
		d.verifier = jwtManager
		d.tokenIssuer = jwtManager
	case "firebase":
		opts, err := firebase.Credentials(cfg.FirebaseCredentialsJSON, cfg.FirebaseCredentialsPath)
		if err != nil {
			d.Close()
			return nil, err
		}
		authClient, err := firebase.NewAuthClient(ctx, cfg.FirebaseProject, opts...)
		if err != nil {
			d.Close()
			return nil, err
		}
		// custom tokens must be exchanged client side, so no dev token route
		d.verifier = firebase.NewFirebaseAuthClient(authClient)
	default:
		d.Close()
		return nil, fmt.Errorf("unknown AUTH_PROVIDER %q", cfg.AuthProvider)
	}

	return d, nil
}

func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			logger.Warn("Closing dependency: %v", err)
		}
	}
	d.closers = nil
}
