package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"arena-quiz-service/internal/app"
	"arena-quiz-service/internal/config"
	"arena-quiz-service/internal/infra/memory"
	"arena-quiz-service/internal/infra/postgres"
	redissession "arena-quiz-service/internal/infra/redis"
	"arena-quiz-service/internal/infra/token"
	transport "arena-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const defaultSessionTTL = 24 * time.Hour

// stores groups the repositories the services run on.
type stores struct {
	games  app.GameStore
	finder app.GameFinder
	topics app.TopicReader
	close  func()
}

func openBunDB(url string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(url)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// openStores connects to Postgres, or falls back to process memory when no URL is configured.
func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	if cfg.Postgres.URL == "" {
		log.Printf("postgres url not configured, games are kept in memory")
		repo := memory.NewGameRepository()
		return &stores{games: repo, finder: repo, topics: repo, close: func() {}}, nil
	}

	db := openBunDB(cfg.Postgres.URL)
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	repo := postgres.NewGameRepository(db)
	return &stores{
		games:  repo,
		finder: postgres.NewGameReader(pool),
		topics: repo,
		close: func() {
			pool.Close()
			_ = db.Close()
		},
	}, nil
}

func newRedisClient(cfg config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// errNoSessionStore is returned when session auth is selected without Redis. Sessions
// are written by the identity provider, which only shares them through Redis.
var errNoSessionStore = errors.New("auth mode session requires redis.addr")

func newSessionStore(cfg config.Config, client *redis.Client) *redissession.SessionStore {
	return redissession.NewSessionStore(client, config.TTLDuration(cfg.Redis.SessionTTL, defaultSessionTTL))
}

// newIdentity builds the middleware that resolves callers for the configured auth mode.
func newIdentity(cfg config.Config, client *redis.Client) (func(http.Handler) http.Handler, error) {
	switch cfg.Auth.Mode {
	case config.AuthSession:
		if client == nil {
			return nil, errNoSessionStore
		}
		return transport.Authenticate(newSessionStore(cfg, client), cfg.Auth.SessionCookie), nil
	case config.AuthJWT:
		if cfg.Auth.JWTSecret == "" {
			return nil, fmt.Errorf("auth mode jwt requires auth.jwt_secret")
		}
		return transport.Authenticate(token.NewVerifier(cfg.Auth.JWTSecret), cfg.Auth.SessionCookie), nil
	case config.AuthGateway:
		return transport.TrustGateway, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}
}
