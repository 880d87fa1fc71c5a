package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/hpsconstructions/hps-platform/internal/config"
	"github.com/hpsconstructions/hps-platform/internal/leads"
	"github.com/hpsconstructions/hps-platform/internal/profile"
	"github.com/hpsconstructions/hps-platform/internal/session"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

// Profile store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreDynamo = "dynamo"
)

// BuildProfileStore selects the contact profile backend named by
// PROFILE_STORE. A redis selection without a reachable client falls back to
// memory; dynamo requires awsCfg.
func BuildProfileStore(cfg *appconfig.Config, redisClient *redis.Client, awsCfg *aws.Config, logger *logging.Logger) (profile.Store, string, error) {
	if cfg == nil {
		return nil, "", fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.ProfileStore {
	case StoreMemory:
		return profile.NewMemoryStore(), StoreMemory, nil
	case StoreRedis, "":
		if redisClient == nil {
			logger.Warn("redis unavailable; contact profiles kept in memory")
			return profile.NewMemoryStore(), StoreMemory, nil
		}
		return profile.NewRedisStore(redisClient, cfg.ProfileTTL), StoreRedis, nil
	case StoreDynamo:
		if awsCfg == nil {
			return nil, "", fmt.Errorf("bootstrap: dynamo profile store needs aws config")
		}
		client := dynamodb.NewFromConfig(*awsCfg)
		return profile.NewDynamoStore(client, cfg.ProfileDynamoTable, cfg.ProfileTTL), StoreDynamo, nil
	default:
		return nil, "", fmt.Errorf("bootstrap: unknown profile store %q", cfg.ProfileStore)
	}
}

// BuildSessionStore keeps widget sessions in Redis when available.
func BuildSessionStore(cfg *appconfig.Config, redisClient *redis.Client) session.Store {
	ttl := 24 * time.Hour
	if cfg != nil && cfg.SessionTTL > 0 {
		ttl = cfg.SessionTTL
	}
	if redisClient == nil || (cfg != nil && cfg.ProfileStore == StoreMemory) {
		return session.NewMemoryStore(ttl)
	}
	return session.NewRedisStore(redisClient, ttl)
}

// BuildLeadRepository opens the Postgres lead log when DATABASE_URL is set and
// falls back to memory otherwise. The returned close func is never nil.
func BuildLeadRepository(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (leads.Repository, func(), error) {
	noop := func() {}
	if cfg == nil || cfg.DatabaseURL == "" {
		if logger != nil {
			logger.Info("no database configured; lead log kept in memory")
		}
		return leads.NewInMemoryRepository(), noop, nil
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, noop, fmt.Errorf("bootstrap: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, noop, fmt.Errorf("bootstrap: ping postgres: %w", err)
	}
	return leads.NewPostgresRepository(pool), pool.Close, nil
}
