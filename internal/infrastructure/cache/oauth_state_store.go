package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultStateKeyPrefix = "gbp:oauth:state:"

// NewRedisClient opens a client and checks it responds
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisOAuthStateStore keeps OAuth states in Redis so any instance can
// serve the callback
type RedisOAuthStateStore struct {
	client    redis.Cmdable
	keyPrefix string
}

// NewRedisOAuthStateStore creates a store on an existing client
func NewRedisOAuthStateStore(client redis.Cmdable, keyPrefix string) *RedisOAuthStateStore {
	if keyPrefix == "" {
		keyPrefix = defaultStateKeyPrefix
	}
	return &RedisOAuthStateStore{client: client, keyPrefix: keyPrefix}
}

// Save stores the state with a TTL. An existing state is never overwritten.
func (s *RedisOAuthStateStore) Save(ctx context.Context, state string, value integration.OAuthState, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode oauth state: %w", err)
	}
	ok, err := s.client.SetNX(ctx, s.keyPrefix+state, payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}
	if !ok {
		return fmt.Errorf("oauth state already exists")
	}
	return nil
}

// Consume reads and deletes the state with GETDEL
func (s *RedisOAuthStateStore) Consume(ctx context.Context, state string) (*integration.OAuthState, error) {
	payload, err := s.client.GetDel(ctx, s.keyPrefix+state).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, integration.ErrOAuthStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume oauth state: %w", err)
	}

	var value integration.OAuthState
	if err := json.Unmarshal(payload, &value); err != nil {
		return nil, fmt.Errorf("failed to decode oauth state: %w", err)
	}
	return &value, nil
}

// NewOAuthStateStore returns a Redis store when Redis is enabled and
// reachable. Otherwise it falls back to memory, which only works with a
// single instance.
func NewOAuthStateStore(cfg config.RedisConfig, logger *zap.Logger) (integration.OAuthStateStore, *redis.Client) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Info("Redis disabled, OAuth states are kept in memory")
		return NewInMemoryOAuthStateStore(), nil
	}

	client, err := NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, OAuth states are kept in memory",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return NewInMemoryOAuthStateStore(), nil
	}

	logger.Info("OAuth state store using Redis", zap.String("addr", cfg.Addr()))
	return NewRedisOAuthStateStore(client, ""), client
}

var _ integration.OAuthStateStore = (*RedisOAuthStateStore)(nil)
