package watermark

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/gorewood/contentbot/internal/output"
)

// DefaultRedisKey is the key used when none is configured.
const DefaultRedisKey = "contentbot:last_run_at"

// KV is the subset of the Redis client used by RedisStore.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps the watermark under a single Redis key, letting several
// machines share one watermark for the same repository.
type RedisStore struct {
	kv  KV
	key string
}

// RedisOptions configure NewRedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// NewRedisStore connects to Redis and pings it.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, func() error, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, output.NewSystemErrorWithCause("could not connect to redis at "+opts.Addr, err)
	}
	return NewRedisStoreWithClient(client, opts.Key), client.Close, nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(kv KV, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{kv: kv, key: key}
}

// Key returns the Redis key holding the watermark.
func (s *RedisStore) Key() string {
	return s.key
}

// Load reads the watermark; a missing key is not an error.
func (s *RedisStore) Load(ctx context.Context) (string, bool, error) {
	value, err := s.kv.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, output.NewSystemErrorWithCause("failed to read watermark from redis", err)
	}
	if value == "" {
		return "", false, nil
	}
	return value, true, nil
}

// Save writes the watermark without expiry.
func (s *RedisStore) Save(ctx context.Context, value string) error {
	if err := s.kv.Set(ctx, s.key, value, 0).Err(); err != nil {
		return output.NewSystemErrorWithCause("failed to write watermark to redis", err)
	}
	return nil
}
