package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
)

const otpKeyPrefix = "nco:otp:"

// incrementIfExists bumps attempts only on a live hash so an expired key is
// never resurrected without its TTL.
var incrementIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("HINCRBY", KEYS[1], "attempts", 1)
end
return -1
`)

// RedisLedger stores each OTP as a hash. The key outlives the code by the
// retention window so a late verify still sees an expired record.
type RedisLedger struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisLedger wraps a connected client
func NewRedisLedger(client *redis.Client, retention time.Duration) *RedisLedger {
	return &RedisLedger{client: client, retention: retention}
}

func otpKey(phone string) string {
	return otpKeyPrefix + phone
}

func (l *RedisLedger) Put(ctx context.Context, otp *models.OTP) error {
	key := otpKey(otp.Phone)
	now := time.Now()
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = now
	}
	otp.UpdatedAt = now

	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			"code", otp.Code,
			"expires_at", otp.ExpiresAt.UnixNano(),
			"attempts", otp.Attempts,
			"created_at", otp.CreatedAt.UnixNano(),
		)
		pipe.PExpireAt(ctx, key, otp.ExpiresAt.Add(l.retention))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put otp: %w", err)
	}
	return nil
}

func (l *RedisLedger) Get(ctx context.Context, phone string) (*models.OTP, error) {
	fields, err := l.client.HGetAll(ctx, otpKey(phone)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get otp: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("redis otp expires_at: %w", err)
	}
	attempts, err := strconv.Atoi(fields["attempts"])
	if err != nil {
		return nil, fmt.Errorf("redis otp attempts: %w", err)
	}
	otp := &models.OTP{
		Phone:     phone,
		Code:      fields["code"],
		ExpiresAt: time.Unix(0, expiresAt),
		Attempts:  attempts,
	}
	if created, err := strconv.ParseInt(fields["created_at"], 10, 64); err == nil {
		otp.CreatedAt = time.Unix(0, created)
	}
	return otp, nil
}

func (l *RedisLedger) IncrementAttempts(ctx context.Context, phone string) (int, error) {
	n, err := incrementIfExists.Run(ctx, l.client, []string{otpKey(phone)}).Int()
	if err != nil {
		return 0, fmt.Errorf("redis increment attempts: %w", err)
	}
	if n < 0 {
		return 0, ErrNotFound
	}
	return n, nil
}

func (l *RedisLedger) Delete(ctx context.Context, phone string) error {
	if err := l.client.Del(ctx, otpKey(phone)).Err(); err != nil {
		return fmt.Errorf("redis delete otp: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: redis evicts keys once retention has passed
func (l *RedisLedger) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

// LimiterStorage adapts a redis client to fiber's limiter Storage interface so
// rate limits are shared between instances.
type LimiterStorage struct {
	client *redis.Client
	prefix string
}

// NewLimiterStorage namespaces limiter keys under prefix
func NewLimiterStorage(client *redis.Client, prefix string) *LimiterStorage {
	return &LimiterStorage{client: client, prefix: prefix}
}

func (s *LimiterStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	val, err := s.client.Get(context.Background(), s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *LimiterStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	return s.client.Set(context.Background(), s.prefix+key, val, exp).Err()
}

func (s *LimiterStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.client.Del(context.Background(), s.prefix+key).Err()
}

// Reset removes every key under the prefix
func (s *LimiterStorage) Reset() error {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close is a no-op; the client is owned by main
func (s *LimiterStorage) Close() error {
	return nil
}

// NewRedisClient parses a redis:// URL and applies short timeouts
func NewRedisClient(url string, timeout time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout
	return redis.NewClient(opts), nil
}
