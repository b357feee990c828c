package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"icearena/internal/models"
)

const availabilityKeyPrefix = "availability:"

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ValkeyClient кэширует рассчитанную доступность льда по датам.
// Работает с любым сервером, совместимым с протоколом Redis.
type ValkeyClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewValkeyClient(ctx context.Context, cfg Config) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return NewWithClient(rdb, cfg.TTL), nil
}

// NewWithClient wraps an existing connection.
func NewWithClient(rdb *redis.Client, ttl time.Duration) *ValkeyClient {
	return &ValkeyClient{client: rdb, ttl: ttl}
}

// Каждая дата хранит счетчик версий. Значение пишется под ключом текущей версии,
// поэтому результат, рассчитанный до инвалидации, уже никогда не будет прочитан.
func availabilityVersionKey(date models.Date) string {
	return availabilityKeyPrefix + date.String() + ":version"
}

func availabilityKey(date models.Date, version int64) string {
	return fmt.Sprintf("%s%s:v%d", availabilityKeyPrefix, date.String(), version)
}

// versionTTL must outlive any cached value, otherwise a reset counter could resurrect an old entry.
func (v *ValkeyClient) versionTTL() time.Duration {
	return max(2*v.ttl, 24*time.Hour)
}

// GetAvailability returns ok=false on a cache miss, together with the version
// a freshly computed result must be stored under.
func (v *ValkeyClient) GetAvailability(ctx context.Context, date models.Date) (models.AvailabilityResponse, int64, bool, error) {
	version, err := v.client.Get(ctx, availabilityVersionKey(date)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, fmt.Errorf("cache version lookup error: %w", err)
	}

	raw, err := v.client.Get(ctx, availabilityKey(date, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("cache lookup error: %w", err)
	}

	var slots models.AvailabilityResponse
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, version, false, fmt.Errorf("invalid availability in cache: %w", err)
	}
	return slots, version, true, nil
}

func (v *ValkeyClient) SetAvailability(ctx context.Context, date models.Date, version int64, slots models.AvailabilityResponse) error {
	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("failed to marshal availability: %w", err)
	}
	return v.client.Set(ctx, availabilityKey(date, version), raw, v.ttl).Err()
}

// InvalidateAvailability bumps the date's version. Entries of older versions expire by TTL.
func (v *ValkeyClient) InvalidateAvailability(ctx context.Context, date models.Date) error {
	key := availabilityVersionKey(date)
	_, err := v.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, v.versionTTL())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate availability: %w", err)
	}
	return nil
}

func (v *ValkeyClient) Ping(ctx context.Context) error {
	return v.client.Ping(ctx).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
