package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/cv"
	"github.com/spigell/skillmatch/internal/logger"
)

const (
	DefaultTTL  = 24 * time.Hour
	pingTimeout = 2 * time.Second
)

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Redis is a Store that bypasses itself when the server cannot be reached.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	warnedUnavailable atomic.Bool
}

// NewRedis connects and pings the server. An unreachable server yields a
// store that always misses, never an error.
func NewRedis(ctx context.Context, cfg RedisConfig, log *zap.Logger) *Redis {
	log = logger.OrNop(log)
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, bypassing profile cache", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = client.Close()
		return &Redis{ttl: ttl, logger: log}
	}

	return &Redis{client: client, ttl: ttl, logger: log}
}

func (r *Redis) Available() bool {
	return r != nil && r.client != nil
}

func (r *Redis) Get(ctx context.Context, key string) (cv.CandidateProfile, bool, error) {
	var profile cv.CandidateProfile
	if !r.Available() {
		return profile, false, nil
	}

	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return profile, false, nil
		}
		r.warnUnavailableOnce(err)
		return profile, false, err
	}
	if len(b) == 0 {
		return profile, false, nil
	}
	if err := json.Unmarshal(b, &profile); err != nil {
		return profile, false, err
	}
	return profile, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, profile cv.CandidateProfile) error {
	if !r.Available() {
		return nil
	}

	b, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, r.ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Close() error {
	if !r.Available() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn("redis call failed, cache degraded", zap.Error(err))
	}
}
