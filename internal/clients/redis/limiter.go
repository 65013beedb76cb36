package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/pathwise-backend/internal/platform/logger"
)

// Limiter admits at most Limit events per key inside each Window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

type LimiterConfig struct {
	Addr   string
	Prefix string
	Limit  int
	Window time.Duration
}

type fixedWindowLimiter struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewLimiter connects to Redis and returns a fixed-window limiter. A bucket
// is one INCR'd key per window that expires with the window.
func NewLimiter(log *logger.Logger, cfg LimiterConfig) (Limiter, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if cfg.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", cfg.Limit)
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Hour
	}
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = "ratelimit"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &fixedWindowLimiter{
		log:    log.With("service", "RedisLimiter"),
		rdb:    rdb,
		prefix: prefix,
		limit:  cfg.Limit,
		window: cfg.Window,
		now:    time.Now,
	}, nil
}

func (l *fixedWindowLimiter) bucketKey(key string) string {
	slot := l.now().UTC().UnixNano() / int64(l.window)
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)
}

func (l *fixedWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.rdb == nil {
		return false, fmt.Errorf("redis limiter not initialized")
	}
	bucket := l.bucketKey(key)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, bucket)
	pipe.Expire(ctx, bucket, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit %s: %w", bucket, err)
	}
	n := incr.Val()
	if n > int64(l.limit) {
		l.log.Debug("Rate limited", "key", key, "count", n, "limit", l.limit)
		return false, nil
	}
	return true, nil
}

func (l *fixedWindowLimiter) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}

type noopLimiter struct{}

// NoopLimiter admits everything; used when Redis is not configured.
func NoopLimiter() Limiter { return noopLimiter{} }

func (noopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }
func (noopLimiter) Close() error                                { return nil }
