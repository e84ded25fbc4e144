package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"osas-connect/config"
)

// Client wraps go-redis for the token blacklist, rate limiting, the delayed
// job queue and reminder de-duplication
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects and pings Redis
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── token blacklist ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken stores the JWT ID until the token would have expired anyway
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted reports whether the JWT ID was revoked
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── rate limit ──

// CheckRateLimit fixed-window counter: true while the key has been hit at most limit times in window
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

// ── delayed queue ──

// Schedule adds member to the sorted set queue, due at runAt
func (c *Client) Schedule(ctx context.Context, queue, member string, runAt time.Time) error {
	return c.rdb.ZAdd(ctx, queue, goredis.Z{
		Score:  float64(runAt.UnixMilli()),
		Member: member,
	}).Err()
}

// ClaimDue returns up to max members due at or before now. A member is only
// returned to the caller whose ZREM removed it, so concurrent workers never
// claim the same job twice.
func (c *Client) ClaimDue(ctx context.Context, queue string, now time.Time, max int64) ([]string, error) {
	members, err := c.rdb.ZRangeByScore(ctx, queue, &goredis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: max,
	}).Result()
	if err != nil {
		return nil, err
	}

	claimed := make([]string, 0, len(members))
	for _, m := range members {
		removed, err := c.rdb.ZRem(ctx, queue, m).Result()
		if err != nil {
			return claimed, err
		}
		if removed == 1 {
			claimed = append(claimed, m)
		}
	}
	return claimed, nil
}

// QueueLength number of pending members
func (c *Client) QueueLength(ctx context.Context, queue string) (int64, error) {
	return c.rdb.ZCard(ctx, queue).Result()
}

// ── de-duplication ──

// SetOnce sets key if absent; false means it was already set
func (c *Client) SetOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, key, "1", ttl).Result()
}

// Release deletes a key claimed by SetOnce
func (c *Client) Release(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// Close closes the connection pool
func (c *Client) Close() error {
	return c.rdb.Close()
}
