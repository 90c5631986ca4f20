package redislock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

var ErrNotAcquired = errors.New("redislock: lock not acquired")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Client struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
	poll   time.Duration
}

func New(log *logger.Logger, addr string, ttl time.Duration) (*Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
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
	return NewWithClient(log, rdb, ttl), nil
}

func NewWithClient(log *logger.Logger, rdb goredis.UniversalClient, ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Client{
		log:    log.With("client", "RedisLock"),
		rdb:    rdb,
		prefix: "courseforge:lock:",
		ttl:    ttl,
		poll:   50 * time.Millisecond,
	}
}

// Acquire blocks until the key is held or ctx is done. The returned func releases it.
func (c *Client) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	full := c.prefix + key
	for {
		ok, err := c.rdb.SetNX(ctx, full, token, c.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis setnx: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrNotAcquired, ctx.Err())
		case <-time.After(c.poll):
		}
	}
	return func() {
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, c.rdb, []string{full}, token).Err(); err != nil && !errors.Is(err, goredis.Nil) {
			c.log.Warn("redis lock release failed", "key", key, "error", err)
		}
	}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
