package app

import (
	"fmt"

	dataagg "github.com/yungbote/courseforge-backend/internal/data/aggregates"
	"github.com/yungbote/courseforge-backend/internal/observability"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
	"github.com/yungbote/courseforge-backend/internal/platform/openai"
	"github.com/yungbote/courseforge-backend/internal/platform/ratelimit"
	"github.com/yungbote/courseforge-backend/internal/platform/redislock"
)

type Clients struct {
	OpenAI  openai.Client
	Limiter ratelimit.Limiter
	Locker  dataagg.Locker

	redis *redislock.Client
}

func wireClients(log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	// Course lock: redis when configured so replicas serialize on the same key.
	var out Clients
	if cfg.RedisAddr != "" {
		rl, err := redislock.New(log, cfg.RedisAddr, cfg.CourseLockTTL)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis lock: %w", err)
		}
		out.redis = rl
		out.Locker = rl
	} else {
		log.Warn("REDIS_ADDR not set; using in-process course locks")
		out.Locker = dataagg.NewLocalLocker()
	}

	// OpenAI
	client, err := openai.NewClient(log, metrics, cfg.OpenAI)
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}
	out.OpenAI = client

	if cfg.LLMRateLimitRPS > 0 {
		out.Limiter = ratelimit.NewTokenBucket(cfg.LLMRateLimitRPS, cfg.LLMRateLimitBurst)
	} else {
		out.Limiter = ratelimit.Noop{}
	}
	return out, nil
}

func (c Clients) Close() {
	if c.redis != nil {
		_ = c.redis.Close()
	}
}
