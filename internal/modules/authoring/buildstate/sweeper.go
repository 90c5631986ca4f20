package buildstate

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yungbote/courseforge-backend/internal/observability"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

// StaleResetter releases generation guards left behind by crashed or
// abandoned requests.
type StaleResetter interface {
	ResetStaleGenerating(ctx context.Context, startedBefore time.Time) (int, error)
}

type SweeperConfig struct {
	// Schedule is a cron expression; descriptors such as "@every 1m" are accepted.
	Schedule string
	// StaleAfter must exceed the longest legitimate generation, retries included.
	StaleAfter time.Duration
}

const (
	DefaultSweepSchedule = "@every 1m"
	DefaultStaleAfter    = 15 * time.Minute
)

// Sweeper periodically restores activities stuck in GENERATING.
type Sweeper struct {
	log     *logger.Logger
	metrics *observability.Metrics
	store   StaleResetter
	cfg     SweeperConfig
	now     func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

func NewSweeper(log *logger.Logger, metrics *observability.Metrics, store StaleResetter, cfg SweeperConfig) *Sweeper {
	if log == nil {
		log = logger.Nop()
	}
	if strings.TrimSpace(cfg.Schedule) == "" {
		cfg.Schedule = DefaultSweepSchedule
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = DefaultStaleAfter
	}
	return &Sweeper{
		log:     log.With("component", "StaleGenerationSweeper"),
		metrics: metrics,
		store:   store,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Sweep runs one pass and reports how many activities were restored.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.cfg.StaleAfter)
	n, err := s.store.ResetStaleGenerating(ctx, cutoff)
	if err != nil {
		s.log.Warn("stale generation sweep failed", "error", err)
		return n, err
	}
	s.metrics.AddStaleResets(n)
	if n > 0 {
		s.log.Info("stale generations restored", "count", n, "cutoff", cutoff)
	}
	return n, nil
}

// Start schedules sweeps until ctx is done or Stop is called.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(s.cfg.Schedule, func() {
		_, _ = s.Sweep(ctx)
	}); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	s.log.Info("stale generation sweeper started", "schedule", s.cfg.Schedule, "stale_after", s.cfg.StaleAfter.String())

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
}
