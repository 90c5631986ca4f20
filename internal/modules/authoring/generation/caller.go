package generation

import (
	"context"
	"errors"
	"time"

	"github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/prompts"
	"github.com/yungbote/courseforge-backend/internal/observability"
	"github.com/yungbote/courseforge-backend/internal/pkg/httpx"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
	"github.com/yungbote/courseforge-backend/internal/platform/openai"
	"github.com/yungbote/courseforge-backend/internal/platform/ratelimit"
)

type RetryPolicy struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	// Timeout bounds each attempt.
	Timeout time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 4,
		BaseBackoff: 500 * time.Millisecond,
		MaxBackoff:  10 * time.Second,
		Timeout:     120 * time.Second,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	d := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.BaseBackoff <= 0 {
		p.BaseBackoff = d.BaseBackoff
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = d.MaxBackoff
	}
	if p.Timeout <= 0 {
		p.Timeout = d.Timeout
	}
	return p
}

// Caller wraps the model client with the limiter, a per-attempt timeout and
// bounded exponential backoff for transient failures.
type Caller struct {
	client  openai.Client
	limiter ratelimit.Limiter
	policy  RetryPolicy
	log     *logger.Logger
	metrics *observability.Metrics
	sleep   func(ctx context.Context, d time.Duration) error
	jitter  func(d time.Duration) time.Duration
}

type CallerOption func(*Caller)

// WithSleep replaces the backoff sleep; tests use it to avoid waiting.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) CallerOption {
	return func(c *Caller) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

func WithMetrics(m *observability.Metrics) CallerOption {
	return func(c *Caller) { c.metrics = m }
}

func NewCaller(log *logger.Logger, client openai.Client, limiter ratelimit.Limiter, policy RetryPolicy, opts ...CallerOption) *Caller {
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	c := &Caller{
		client:  client,
		limiter: limiter,
		policy:  policy.normalized(),
		log:     log.With("service", "GenerationCaller"),
		sleep:   httpx.Sleep,
		jitter:  httpx.JitterSleep,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Call performs the model call for prompt. The returned error is always a
// tagged *aggregates.Error carrying model, prompt id and attempt count.
func (c *Caller) Call(ctx context.Context, contentType string, p prompts.Prompt, model string) (openai.JSONResponse, int, error) {
	const op = "generation.Call"
	if model == "" && c.client != nil {
		model = c.client.Model()
	}
	promptID := p.ID()
	if c.client == nil {
		return openai.JSONResponse{}, 0, aggregates.AIError(aggregates.CodeUpstreamRejected, op, model, promptID, 0, errors.New("model client not configured"))
	}

	var lastErr error
	attempts := 0
	for attempt := 0; attempt < c.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return openai.JSONResponse{}, attempts, aggregates.AIError(aggregates.CodeUpstreamCallFailed, op, model, promptID, attempts, err)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return openai.JSONResponse{}, attempts, aggregates.AIError(aggregates.CodeUpstreamCallFailed, op, model, promptID, attempts, err)
		}

		attempts++
		callCtx, cancel := context.WithTimeout(ctx, c.policy.Timeout)
		resp, err := c.client.GenerateJSON(callCtx, openai.JSONRequest{
			System:     p.System,
			User:       p.User,
			SchemaName: p.SchemaName,
			Schema:     p.Schema,
			Model:      model,
		})
		cancel()
		if err == nil {
			if resp.Model == "" {
				resp.Model = model
			}
			return resp, attempts, nil
		}
		lastErr = err

		if openai.IsOutputError(err) {
			return resp, attempts, aggregates.AIError(aggregates.CodeSchemaValidationFailed, op, model, promptID, attempts, err)
		}
		// The caller's own deadline or cancellation ends the loop even though
		// a per-attempt timeout alone would be retryable.
		if ctx.Err() != nil || !httpx.IsRetryableError(err) {
			break
		}
		if attempt == c.policy.MaxAttempts-1 {
			break
		}

		wait := c.jitter(httpx.Backoff(attempt, c.policy.BaseBackoff, c.policy.MaxBackoff))
		wait = httpx.RetryAfterDuration(err, wait, c.policy.MaxBackoff)
		c.metrics.IncLLMRetry(contentType)
		c.log.Warn("model call retrying",
			"content_type", contentType,
			"prompt_id", promptID,
			"attempt", attempts,
			"max_attempts", c.policy.MaxAttempts,
			"sleep", wait.String(),
			"error", err.Error(),
		)
		if err := c.sleep(ctx, wait); err != nil {
			lastErr = err
			break
		}
	}

	code := aggregates.CodeUpstreamRejected
	if httpx.IsRetryableError(lastErr) || ctx.Err() != nil {
		code = aggregates.CodeUpstreamCallFailed
	}
	return openai.JSONResponse{}, attempts, aggregates.AIError(code, op, model, promptID, attempts, lastErr)
}
