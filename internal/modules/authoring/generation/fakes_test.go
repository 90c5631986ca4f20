package generation

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/courseforge-backend/internal/platform/openai"
)

type scriptedClient struct {
	mu    sync.Mutex
	calls int
	steps []func() (openai.JSONResponse, error)
	last  openai.JSONRequest
}

func (c *scriptedClient) GenerateJSON(ctx context.Context, req openai.JSONRequest) (openai.JSONResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = req
	i := c.calls
	c.calls++
	if i >= len(c.steps) {
		i = len(c.steps) - 1
	}
	return c.steps[i]()
}

func (c *scriptedClient) Model() string { return "fake-model" }

func (c *scriptedClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func ok(text string) func() (openai.JSONResponse, error) {
	return func() (openai.JSONResponse, error) {
		return openai.JSONResponse{Text: []byte(text), Model: "fake-model"}, nil
	}
}

func fail(err error) func() (openai.JSONResponse, error) {
	return func() (openai.JSONResponse, error) { return openai.JSONResponse{}, err }
}

type countingLimiter struct {
	mu    sync.Mutex
	waits int
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	l.waits++
	l.mu.Unlock()
	return ctx.Err()
}

type recordedSleeps struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (r *recordedSleeps) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.sleeps = append(r.sleeps, d)
	r.mu.Unlock()
	return ctx.Err()
}
