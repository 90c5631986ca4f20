package generation

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/prompts"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
	"github.com/yungbote/courseforge-backend/internal/platform/openai"
)

func testPrompt() prompts.Prompt {
	return prompts.Prompt{Name: "quiz", Version: 3, SchemaName: "quiz", Schema: map[string]any{"type": "object"}}
}

func newTestCaller(client openai.Client, limiter *countingLimiter, sleeps *recordedSleeps) *Caller {
	policy := RetryPolicy{MaxAttempts: 3, BaseBackoff: 100 * time.Millisecond, MaxBackoff: time.Second, Timeout: time.Second}
	c := NewCaller(logger.Nop(), client, limiter, policy, WithSleep(sleeps.sleep))
	c.jitter = func(d time.Duration) time.Duration { return d }
	return c
}

func TestCallRetriesTransientFailures(t *testing.T) {
	client := &scriptedClient{steps: []func() (openai.JSONResponse, error){
		fail(&openai.HTTPError{StatusCode: http.StatusServiceUnavailable}),
		fail(&openai.HTTPError{StatusCode: http.StatusTooManyRequests}),
		ok(`{"title":"x"}`),
	}}
	limiter := &countingLimiter{}
	sleeps := &recordedSleeps{}

	resp, attempts, err := newTestCaller(client, limiter, sleeps).Call(context.Background(), "quiz", testPrompt(), "")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if attempts != 3 || string(resp.Text) != `{"title":"x"}` {
		t.Fatalf("attempts=%d resp=%s", attempts, resp.Text)
	}
	if limiter.waits != 3 {
		t.Fatalf("limiter must gate every attempt, waits=%d", limiter.waits)
	}
	if len(sleeps.sleeps) != 2 || sleeps.sleeps[0] != 100*time.Millisecond || sleeps.sleeps[1] != 200*time.Millisecond {
		t.Fatalf("expected exponential backoff, got %v", sleeps.sleeps)
	}
}

func TestCallDoesNotRetryPermanentFailures(t *testing.T) {
	client := &scriptedClient{steps: []func() (openai.JSONResponse, error){
		fail(&openai.HTTPError{StatusCode: http.StatusBadRequest}),
	}}
	_, attempts, err := newTestCaller(client, &countingLimiter{}, &recordedSleeps{}).Call(context.Background(), "quiz", testPrompt(), "")
	if attempts != 1 || client.Calls() != 1 {
		t.Fatalf("permanent failure retried: attempts=%d", attempts)
	}
	aiErr, ok := aggregates.AsAIGenerationFailure(err)
	if !ok || aiErr.Code != aggregates.CodeUpstreamRejected {
		t.Fatalf("expected upstream_rejected, got %v", err)
	}
	if aiErr.Model != "fake-model" || aiErr.PromptID != "quiz@v3" {
		t.Fatalf("missing identifiers: %+v", aiErr)
	}
}

func TestCallDoesNotRetryOutputErrors(t *testing.T) {
	client := &scriptedClient{steps: []func() (openai.JSONResponse, error){
		fail(&openai.OutputError{Reason: "output is not valid JSON"}),
	}}
	_, _, err := newTestCaller(client, &countingLimiter{}, &recordedSleeps{}).Call(context.Background(), "quiz", testPrompt(), "")
	if !aggregates.IsCode(err, aggregates.CodeSchemaValidationFailed) || client.Calls() != 1 {
		t.Fatalf("expected single schema failure, got %v after %d calls", err, client.Calls())
	}
}

func TestCallExhaustsRetries(t *testing.T) {
	client := &scriptedClient{steps: []func() (openai.JSONResponse, error){
		fail(&openai.HTTPError{StatusCode: http.StatusBadGateway}),
	}}
	_, attempts, err := newTestCaller(client, &countingLimiter{}, &recordedSleeps{}).Call(context.Background(), "quiz", testPrompt(), "override-model")
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	aiErr, ok := aggregates.AsAIGenerationFailure(err)
	if !ok || aiErr.Code != aggregates.CodeUpstreamCallFailed || aiErr.Attempts != 3 || aiErr.Model != "override-model" {
		t.Fatalf("unexpected error %+v", err)
	}
	var httpErr *openai.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("cause must stay inspectable")
	}
}

func TestCallStopsOnCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &scriptedClient{steps: []func() (openai.JSONResponse, error){
		func() (openai.JSONResponse, error) {
			cancel()
			return openai.JSONResponse{}, context.DeadlineExceeded
		},
	}}
	_, attempts, err := newTestCaller(client, &countingLimiter{}, &recordedSleeps{}).Call(ctx, "quiz", testPrompt(), "")
	if attempts != 1 || !aggregates.IsCode(err, aggregates.CodeUpstreamCallFailed) {
		t.Fatalf("expected a single attempt and upstream_call_failed, got %d %v", attempts, err)
	}
}
