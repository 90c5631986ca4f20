package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/courseforge-backend/internal/observability"
	"github.com/yungbote/courseforge-backend/internal/pkg/httpx"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (Client, *observability.Metrics) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	m := observability.New()
	c, err := NewClient(logger.Nop(), m, Config{APIKey: "sk-test", BaseURL: srv.URL, Model: "test-model", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, m
}

func jsonReq() JSONRequest {
	return JSONRequest{
		System:     "sys",
		User:       "user",
		SchemaName: "quiz",
		Schema:     map[string]any{"type": "object"},
	}
}

func TestGenerateJSONSendsStrictSchema(t *testing.T) {
	var got responsesRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != responsesPath || r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("unexpected request %s %s", r.URL.Path, r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"model":"test-model-2025","output":[{"type":"message","role":"assistant","content":[{"type":"output_text","text":"{\"title\":\"x\"}"}]}],"usage":{"input_tokens":12,"output_tokens":5}}`))
	})

	resp, err := c.GenerateJSON(context.Background(), jsonReq())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(resp.Text) != `{"title":"x"}` || resp.Model != "test-model-2025" || resp.OutputTokens != 5 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if got.Model != "test-model" || got.Text.Format["strict"] != true || got.Text.Format["name"] != "quiz" {
		t.Fatalf("unexpected request body %+v", got)
	}
}

func TestGenerateJSONClassifiesHTTPErrors(t *testing.T) {
	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	})

	_, err := c.GenerateJSON(context.Background(), jsonReq())
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 HTTPError, got %v", err)
	}
	if !httpx.IsRetryableError(err) {
		t.Fatalf("429 must be retryable")
	}
	if httpx.RetryAfterDuration(err, time.Second, time.Minute) != 3*time.Second {
		t.Fatalf("retry-after not propagated")
	}
	var buf strings.Builder
	_ = m.WritePrometheus(&buf)
	if !strings.Contains(buf.String(), `status="429"`) {
		t.Fatalf("llm request not recorded: %s", buf.String())
	}
}

func TestGenerateJSONPermanentErrorNotRetryable(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := c.GenerateJSON(context.Background(), jsonReq())
	if err == nil || httpx.IsRetryableError(err) {
		t.Fatalf("401 must be a permanent error, got %v", err)
	}
}

func TestGenerateJSONOutputErrors(t *testing.T) {
	bodies := map[string]string{
		"refusal":  `{"output":[{"type":"message","role":"assistant","content":[{"type":"refusal","refusal":"no"}]}]}`,
		"empty":    `{"output":[]}`,
		"not json": `{"output":[{"type":"message","role":"assistant","content":[{"type":"output_text","text":"Sure! Here you go"}]}]}`,
	}
	for name, body := range bodies {
		body := body
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		_, err := c.GenerateJSON(context.Background(), jsonReq())
		if !IsOutputError(err) {
			t.Fatalf("%s: expected OutputError, got %v", name, err)
		}
		if httpx.IsRetryableError(err) {
			t.Fatalf("%s: output errors must not be retryable", name)
		}
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(logger.Nop(), nil, Config{}); err == nil {
		t.Fatalf("expected missing key error")
	}
}
