package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/courseforge-backend/internal/observability"
	"github.com/yungbote/courseforge-backend/internal/pkg/httpx"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

const responsesPath = "/v1/responses"

// Client is the model-calling collaborator. It performs exactly one HTTP
// attempt per call; retry policy belongs to the caller.
type Client interface {
	// GenerateJSON asks for output conforming to schema (strict json_schema) and
	// returns the raw JSON text. Errors are *HTTPError for non-2xx responses,
	// *OutputError when the model returned nothing usable, or transport errors.
	GenerateJSON(ctx context.Context, req JSONRequest) (JSONResponse, error)
	Model() string
}

type JSONRequest struct {
	System     string
	User       string
	SchemaName string
	Schema     map[string]any
	// Model overrides the client default when set.
	Model string
}

type JSONResponse struct {
	Text         []byte
	Model        string
	InputTokens  int
	OutputTokens int
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature *float64
}

// HTTPError is a non-2xx response from the API.
type HTTPError struct {
	StatusCode int
	Body       string
	retryAfter time.Duration
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, truncate(e.Body, 512))
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (e *HTTPError) RetryAfter() time.Duration {
	if e == nil {
		return 0
	}
	return e.retryAfter
}

// OutputError means the call succeeded but the output cannot be used
// (refusal, empty output, non-JSON text).
type OutputError struct {
	Reason string
	Text   string
}

func (e *OutputError) Error() string {
	return "model output unusable: " + e.Reason
}

func IsOutputError(err error) bool {
	var oe *OutputError
	return errors.As(err, &oe)
}

type client struct {
	log         *logger.Logger
	metrics     *observability.Metrics
	baseURL     string
	apiKey      string
	model       string
	temperature *float64
	httpClient  *http.Client
}

func NewClient(log *logger.Logger, metrics *observability.Metrics, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4.1-mini"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	return &client{
		log:         log.With("service", "OpenAIClient"),
		metrics:     metrics,
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

func (c *client) Model() string { return c.model }

type responsesRequest struct {
	Model string         `json:"model"`
	Input []inputMessage `json:"input"`
	Text  struct {
		Format map[string]any `json:"format,omitempty"`
	} `json:"text,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesResponse struct {
	Model  string `json:"model"`
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type    string `json:"type"`
			Text    string `json:"text,omitempty"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (r responsesResponse) outputText() (text string, refusal string) {
	var out strings.Builder
	for _, item := range r.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, c := range item.Content {
			switch c.Type {
			case "output_text":
				out.WriteString(c.Text)
			case "refusal":
				refusal = c.Refusal
			}
		}
	}
	return out.String(), refusal
}

func (c *client) GenerateJSON(ctx context.Context, in JSONRequest) (JSONResponse, error) {
	if strings.TrimSpace(in.SchemaName) == "" {
		return JSONResponse{}, errors.New("schemaName required")
	}
	if in.Schema == nil {
		return JSONResponse{}, errors.New("schema required")
	}
	model := strings.TrimSpace(in.Model)
	if model == "" {
		model = c.model
	}

	req := responsesRequest{
		Model: model,
		Input: []inputMessage{
			{Role: "system", Content: in.System},
			{Role: "user", Content: in.User},
		},
		Temperature: c.temperature,
	}
	req.Text.Format = map[string]any{
		"type":   "json_schema",
		"name":   in.SchemaName,
		"schema": in.Schema,
		"strict": true,
	}

	start := time.Now()
	raw, status, err := c.post(ctx, responsesPath, req)
	if err != nil {
		c.metrics.ObserveLLMRequest(model, responsesPath, status, time.Since(start), 0, 0)
		return JSONResponse{}, err
	}

	var resp responsesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.metrics.ObserveLLMRequest(model, responsesPath, status, time.Since(start), 0, 0)
		return JSONResponse{}, &OutputError{Reason: "undecodable response envelope", Text: truncate(string(raw), 512)}
	}
	c.metrics.ObserveLLMRequest(model, responsesPath, status, time.Since(start), resp.Usage.InputTokens, resp.Usage.OutputTokens)

	out := JSONResponse{
		Model:        firstNonEmpty(resp.Model, model),
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}
	text, refusal := resp.outputText()
	if refusal != "" {
		return out, &OutputError{Reason: "model refused: " + refusal}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return out, &OutputError{Reason: "no output_text found in response"}
	}
	if !json.Valid([]byte(text)) {
		return out, &OutputError{Reason: "output is not valid JSON", Text: truncate(text, 512)}
	}
	out.Text = []byte(text)
	return out, nil
}

func (c *client) post(ctx context.Context, path string, body any) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, "encode_error", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, "error", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, statusFromErr(err), err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	status := strconv.Itoa(resp.StatusCode)
	if readErr != nil {
		return nil, status, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, status, &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			retryAfter: httpx.ParseRetryAfter(resp.Header),
		}
	}
	return raw, status, nil
}

func statusFromErr(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
