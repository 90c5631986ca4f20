package observability

import (
	"io"
	"net/http"
	"strings"
	"time"
)

// Metrics is nil-safe: every method on a nil *Metrics is a no-op, so components
// accept it unconditionally and tests pass nil.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	llmRequests *CounterVec
	llmLatency  *HistogramVec
	llmTokens   *CounterVec
	llmRetries  *CounterVec

	generations       *CounterVec
	generationLatency *HistogramVec
	transitions       *CounterVec
	validationIssues  *CounterVec
	staleResets       *Counter

	storeOps       *CounterVec
	storeLatency   *HistogramVec
	storeConflicts *CounterVec
}

func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("cf_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"cf_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		),
		apiInflight: NewGauge("cf_api_inflight_requests", "In-flight API requests."),
		llmRequests: NewCounterVec("cf_llm_requests_total", "Model requests by model/endpoint/status.", []string{"model", "endpoint", "status"}),
		llmLatency: NewHistogramVec(
			"cf_llm_request_duration_seconds",
			"Model request latency in seconds.",
			[]string{"model", "endpoint", "status"},
			[]float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		),
		llmTokens:  NewCounterVec("cf_llm_tokens_total", "Model tokens by model/kind.", []string{"model", "kind"}),
		llmRetries: NewCounterVec("cf_llm_retries_total", "Model call retries by content type.", []string{"content_type"}),
		generations: NewCounterVec(
			"cf_generations_total",
			"Generation attempts by content type/operation/outcome.",
			[]string{"content_type", "operation", "outcome"},
		),
		generationLatency: NewHistogramVec(
			"cf_generation_duration_seconds",
			"End-to-end generation latency including retries.",
			[]string{"content_type", "operation"},
			[]float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
		),
		transitions:      NewCounterVec("cf_build_state_transitions_total", "Build state transitions.", []string{"from", "to"}),
		validationIssues: NewCounterVec("cf_validation_issues_total", "Validation issues emitted by rule/severity.", []string{"rule_id", "severity"}),
		staleResets:      NewCounter("cf_stale_generation_resets_total", "Activities restored from a stale GENERATING state."),
		storeOps:         NewCounterVec("cf_store_operations_total", "Course store writes by operation/status.", []string{"op", "status"}),
		storeLatency: NewHistogramVec(
			"cf_store_operation_duration_seconds",
			"Course store write latency.",
			[]string{"op"},
			[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		),
		storeConflicts: NewCounterVec("cf_store_conflicts_total", "Course store conflicts by operation.", []string{"op"}),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.llmRequests, m.llmLatency, m.llmTokens, m.llmRetries,
		m.generations, m.generationLatency, m.transitions, m.validationIssues, m.staleResets,
		m.storeOps, m.storeLatency, m.storeConflicts,
	}
	for _, mw := range writers {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveLLMRequest(model, endpoint, status string, dur time.Duration, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	model = strings.TrimSpace(model)
	m.llmRequests.Inc(model, endpoint, status)
	if dur > 0 {
		m.llmLatency.Observe(dur.Seconds(), model, endpoint, status)
	}
	if inputTokens > 0 {
		m.llmTokens.Add(float64(inputTokens), model, "input")
	}
	if outputTokens > 0 {
		m.llmTokens.Add(float64(outputTokens), model, "output")
	}
}

func (m *Metrics) IncLLMRetry(contentType string) {
	if m == nil {
		return
	}
	m.llmRetries.Inc(contentType)
}

func (m *Metrics) ObserveGeneration(contentType, operation, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.generations.Inc(contentType, operation, outcome)
	m.generationLatency.Observe(dur.Seconds(), contentType, operation)
}

func (m *Metrics) IncTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.Inc(from, to)
}

func (m *Metrics) IncValidationIssue(ruleID, severity string) {
	if m == nil {
		return
	}
	m.validationIssues.Inc(ruleID, severity)
}

func (m *Metrics) AddStaleResets(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.staleResets.Add(float64(n))
}

// StaleResetCount reports the total of restored stale generations.
func (m *Metrics) StaleResetCount() float64 {
	if m == nil {
		return 0
	}
	return m.staleResets.Value()
}

// GenerationCount reports a generation series value.
func (m *Metrics) GenerationCount(contentType, operation, outcome string) float64 {
	if m == nil {
		return 0
	}
	return m.generations.Value(contentType, operation, outcome)
}

func (m *Metrics) ObserveStoreOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.storeOps.Inc(op, status)
	m.storeLatency.Observe(dur.Seconds(), op)
}

func (m *Metrics) IncStoreConflict(op string) {
	if m == nil {
		return
	}
	m.storeConflicts.Inc(op)
}
