package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ObserveGeneration("video", "generate", "ok", time.Second)
	m.AddStaleResets(3)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestWritePrometheusExposition(t *testing.T) {
	m := New()
	m.ObserveGeneration("reading", "generate", "ok", 2*time.Second)
	m.ObserveGeneration("reading", "generate", "ok", 3*time.Second)
	m.IncValidationIssue(`rule"x`, "WARNING")

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`cf_generations_total{content_type="reading",operation="generate",outcome="ok"} 2.000000`,
		`cf_generation_duration_seconds_count{content_type="reading",operation="generate"} 2`,
		`cf_generation_duration_seconds_bucket{content_type="reading",operation="generate",le="+Inf"} 2`,
		`rule_id="rule\"x"`,
		"# TYPE cf_stale_generation_resets_total counter",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if got := m.GenerationCount("reading", "generate", "ok"); got != 2 {
		t.Fatalf("GenerationCount: got %v", got)
	}
}
