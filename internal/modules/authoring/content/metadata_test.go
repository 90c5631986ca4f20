package content

import (
	"strings"
	"testing"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestCountWordsWhitespaceTokenized(t *testing.T) {
	cases := map[string]int{
		"":                        0,
		"   ":                     0,
		"one":                     1,
		"two  words":              2,
		"tabs\tand\nnewlines too": 4,
		"don't split-hyphens":     2,
	}
	for in, want := range cases {
		if got := CountWords(in); got != want {
			t.Fatalf("CountWords(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestReadingDurationAt238(t *testing.T) {
	text := words(1190)
	wc := CountWords(text)
	if wc != 1190 {
		t.Fatalf("word count: got %d", wc)
	}
	if got := EstimateReadingDuration(wc); got != 5.0 {
		t.Fatalf("reading duration: got %v want 5.0", got)
	}
}

func TestVideoDurationAt150(t *testing.T) {
	if got := EstimateVideoDuration(CountWords(words(750))); got != 5.0 {
		t.Fatalf("video duration: got %v want 5.0", got)
	}
}

func TestMetadataIsIdempotent(t *testing.T) {
	r := sampleReading()
	first := r.Metadata()
	second := r.Metadata()
	if first.WordCount != second.WordCount || first.EstimatedDurationMinutes != second.EstimatedDurationMinutes {
		t.Fatalf("metadata not deterministic: %+v vs %+v", first, second)
	}
}

func TestEstimateDurationGuards(t *testing.T) {
	if EstimateDuration(0, 238) != 0 || EstimateDuration(100, 0) != 0 {
		t.Fatalf("expected zero for empty input")
	}
	if got := EstimateDuration(100, 238); got != 0.42 {
		t.Fatalf("expected rounding to 2 decimals, got %v", got)
	}
}
