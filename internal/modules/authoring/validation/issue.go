package validation

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

// Rule identifiers. They are stable; clients and metrics key on them.
const (
	RuleStructure           = "structure"
	RuleVideoSectionLength  = "video_section_length"
	RuleVideoTotalLength    = "video_total_length"
	RuleReadingLength       = "reading_length"
	RuleReferenceCount      = "reference_count"
	RuleAnswerDistribution  = "answer_distribution"
	RuleAnswerPattern       = "answer_pattern"
	RuleForbiddenCTA        = "forbidden_cta"
	RuleAIPattern           = "ai_pattern"
	RuleAttributionMissing  = "attribution_missing"
	RulePaywalledReference  = "paywalled_reference"
	RuleContentTypeMix      = "content_type_mix"
	RuleBloomProgression    = "bloom_progression"
	RuleSequentialReference = "sequential_reference"
)

// Issue is a content-quality finding. Findings are data, never errors.
type Issue struct {
	Severity    Severity   `json:"severity"`
	RuleID      string     `json:"rule_id"`
	Message     string     `json:"message"`
	AutoFixable bool       `json:"auto_fixable"`
	Path        string     `json:"path,omitempty"`
	ActivityID  *uuid.UUID `json:"activity_id,omitempty"`
}

// SortIssues orders by severity, most severe first, keeping rule order within
// a severity.
func SortIssues(issues []Issue) []Issue {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity.rank() > issues[j].Severity.rank()
	})
	return issues
}

// Marshal encodes issues for storage; nil encodes as an empty list.
func Marshal(issues []Issue) ([]byte, error) {
	if issues == nil {
		issues = []Issue{}
	}
	return json.Marshal(issues)
}

func Unmarshal(raw []byte) ([]Issue, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []Issue{}, nil
	}
	var out []Issue
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Counts tallies issues by severity.
func Counts(issues []Issue) map[Severity]int {
	out := map[Severity]int{SeverityError: 0, SeverityWarning: 0, SeverityInfo: 0}
	for _, is := range issues {
		out[is.Severity]++
	}
	return out
}
