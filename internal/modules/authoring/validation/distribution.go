package validation

import (
	"fmt"
	"strings"

	"github.com/yungbote/courseforge-backend/internal/modules/authoring/content"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/standards"
)

// checkAnswerDistribution flags correct-answer letters whose share falls
// outside the profile bounds, long streaks, and cyclic answer keys.
func checkAnswerDistribution(in Input, p *standards.Profile, _ *standards.Rules) []Issue {
	q, ok := in.Body.(*content.Quiz)
	if !ok {
		return nil
	}
	key := q.AnswerKey()
	cfg := p.AnswerDistribution
	if len(key) == 0 || len(key) < cfg.MinQuestions {
		return nil
	}

	var out []Issue
	counts := map[string]int{}
	for _, k := range key {
		counts[k]++
	}
	total := float64(len(key))
	for _, letter := range content.AnswerLetters {
		share := float64(counts[letter]) / total
		switch {
		case share > cfg.MaxShare:
			out = append(out, Issue{
				Severity:    SeverityWarning,
				RuleID:      RuleAnswerDistribution,
				Message:     fmt.Sprintf("%s is correct for %d of %d questions (%.0f%%), above the %.0f%% limit", letter, counts[letter], len(key), share*100, cfg.MaxShare*100),
				AutoFixable: true,
			})
		case share < cfg.MinShare:
			out = append(out, Issue{
				Severity:    SeverityWarning,
				RuleID:      RuleAnswerDistribution,
				Message:     fmt.Sprintf("%s is correct for %d of %d questions (%.0f%%), below the %.0f%% minimum", letter, counts[letter], len(key), share*100, cfg.MinShare*100),
				AutoFixable: true,
			})
		}
	}

	if run, letter := longestRun(key); cfg.MaxRun > 0 && run > cfg.MaxRun {
		out = append(out, Issue{
			Severity:    SeverityWarning,
			RuleID:      RuleAnswerPattern,
			Message:     fmt.Sprintf("%s is correct %d times in a row; at most %d allowed", letter, run, cfg.MaxRun),
			AutoFixable: true,
		})
	}
	if period := cyclePeriod(key); period > 0 {
		out = append(out, Issue{
			Severity:    SeverityWarning,
			RuleID:      RuleAnswerPattern,
			Message:     fmt.Sprintf("answer key repeats the pattern %s", strings.Join(key[:period], "")),
			AutoFixable: true,
		})
	}
	return out
}

func longestRun(key []string) (int, string) {
	best, bestLetter := 0, ""
	run := 0
	for i := range key {
		if i > 0 && key[i] == key[i-1] {
			run++
		} else {
			run = 1
		}
		if run > best {
			best, bestLetter = run, key[i]
		}
	}
	return best, bestLetter
}

// cyclePeriod returns the shortest period 2..4 that the whole key repeats at
// least twice, or 0. Period 1 is a streak and handled by longestRun.
func cyclePeriod(key []string) int {
	for p := 2; p <= 4; p++ {
		if len(key) < 2*p {
			break
		}
		cyclic := true
		for i := p; i < len(key); i++ {
			if key[i] != key[i-p] {
				cyclic = false
				break
			}
		}
		if cyclic && !allSame(key[:p]) {
			return p
		}
	}
	return 0
}

func allSame(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
