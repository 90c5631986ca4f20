package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yungbote/courseforge-backend/internal/modules/authoring/content"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/standards"
)

// checkForbiddenCTA flags calls to action that preview other activities.
func checkForbiddenCTA(in Input, _ *standards.Profile, rules *standards.Rules) []Issue {
	v, ok := in.Body.(*content.VideoScript)
	if !ok {
		return nil
	}
	var out []Issue
	for _, re := range rules.ForbiddenCTA {
		if m := re.FindString(v.CTA.Script); m != "" {
			out = append(out, Issue{
				Severity: SeverityWarning,
				RuleID:   RuleForbiddenCTA,
				Message:  fmt.Sprintf("call to action previews another activity (%q); course order may change", m),
				Path:     "cta.script",
			})
		}
	}
	return out
}

// checkAIPatterns reports each stock phrase once, at its first location.
func checkAIPatterns(in Input, _ *standards.Profile, rules *standards.Rules) []Issue {
	var out []Issue
	blocks := in.Body.TextBlocks()
	for _, re := range rules.AIPatterns {
		if path, m := firstMatch(re, blocks); m != "" {
			out = append(out, Issue{
				Severity:    SeverityInfo,
				RuleID:      RuleAIPattern,
				Message:     fmt.Sprintf("stock phrase %q reads as machine-written", strings.ToLower(m)),
				AutoFixable: true,
				Path:        path,
			})
		}
	}
	return out
}

func checkAttribution(in Input, p *standards.Profile, _ *standards.Rules) []Issue {
	if !p.Attribution.AppliesTo(in.ContentType) {
		return nil
	}
	r, ok := in.Body.(*content.Reading)
	if !ok {
		return nil
	}
	if strings.Contains(normalizeSpace(r.Attribution), normalizeSpace(p.Attribution.Template)) {
		return nil
	}
	return []Issue{{
		Severity:    SeverityError,
		RuleID:      RuleAttributionMissing,
		Message:     "required attribution statement is missing",
		AutoFixable: true,
		Path:        "attribution",
	}}
}

func firstMatch(re *regexp.Regexp, blocks []content.TextBlock) (string, string) {
	for _, b := range blocks {
		if m := re.FindString(b.Text); m != "" {
			return b.Path, m
		}
	}
	return "", ""
}

func normalizeSpace(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
