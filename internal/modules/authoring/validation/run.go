package validation

import (
	"errors"

	"github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/content"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/standards"
)

// Input is what an activity-level rule inspects.
type Input struct {
	ContentType types.ContentType
	Body        content.Body
}

// Rule is one independent validator. Check must be pure: the same input and
// profile always yield the same issues.
type Rule struct {
	ID    string
	Check func(in Input, p *standards.Profile, r *standards.Rules) []Issue
}

// DefaultRules is the activity-level rule set, in reporting order.
func DefaultRules() []Rule {
	return []Rule{
		{ID: RuleStructure, Check: checkStructure},
		{ID: RuleVideoSectionLength, Check: checkVideoLength},
		{ID: RuleReadingLength, Check: checkReadingLength},
		{ID: RuleAnswerDistribution, Check: checkAnswerDistribution},
		{ID: RuleForbiddenCTA, Check: checkForbiddenCTA},
		{ID: RuleAttributionMissing, Check: checkAttribution},
		{ID: RulePaywalledReference, Check: checkPaywalledReferences},
		{ID: RuleAIPattern, Check: checkAIPatterns},
	}
}

// Run applies rules (DefaultRules when none are given) and returns the issues
// sorted by severity. It fails only when the profile is missing or malformed.
func Run(in Input, p *standards.Profile, rules ...Rule) ([]Issue, error) {
	const op = "validation.Run"
	compiled, err := p.Compile()
	if err != nil {
		return nil, err
	}
	if in.Body == nil {
		return nil, aggregates.Errorf(aggregates.CodeValidation, op, "content is required")
	}
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	issues := []Issue{}
	for _, rule := range rules {
		if rule.Check == nil {
			continue
		}
		issues = append(issues, rule.Check(in, p, compiled)...)
	}
	return SortIssues(issues), nil
}

// RunRaw decodes stored content and runs the default rules. Content that no
// longer decodes is reported as a structure issue rather than an error.
func RunRaw(ct types.ContentType, raw []byte, p *standards.Profile) ([]Issue, error) {
	if _, err := p.Compile(); err != nil {
		return nil, err
	}
	body, err := content.Decode(ct, raw)
	if err != nil {
		var se *content.SchemaError
		if errors.As(err, &se) {
			out := make([]Issue, 0, len(se.Problems))
			for _, prob := range se.Problems {
				out = append(out, Issue{Severity: SeverityError, RuleID: RuleStructure, Message: prob})
			}
			return out, nil
		}
		return nil, aggregates.Wrap(aggregates.CodeValidation, "validation.RunRaw", err)
	}
	return Run(Input{ContentType: ct, Body: body}, p)
}
