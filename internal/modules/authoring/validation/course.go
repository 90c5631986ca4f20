package validation

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/content"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/standards"
)

// CourseInput is the full course tree plus decoded bodies keyed by activity id.
// Activities without content simply have no body.
type CourseInput struct {
	Doc    *types.CourseDocument
	Bodies map[uuid.UUID]content.Body
}

// CourseRule inspects the whole course rather than one activity.
type CourseRule struct {
	ID    string
	Check func(in CourseInput, p *standards.Profile, r *standards.Rules) []Issue
}

func DefaultCourseRules() []CourseRule {
	return []CourseRule{
		{ID: RuleContentTypeMix, Check: checkContentTypeMix},
		{ID: RuleBloomProgression, Check: checkBloomProgression},
		{ID: RuleSequentialReference, Check: checkSequentialReferences},
	}
}

// RunCourse applies the cross-item rules. Like Run, it fails only on a bad
// profile or a missing course tree.
func RunCourse(in CourseInput, p *standards.Profile, rules ...CourseRule) ([]Issue, error) {
	compiled, err := p.Compile()
	if err != nil {
		return nil, err
	}
	if in.Doc == nil || in.Doc.Course == nil {
		return nil, aggregates.Errorf(aggregates.CodeValidation, "validation.RunCourse", "course tree is required")
	}
	if len(rules) == 0 {
		rules = DefaultCourseRules()
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

func checkContentTypeMix(in CourseInput, p *standards.Profile, _ *standards.Rules) []Issue {
	mix := p.ContentTypeMix
	total := len(in.Doc.Activities)
	if total == 0 || total < mix.MinActivities || len(mix.Shares) == 0 {
		return nil
	}
	counts := map[types.ContentType]int{}
	for _, a := range in.Doc.Activities {
		counts[a.ContentType]++
	}
	names := make([]string, 0, len(mix.Shares))
	for name := range mix.Shares {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Issue
	for _, name := range names {
		b := mix.Shares[name]
		ct, _ := types.ParseContentType(name)
		share := float64(counts[ct]) / float64(total)
		if share < b.MinShare || share > b.MaxShare {
			out = append(out, Issue{
				Severity: SeverityWarning,
				RuleID:   RuleContentTypeMix,
				Message: fmt.Sprintf("%s makes up %.0f%% of activities (%d of %d); expected %.0f%%-%.0f%%",
					ct, share*100, counts[ct], total, b.MinShare*100, b.MaxShare*100),
			})
		}
	}
	return out
}

// checkBloomProgression requires each module's highest Bloom level to be at
// least the highest level reached by any earlier module.
func checkBloomProgression(in CourseInput, _ *standards.Profile, _ *standards.Rules) []Issue {
	byModule := in.Doc.LessonsByModule()
	var out []Issue
	bestSoFar := 0
	bestModule := ""
	for _, m := range in.Doc.Modules {
		peak := 0
		for _, l := range byModule[m.ID.String()] {
			if r := l.BloomLevel.Rank(); r > peak {
				peak = r
			}
		}
		if peak == 0 {
			continue
		}
		if peak < bestSoFar {
			out = append(out, Issue{
				Severity: SeverityWarning,
				RuleID:   RuleBloomProgression,
				Message: fmt.Sprintf("module %q peaks at a lower Bloom level than earlier module %q",
					m.Title, bestModule),
				Path: "modules/" + m.ID.String(),
			})
			continue
		}
		bestSoFar, bestModule = peak, m.Title
	}
	return out
}

// checkSequentialReferences flags prose that points at other activities by
// position, which breaks when the course is reordered.
func checkSequentialReferences(in CourseInput, _ *standards.Profile, rules *standards.Rules) []Issue {
	var out []Issue
	for _, a := range in.Doc.Activities {
		body := in.Bodies[a.ID]
		if body == nil {
			continue
		}
		blocks := body.TextBlocks()
		for _, re := range rules.SequentialRefs {
			path, m := firstMatch(re, blocks)
			if m == "" {
				continue
			}
			id := a.ID
			out = append(out, Issue{
				Severity:   SeverityWarning,
				RuleID:     RuleSequentialReference,
				Message:    fmt.Sprintf("%q refers to another activity by position (%q)", a.Title, m),
				Path:       path,
				ActivityID: &id,
			})
			break
		}
	}
	return out
}
