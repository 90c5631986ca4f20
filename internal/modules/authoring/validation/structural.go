package validation

import (
	"fmt"
	"net/url"

	"github.com/yungbote/courseforge-backend/internal/modules/authoring/content"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/standards"
)

func checkStructure(in Input, _ *standards.Profile, _ *standards.Rules) []Issue {
	var out []Issue
	for _, prob := range content.Validate(in.Body) {
		out = append(out, Issue{Severity: SeverityError, RuleID: RuleStructure, Message: prob})
	}
	return out
}

func checkVideoLength(in Input, p *standards.Profile, _ *standards.Rules) []Issue {
	v, ok := in.Body.(*content.VideoScript)
	if !ok {
		return nil
	}
	var out []Issue
	total := 0
	for _, s := range v.SpokenSections() {
		n := content.CountWords(s.Text)
		total += n
		b, ok := p.Video.Sections[s.Path]
		if !ok || b.Contains(n) {
			continue
		}
		out = append(out, Issue{
			Severity: SeverityWarning,
			RuleID:   RuleVideoSectionLength,
			Message:  fmt.Sprintf("%s has %d words; expected %s", s.Path, n, describeBounds(b)),
			Path:     s.Path,
		})
	}
	if !p.Video.Total.Contains(total) {
		out = append(out, Issue{
			Severity: SeverityWarning,
			RuleID:   RuleVideoTotalLength,
			Message:  fmt.Sprintf("script has %d spoken words; expected %s", total, describeBounds(p.Video.Total)),
		})
	}
	return out
}

func checkReadingLength(in Input, p *standards.Profile, _ *standards.Rules) []Issue {
	r, ok := in.Body.(*content.Reading)
	if !ok {
		return nil
	}
	var out []Issue
	if wc := r.Metadata().WordCount; !p.Reading.Total.Contains(wc) {
		out = append(out, Issue{
			Severity: SeverityWarning,
			RuleID:   RuleReadingLength,
			Message:  fmt.Sprintf("reading has %d words; expected %s", wc, describeBounds(p.Reading.Total)),
		})
	}
	if max := p.Reading.MaxReferences; max > 0 && len(r.References) > max {
		out = append(out, Issue{
			Severity:    SeverityWarning,
			RuleID:      RuleReferenceCount,
			Message:     fmt.Sprintf("reading cites %d references; at most %d allowed", len(r.References), max),
			AutoFixable: true,
			Path:        "references",
		})
	}
	return out
}

func checkPaywalledReferences(in Input, _ *standards.Profile, rules *standards.Rules) []Issue {
	r, ok := in.Body.(*content.Reading)
	if !ok {
		return nil
	}
	var out []Issue
	for i, ref := range r.References {
		u, err := url.Parse(ref.URL)
		if err != nil || u.Host == "" {
			continue
		}
		if rules.IsPaywalled(u.Hostname()) {
			out = append(out, Issue{
				Severity: SeverityWarning,
				RuleID:   RulePaywalledReference,
				Message:  fmt.Sprintf("reference %q links to paywalled domain %s", ref.Title, u.Hostname()),
				Path:     fmt.Sprintf("references[%d].url", i),
			})
		}
	}
	return out
}

func describeBounds(b standards.WordBounds) string {
	if b.MaxWords <= 0 {
		return fmt.Sprintf("at least %d", b.MinWords)
	}
	return fmt.Sprintf("%d-%d", b.MinWords, b.MaxWords)
}
