package standards

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
)

//go:embed default_profile.yaml
var defaultProfileFS embed.FS

// Profile is the author-supplied ContentStandardsProfile consumed by validators.
// It is read-only once parsed.
type Profile struct {
	Name    string `yaml:"name" json:"name"`
	Version int    `yaml:"version" json:"version"`

	AnswerDistribution AnswerDistribution `yaml:"answer_distribution" json:"answer_distribution"`
	Video              VideoBounds        `yaml:"video" json:"video"`
	Reading            ReadingBounds      `yaml:"reading" json:"reading"`

	ForbiddenCTAPatterns []string    `yaml:"forbidden_cta_patterns" json:"forbidden_cta_patterns"`
	AIPatternPhrases     []string    `yaml:"ai_pattern_phrases" json:"ai_pattern_phrases"`
	Attribution          Attribution `yaml:"attribution" json:"attribution"`
	PaywallDomains       []string    `yaml:"paywall_domains" json:"paywall_domains"`

	ContentTypeMix              ContentTypeMix `yaml:"content_type_mix" json:"content_type_mix"`
	SequentialReferencePatterns []string       `yaml:"sequential_reference_patterns" json:"sequential_reference_patterns"`

	rules *Rules
}

type AnswerDistribution struct {
	MinShare     float64 `yaml:"min_share" json:"min_share"`
	MaxShare     float64 `yaml:"max_share" json:"max_share"`
	MinQuestions int     `yaml:"min_questions" json:"min_questions"`
	// MaxRun is the longest allowed streak of the same correct letter.
	MaxRun int `yaml:"max_run" json:"max_run"`
}

type WordBounds struct {
	MinWords int `yaml:"min_words" json:"min_words"`
	MaxWords int `yaml:"max_words" json:"max_words"`
}

// Contains reports whether n is inside the bounds. A zero max is unbounded.
func (b WordBounds) Contains(n int) bool {
	if n < b.MinWords {
		return false
	}
	return b.MaxWords <= 0 || n <= b.MaxWords
}

type VideoBounds struct {
	Sections map[string]WordBounds `yaml:"sections" json:"sections"`
	Total    WordBounds            `yaml:"total" json:"total"`
}

type ReadingBounds struct {
	Total         WordBounds `yaml:"total" json:"total"`
	MaxReferences int        `yaml:"max_references" json:"max_references"`
}

type Attribution struct {
	Required     bool     `yaml:"required" json:"required"`
	ContentTypes []string `yaml:"content_types" json:"content_types"`
	Template     string   `yaml:"template" json:"template"`
}

// AppliesTo reports whether attribution is enforced for ct.
func (a Attribution) AppliesTo(ct types.ContentType) bool {
	if !a.Required {
		return false
	}
	for _, c := range a.ContentTypes {
		if types.ContentType(strings.ToLower(strings.TrimSpace(c))) == ct {
			return true
		}
	}
	return false
}

type ShareBounds struct {
	MinShare float64 `yaml:"min_share" json:"min_share"`
	MaxShare float64 `yaml:"max_share" json:"max_share"`
}

type ContentTypeMix struct {
	// MinActivities below which the mix check is skipped.
	MinActivities int                    `yaml:"min_activities" json:"min_activities"`
	Shares        map[string]ShareBounds `yaml:"shares" json:"shares"`
}

// Rules holds the compiled form of a profile.
type Rules struct {
	ForbiddenCTA   []*regexp.Regexp
	AIPatterns     []*regexp.Regexp
	SequentialRefs []*regexp.Regexp
	PaywallDomains []string
}

// Default returns the embedded default profile.
func Default() (*Profile, error) {
	raw, err := defaultProfileFS.ReadFile("default_profile.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Load reads a profile from path, falling back to the embedded default when
// path is empty.
func Load(path string) (*Profile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read standards profile %s: %w", path, err)
	}
	return Parse(raw)
}

// Resolve returns the profile stored on a course, or fallback when the course
// has none.
func Resolve(stored []byte, fallback *Profile) (*Profile, error) {
	trimmed := strings.TrimSpace(string(stored))
	if trimmed == "" || trimmed == "null" {
		if fallback == nil {
			return nil, aggregates.Errorf(aggregates.CodeInvalidProfile, "standards.Resolve", "no standards profile configured")
		}
		return fallback, nil
	}
	return Parse(stored)
}

// Parse accepts YAML or JSON and returns a validated, compiled profile.
func Parse(raw []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, aggregates.NewError(aggregates.CodeInvalidProfile, "standards.Parse", "malformed profile", err)
	}
	if _, err := p.Compile(); err != nil {
		return nil, err
	}
	return &p, nil
}

// JSON encodes the profile for storage on the course.
func (p *Profile) JSON() ([]byte, error) {
	return json.Marshal(p)
}

// Compile validates the profile and caches its compiled rules.
func (p *Profile) Compile() (*Rules, error) {
	if p == nil {
		return nil, aggregates.Errorf(aggregates.CodeInvalidProfile, "standards.Compile", "profile is required")
	}
	if p.rules != nil {
		return p.rules, nil
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r := &Rules{}
	var err error
	if r.ForbiddenCTA, err = compileAll("forbidden_cta_patterns", p.ForbiddenCTAPatterns); err != nil {
		return nil, err
	}
	if r.SequentialRefs, err = compileAll("sequential_reference_patterns", p.SequentialReferencePatterns); err != nil {
		return nil, err
	}
	for _, phrase := range p.AIPatternPhrases {
		phrase = strings.TrimSpace(phrase)
		if phrase == "" {
			continue
		}
		r.AIPatterns = append(r.AIPatterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(phrase)+`\b`))
	}
	for _, d := range p.PaywallDomains {
		d = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
		if d != "" {
			r.PaywallDomains = append(r.PaywallDomains, d)
		}
	}
	p.rules = r
	return r, nil
}

// Validate checks the profile for values no validator could apply.
func (p *Profile) Validate() error {
	const op = "standards.Validate"
	var problems []string
	ad := p.AnswerDistribution
	if ad.MinShare < 0 || ad.MaxShare > 1 || ad.MaxShare <= 0 || ad.MinShare > ad.MaxShare {
		problems = append(problems, "answer_distribution shares must satisfy 0 <= min_share <= max_share <= 1")
	}
	if ad.MaxRun < 1 {
		problems = append(problems, "answer_distribution.max_run must be at least 1")
	}
	if ad.MinQuestions < 0 {
		problems = append(problems, "answer_distribution.min_questions must not be negative")
	}
	for name, b := range p.Video.Sections {
		if !validBounds(b) {
			problems = append(problems, fmt.Sprintf("video.sections.%s has invalid word bounds", name))
		}
	}
	if !validBounds(p.Video.Total) {
		problems = append(problems, "video.total has invalid word bounds")
	}
	if !validBounds(p.Reading.Total) {
		problems = append(problems, "reading.total has invalid word bounds")
	}
	if p.Attribution.Required {
		if strings.TrimSpace(p.Attribution.Template) == "" {
			problems = append(problems, "attribution.template is required when attribution is required")
		}
		for _, c := range p.Attribution.ContentTypes {
			if _, ok := types.ParseContentType(c); !ok {
				problems = append(problems, fmt.Sprintf("attribution.content_types has unknown type %q", c))
			}
		}
	}
	for name, s := range p.ContentTypeMix.Shares {
		if _, ok := types.ParseContentType(name); !ok {
			problems = append(problems, fmt.Sprintf("content_type_mix has unknown type %q", name))
		}
		if s.MinShare < 0 || s.MaxShare > 1 || s.MinShare > s.MaxShare {
			problems = append(problems, fmt.Sprintf("content_type_mix.%s shares are out of range", name))
		}
	}
	if len(problems) > 0 {
		return aggregates.NewError(aggregates.CodeInvalidProfile, op, strings.Join(problems, "; "), nil)
	}
	return nil
}

func validBounds(b WordBounds) bool {
	return b.MinWords >= 0 && b.MaxWords >= 0 && (b.MaxWords == 0 || b.MinWords <= b.MaxWords)
}

func compileAll(field string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for i, raw := range patterns {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + raw)
		if err != nil {
			return nil, aggregates.NewError(aggregates.CodeInvalidProfile, "standards.Compile",
				fmt.Sprintf("%s[%d] is not a valid pattern", field, i), err)
		}
		out = append(out, re)
	}
	return out, nil
}

// IsPaywalled reports whether host is, or is a subdomain of, a paywall domain.
func (r *Rules) IsPaywalled(host string) bool {
	host = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(host)), "www.")
	for _, d := range r.PaywallDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
