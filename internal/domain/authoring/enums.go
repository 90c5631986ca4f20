package authoring

import "strings"

// BuildState is the lifecycle position of an activity's content.
type BuildState string

const (
	BuildStateDraft      BuildState = "DRAFT"
	BuildStateGenerating BuildState = "GENERATING"
	BuildStateGenerated  BuildState = "GENERATED"
	BuildStateReviewed   BuildState = "REVIEWED"
	BuildStateApproved   BuildState = "APPROVED"
	BuildStatePublished  BuildState = "PUBLISHED"
)

var buildStateOrder = map[BuildState]int{
	BuildStateDraft:      0,
	BuildStateGenerating: 1,
	BuildStateGenerated:  2,
	BuildStateReviewed:   3,
	BuildStateApproved:   4,
	BuildStatePublished:  5,
}

// Rank returns the canonical position of s, or -1 for unknown states.
func (s BuildState) Rank() int {
	if r, ok := buildStateOrder[s]; ok {
		return r
	}
	return -1
}

func (s BuildState) Valid() bool { return s.Rank() >= 0 }

func (s BuildState) String() string { return string(s) }

// HasContent reports whether an activity in this state must carry content.
// GENERATING is excluded: it holds whatever the prior state held.
func (s BuildState) HasContent() bool {
	return s.Rank() >= BuildStateGenerated.Rank()
}

func ParseBuildState(raw string) (BuildState, bool) {
	s := BuildState(strings.ToUpper(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// ContentType selects the generator, schema and validators for an activity.
type ContentType string

const (
	ContentTypeVideo        ContentType = "video"
	ContentTypeReading      ContentType = "reading"
	ContentTypeQuiz         ContentType = "quiz"
	ContentTypePracticeQuiz ContentType = "practice_quiz"
	ContentTypeHOL          ContentType = "hol"
	ContentTypeCoach        ContentType = "coach"
	ContentTypeLab          ContentType = "lab"
	ContentTypeDiscussion   ContentType = "discussion"
	ContentTypeAssignment   ContentType = "assignment"
	ContentTypeProject      ContentType = "project"
	ContentTypeRubric       ContentType = "rubric"
)

var ContentTypes = []ContentType{
	ContentTypeVideo,
	ContentTypeReading,
	ContentTypeQuiz,
	ContentTypePracticeQuiz,
	ContentTypeHOL,
	ContentTypeCoach,
	ContentTypeLab,
	ContentTypeDiscussion,
	ContentTypeAssignment,
	ContentTypeProject,
	ContentTypeRubric,
}

func (c ContentType) Valid() bool {
	for _, ct := range ContentTypes {
		if ct == c {
			return true
		}
	}
	return false
}

func ParseContentType(raw string) (ContentType, bool) {
	c := ContentType(strings.ToLower(strings.TrimSpace(raw)))
	return c, c.Valid()
}

// ActivityType refines a content type, e.g. graded vs practice quizzes.
type ActivityType string

const (
	ActivityTypeDefault  ActivityType = ""
	ActivityTypeGraded   ActivityType = "graded"
	ActivityTypePractice ActivityType = "practice"
	ActivityTypeUngraded ActivityType = "ungraded"
)

func ParseActivityType(raw string) (ActivityType, bool) {
	a := ActivityType(strings.ToLower(strings.TrimSpace(raw)))
	switch a {
	case ActivityTypeDefault, ActivityTypeGraded, ActivityTypePractice, ActivityTypeUngraded:
		return a, true
	}
	return a, false
}

// BloomLevel is the cognitive level targeted by a lesson.
type BloomLevel string

const (
	BloomRemember   BloomLevel = "remember"
	BloomUnderstand BloomLevel = "understand"
	BloomApply      BloomLevel = "apply"
	BloomAnalyze    BloomLevel = "analyze"
	BloomEvaluate   BloomLevel = "evaluate"
	BloomCreate     BloomLevel = "create"
)

var bloomOrder = map[BloomLevel]int{
	BloomRemember:   1,
	BloomUnderstand: 2,
	BloomApply:      3,
	BloomAnalyze:    4,
	BloomEvaluate:   5,
	BloomCreate:     6,
}

// Rank is 0 for an unset or unknown level.
func (b BloomLevel) Rank() int { return bloomOrder[b] }

func ParseBloomLevel(raw string) (BloomLevel, bool) {
	b := BloomLevel(strings.ToLower(strings.TrimSpace(raw)))
	if b == "" {
		return b, true
	}
	_, ok := bloomOrder[b]
	return b, ok
}
