package content

import (
	"errors"
	"strings"
	"testing"

	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
)

func TestDecodeAcceptsValidPayloads(t *testing.T) {
	cases := []struct {
		ct   types.ContentType
		body any
	}{
		{types.ContentTypeReading, sampleReading()},
		{types.ContentTypeQuiz, sampleQuiz("A", "B", "C", "D")},
		{types.ContentTypePracticeQuiz, sampleQuiz("A", "B", "C")},
		{types.ContentTypeHOL, sampleHOL(3)},
	}
	for _, tc := range cases {
		if _, err := Decode(tc.ct, mustJSON(t, tc.body)); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.ct, err)
		}
	}
}

func TestDecodeRejectsWrongHOLPartCount(t *testing.T) {
	_, err := Decode(types.ContentTypeHOL, mustJSON(t, sampleHOL(2)))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if !strings.Contains(strings.Join(se.Problems, ";"), "parts must have exactly 3") {
		t.Fatalf("unexpected problems: %v", se.Problems)
	}
}

func TestDecodeRejectsTooManyQuestions(t *testing.T) {
	answers := make([]string, 11)
	for i := range answers {
		answers[i] = AnswerLetters[i%4]
	}
	_, err := Decode(types.ContentTypeQuiz, mustJSON(t, sampleQuiz(answers...)))
	if !IsSchemaError(err) {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestDecodeRejectsUnknownFieldsAndTrailingData(t *testing.T) {
	raw := mustJSON(t, sampleQuiz("A", "B", "C"))
	withExtra := strings.Replace(string(raw), `"title"`, `"difficulty":"hard","title"`, 1)
	if _, err := Decode(types.ContentTypeQuiz, []byte(withExtra)); !IsSchemaError(err) {
		t.Fatalf("unknown field accepted: %v", err)
	}
	if _, err := Decode(types.ContentTypeQuiz, append(raw, []byte(`{}`)...)); !IsSchemaError(err) {
		t.Fatalf("trailing data accepted: %v", err)
	}
}

func TestDecodeRejectsMisorderedOptionLetters(t *testing.T) {
	q := sampleQuiz("A", "B", "C")
	q.Questions[1].Options[0].Letter, q.Questions[1].Options[1].Letter = "B", "A"
	_, err := Decode(types.ContentTypeQuiz, mustJSON(t, q))
	var se *SchemaError
	if !errors.As(err, &se) || !strings.Contains(se.Problems[0], "questions[1].options") {
		t.Fatalf("expected option order problem, got %v", err)
	}
}

func TestDecodeUnknownContentType(t *testing.T) {
	if _, err := Decode(types.ContentType("podcast"), []byte(`{}`)); err == nil || IsSchemaError(err) {
		t.Fatalf("expected plain error for unknown type, got %v", err)
	}
}

func TestRubricRequiresDescendingPoints(t *testing.T) {
	r := &Rubric{Title: "Report", Criteria: []Criterion{{
		Name:        "Clarity",
		Description: "Writing is clear",
		Levels: []RubricLevel{
			{Label: "Exemplary", Points: 10, Description: "x"},
			{Label: "Proficient", Points: 10, Description: "y"},
			{Label: "Developing", Points: 2, Description: "z"},
		},
	}}}
	if problems := Validate(r); len(problems) != 1 {
		t.Fatalf("expected one problem, got %v", problems)
	}
	r.Criteria[0].Levels[1].Points = 6
	if problems := Validate(r); len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if got := r.Metadata().Details["total_points"]; got != 10 {
		t.Fatalf("total points: got %v", got)
	}
}

func TestHOLDurationSumsStepMinutes(t *testing.T) {
	if got := sampleHOL(3).Metadata().EstimatedDurationMinutes; got != 45 {
		t.Fatalf("expected 45 minutes, got %v", got)
	}
}

func TestQuizMetadataDistribution(t *testing.T) {
	m := sampleQuiz("A", "A", "C", "D").Metadata()
	if m.EstimatedDurationMinutes != 6 {
		t.Fatalf("quiz duration: got %v", m.EstimatedDurationMinutes)
	}
	dist := m.Details["answer_distribution"].(map[string]int)
	if dist["A"] != 2 || dist["B"] != 0 {
		t.Fatalf("distribution: %v", dist)
	}
}
