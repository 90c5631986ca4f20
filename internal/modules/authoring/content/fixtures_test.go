package content

import (
	"encoding/json"
	"testing"
)

func sampleReading() *Reading {
	return &Reading{
		Title:        "Indexes in Practice",
		Introduction: "Indexes trade write cost for read speed.",
		Sections: []ReadingSection{
			{Heading: "B-trees", Body: words(400)},
			{Heading: "Covering indexes", Body: words(300)},
		},
		KeyTakeaways: []string{"Measure first", "Index selective columns", "Drop unused indexes"},
		References:   []Reference{{Title: "Use the Index, Luke", URL: "https://use-the-index-luke.com"}},
	}
}

func sampleQuiz(answers ...string) *Quiz {
	q := &Quiz{Title: "Check your understanding"}
	for _, a := range answers {
		q.Questions = append(q.Questions, Question{
			Stem: "Which statement is correct?",
			Options: []Option{
				{Letter: "A", Text: "first"},
				{Letter: "B", Text: "second"},
				{Letter: "C", Text: "third"},
				{Letter: "D", Text: "fourth"},
			},
			CorrectAnswer: a,
			Explanation:   "Because it is.",
		})
	}
	return q
}

func sampleHOL(parts int) *HandsOnLesson {
	h := &HandsOnLesson{
		Title:                  "Profile a slow query",
		Scenario:               "Your dashboard takes ten seconds to load.",
		SubmissionInstructions: "Upload the EXPLAIN output.",
	}
	for i := 0; i < parts; i++ {
		h.Parts = append(h.Parts, HOLPart{
			Title:     "Part",
			Objective: "Find the bottleneck",
			Steps: []Step{
				{Instruction: "Run EXPLAIN", EstimatedMinutes: 10},
				{Instruction: "Add an index", EstimatedMinutes: 5},
			},
		})
	}
	return h
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}
