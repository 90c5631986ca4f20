package content

import "fmt"

type Step struct {
	Instruction      string `json:"instruction" validate:"required"`
	ExpectedResult   string `json:"expected_result"`
	EstimatedMinutes int    `json:"estimated_minutes" validate:"min=1,max=120"`
}

type HOLPart struct {
	Title     string `json:"title" validate:"required"`
	Objective string `json:"objective" validate:"required"`
	Steps     []Step `json:"steps" validate:"min=1,max=10,dive"`
}

// HandsOnLesson is a guided exercise in exactly three parts.
type HandsOnLesson struct {
	Title                  string    `json:"title" validate:"required"`
	Scenario               string    `json:"scenario" validate:"required"`
	Parts                  []HOLPart `json:"parts" validate:"len=3,dive"`
	SubmissionInstructions string    `json:"submission_instructions" validate:"required"`
}

func (h *HandsOnLesson) TextBlocks() []TextBlock {
	blocks := []TextBlock{{Path: "scenario", Text: h.Scenario}}
	for i, p := range h.Parts {
		blocks = append(blocks, TextBlock{Path: fmt.Sprintf("parts[%d].objective", i), Text: p.Objective})
		blocks = append(blocks, stepBlocks(fmt.Sprintf("parts[%d].steps", i), p.Steps)...)
	}
	return append(blocks, TextBlock{Path: "submission_instructions", Text: h.SubmissionInstructions})
}

func (h *HandsOnLesson) Metadata() Metadata {
	minutes, steps := 0, 0
	for _, p := range h.Parts {
		minutes += sumMinutes(p.Steps)
		steps += len(p.Steps)
	}
	return Metadata{
		WordCount:                CountWordsAll(joinTexts(h.TextBlocks())...),
		EstimatedDurationMinutes: float64(minutes),
		Details: map[string]any{
			"part_count": len(h.Parts),
			"step_count": steps,
		},
	}
}

type Lab struct {
	Title        string   `json:"title" validate:"required"`
	Overview     string   `json:"overview" validate:"required"`
	Setup        []string `json:"setup" validate:"min=1,max=10,dive,required"`
	Tasks        []Step   `json:"tasks" validate:"min=1,max=15,dive"`
	Verification string   `json:"verification" validate:"required"`
}

func (l *Lab) TextBlocks() []TextBlock {
	blocks := []TextBlock{{Path: "overview", Text: l.Overview}}
	for i, s := range l.Setup {
		blocks = append(blocks, TextBlock{Path: fmt.Sprintf("setup[%d]", i), Text: s})
	}
	blocks = append(blocks, stepBlocks("tasks", l.Tasks)...)
	return append(blocks, TextBlock{Path: "verification", Text: l.Verification})
}

func (l *Lab) Metadata() Metadata {
	return Metadata{
		WordCount:                CountWordsAll(joinTexts(l.TextBlocks())...),
		EstimatedDurationMinutes: float64(sumMinutes(l.Tasks)),
		Details: map[string]any{
			"task_count": len(l.Tasks),
		},
	}
}

func stepBlocks(prefix string, steps []Step) []TextBlock {
	out := make([]TextBlock, 0, len(steps))
	for i, s := range steps {
		out = append(out, TextBlock{Path: fmt.Sprintf("%s[%d].instruction", prefix, i), Text: s.Instruction})
	}
	return out
}

func sumMinutes(steps []Step) int {
	n := 0
	for _, s := range steps {
		n += s.EstimatedMinutes
	}
	return n
}
