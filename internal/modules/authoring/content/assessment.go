package content

import (
	"fmt"
	"strings"
)

type Deliverable struct {
	Name             string `json:"name" validate:"required"`
	Description      string `json:"description" validate:"required"`
	EstimatedMinutes int    `json:"estimated_minutes" validate:"min=5,max=600"`
}

type Assignment struct {
	Title            string        `json:"title" validate:"required"`
	Overview         string        `json:"overview" validate:"required"`
	Instructions     []string      `json:"instructions" validate:"min=3,max=10,dive,required"`
	Deliverables     []Deliverable `json:"deliverables" validate:"min=1,max=5,dive"`
	SubmissionFormat string        `json:"submission_format" validate:"required"`
}

func (a *Assignment) TextBlocks() []TextBlock {
	blocks := []TextBlock{{Path: "overview", Text: a.Overview}}
	for i, in := range a.Instructions {
		blocks = append(blocks, TextBlock{Path: fmt.Sprintf("instructions[%d]", i), Text: in})
	}
	for i, d := range a.Deliverables {
		blocks = append(blocks, TextBlock{Path: fmt.Sprintf("deliverables[%d].description", i), Text: d.Description})
	}
	return blocks
}

func (a *Assignment) Metadata() Metadata {
	wc := CountWordsAll(joinTexts(a.TextBlocks())...)
	minutes := 0
	for _, d := range a.Deliverables {
		minutes += d.EstimatedMinutes
	}
	return Metadata{
		WordCount:                wc,
		EstimatedDurationMinutes: round2(EstimateReadingDuration(wc) + float64(minutes)),
		Details: map[string]any{
			"deliverable_count": len(a.Deliverables),
		},
	}
}

type Milestone struct {
	Title            string `json:"title" validate:"required"`
	Description      string `json:"description" validate:"required"`
	EstimatedMinutes int    `json:"estimated_minutes" validate:"min=5,max=1200"`
}

type Project struct {
	Title            string      `json:"title" validate:"required"`
	Overview         string      `json:"overview" validate:"required"`
	Milestones       []Milestone `json:"milestones" validate:"min=2,max=6,dive"`
	FinalDeliverable string      `json:"final_deliverable" validate:"required"`
}

func (p *Project) TextBlocks() []TextBlock {
	blocks := []TextBlock{{Path: "overview", Text: p.Overview}}
	for i, m := range p.Milestones {
		blocks = append(blocks, TextBlock{Path: fmt.Sprintf("milestones[%d].description", i), Text: m.Description})
	}
	return append(blocks, TextBlock{Path: "final_deliverable", Text: p.FinalDeliverable})
}

func (p *Project) Metadata() Metadata {
	minutes := 0
	for _, m := range p.Milestones {
		minutes += m.EstimatedMinutes
	}
	return Metadata{
		WordCount:                CountWordsAll(joinTexts(p.TextBlocks())...),
		EstimatedDurationMinutes: float64(minutes),
		Details: map[string]any{
			"milestone_count": len(p.Milestones),
		},
	}
}

type RubricLevel struct {
	Label       string `json:"label" validate:"required"`
	Points      int    `json:"points" validate:"min=0,max=100"`
	Description string `json:"description" validate:"required"`
}

type Criterion struct {
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description" validate:"required"`
	Levels      []RubricLevel `json:"levels" validate:"len=3,dive"`
}

// Rubric scores a deliverable on criteria with three descending levels each.
type Rubric struct {
	Title    string      `json:"title" validate:"required"`
	Criteria []Criterion `json:"criteria" validate:"min=1,max=8,dive"`
}

func (r *Rubric) Check() []string {
	var problems []string
	seen := map[string]bool{}
	for i, c := range r.Criteria {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if seen[key] {
			problems = append(problems, fmt.Sprintf("criteria[%d].name duplicates an earlier criterion", i))
		}
		seen[key] = true
		for j := 1; j < len(c.Levels); j++ {
			if c.Levels[j].Points >= c.Levels[j-1].Points {
				problems = append(problems, fmt.Sprintf("criteria[%d].levels must have strictly descending points", i))
				break
			}
		}
	}
	return problems
}

func (r *Rubric) TextBlocks() []TextBlock {
	var blocks []TextBlock
	for i, c := range r.Criteria {
		blocks = append(blocks, TextBlock{Path: fmt.Sprintf("criteria[%d].description", i), Text: c.Description})
		for j, l := range c.Levels {
			blocks = append(blocks, TextBlock{Path: fmt.Sprintf("criteria[%d].levels[%d].description", i, j), Text: l.Description})
		}
	}
	return blocks
}

func (r *Rubric) Metadata() Metadata {
	total := 0
	for _, c := range r.Criteria {
		if len(c.Levels) > 0 {
			total += c.Levels[0].Points
		}
	}
	return Metadata{
		WordCount: CountWordsAll(joinTexts(r.TextBlocks())...),
		Details: map[string]any{
			"criteria_count": len(r.Criteria),
			"total_points":   total,
		},
	}
}
