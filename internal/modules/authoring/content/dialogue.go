package content

import "fmt"

type CoachPrompt struct {
	Question string `json:"question" validate:"required"`
	Guidance string `json:"guidance" validate:"required"`
}

// CoachDialogue is a scripted reflective conversation.
type CoachDialogue struct {
	Title             string        `json:"title" validate:"required"`
	Goal              string        `json:"goal" validate:"required"`
	OpeningMessage    string        `json:"opening_message" validate:"required"`
	Prompts           []CoachPrompt `json:"prompts" validate:"min=3,max=6,dive"`
	ClosingReflection string        `json:"closing_reflection" validate:"required"`
}

func (c *CoachDialogue) TextBlocks() []TextBlock {
	blocks := []TextBlock{{Path: "opening_message", Text: c.OpeningMessage}}
	for i, p := range c.Prompts {
		blocks = append(blocks,
			TextBlock{Path: fmt.Sprintf("prompts[%d].question", i), Text: p.Question},
			TextBlock{Path: fmt.Sprintf("prompts[%d].guidance", i), Text: p.Guidance},
		)
	}
	return append(blocks, TextBlock{Path: "closing_reflection", Text: c.ClosingReflection})
}

func (c *CoachDialogue) Metadata() Metadata {
	return Metadata{
		WordCount:                CountWordsAll(joinTexts(c.TextBlocks())...),
		EstimatedDurationMinutes: float64(len(c.Prompts) * CoachMinutesPerPrompt),
		Details: map[string]any{
			"prompt_count": len(c.Prompts),
		},
	}
}

type Discussion struct {
	Title                   string   `json:"title" validate:"required"`
	Prompt                  string   `json:"prompt" validate:"required"`
	GuidingQuestions        []string `json:"guiding_questions" validate:"min=2,max=5,dive,required"`
	ParticipationGuidelines string   `json:"participation_guidelines" validate:"required"`
	MinResponseWords        int      `json:"min_response_words" validate:"min=50,max=1000"`
}

func (d *Discussion) TextBlocks() []TextBlock {
	blocks := []TextBlock{{Path: "prompt", Text: d.Prompt}}
	for i, q := range d.GuidingQuestions {
		blocks = append(blocks, TextBlock{Path: fmt.Sprintf("guiding_questions[%d]", i), Text: q})
	}
	return append(blocks, TextBlock{Path: "participation_guidelines", Text: d.ParticipationGuidelines})
}

func (d *Discussion) Metadata() Metadata {
	wc := CountWordsAll(joinTexts(d.TextBlocks())...)
	return Metadata{
		WordCount:                wc,
		EstimatedDurationMinutes: round2(EstimateReadingDuration(wc) + DiscussionComposeMinutes),
		Details: map[string]any{
			"guiding_question_count": len(d.GuidingQuestions),
		},
	}
}
