package content

import "fmt"

// VideoScript follows the hook / objective / content / in-video question /
// summary / call-to-action structure.
type VideoScript struct {
	Title     string          `json:"title" validate:"required"`
	Hook      ScriptSection   `json:"hook"`
	Objective ScriptSection   `json:"objective"`
	Content   []ScriptSection `json:"content" validate:"min=1,max=6,dive"`
	IVQ       InVideoQuestion `json:"ivq"`
	Summary   ScriptSection   `json:"summary"`
	CTA       ScriptSection   `json:"cta"`
}

type ScriptSection struct {
	Heading   string `json:"heading" validate:"required"`
	Script    string `json:"script" validate:"required"`
	VisualCue string `json:"visual_cue,omitempty"`
}

type InVideoQuestion struct {
	Question      string   `json:"question" validate:"required"`
	Options       []Option `json:"options" validate:"len=4,dive"`
	CorrectAnswer string   `json:"correct_answer" validate:"required,oneof=A B C D"`
	Feedback      string   `json:"feedback" validate:"required"`
}

// Section names used in paths and profile word bounds.
const (
	VideoSectionHook      = "hook"
	VideoSectionObjective = "objective"
	VideoSectionContent   = "content"
	VideoSectionSummary   = "summary"
	VideoSectionCTA       = "cta"
)

func (v *VideoScript) Check() []string {
	return checkOptionLetters("ivq.options", v.IVQ.Options)
}

// SpokenSections returns narrated sections in order. Content segments are
// reported as one "content" section.
func (v *VideoScript) SpokenSections() []TextBlock {
	content := ""
	for i, c := range v.Content {
		if i > 0 {
			content += "\n\n"
		}
		content += c.Script
	}
	return []TextBlock{
		{Path: VideoSectionHook, Text: v.Hook.Script},
		{Path: VideoSectionObjective, Text: v.Objective.Script},
		{Path: VideoSectionContent, Text: content},
		{Path: VideoSectionSummary, Text: v.Summary.Script},
		{Path: VideoSectionCTA, Text: v.CTA.Script},
	}
}

func (v *VideoScript) TextBlocks() []TextBlock {
	blocks := []TextBlock{
		{Path: "hook.script", Text: v.Hook.Script},
		{Path: "objective.script", Text: v.Objective.Script},
	}
	for i, c := range v.Content {
		blocks = append(blocks, TextBlock{Path: fmt.Sprintf("content[%d].script", i), Text: c.Script})
	}
	blocks = append(blocks,
		TextBlock{Path: "ivq.question", Text: v.IVQ.Question},
		TextBlock{Path: "ivq.feedback", Text: v.IVQ.Feedback},
		TextBlock{Path: "summary.script", Text: v.Summary.Script},
		TextBlock{Path: "cta.script", Text: v.CTA.Script},
	)
	return blocks
}

func (v *VideoScript) Metadata() Metadata {
	sectionWords := map[string]int{}
	total := 0
	for _, s := range v.SpokenSections() {
		n := CountWords(s.Text)
		sectionWords[s.Path] = n
		total += n
	}
	return Metadata{
		WordCount:                total,
		EstimatedDurationMinutes: EstimateVideoDuration(total),
		Details: map[string]any{
			"section_words": sectionWords,
			"segment_count": len(v.Content),
		},
	}
}
