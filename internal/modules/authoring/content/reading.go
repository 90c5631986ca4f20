package content

import "fmt"

type Reading struct {
	Title        string           `json:"title" validate:"required"`
	Introduction string           `json:"introduction" validate:"required"`
	Sections     []ReadingSection `json:"sections" validate:"min=2,max=8,dive"`
	KeyTakeaways []string         `json:"key_takeaways" validate:"min=3,max=6,dive,required"`
	References   []Reference      `json:"references" validate:"max=10,dive"`
	Attribution  string           `json:"attribution"`
}

type ReadingSection struct {
	Heading string `json:"heading" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

type Reference struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
}

func (r *Reading) TextBlocks() []TextBlock {
	blocks := []TextBlock{{Path: "introduction", Text: r.Introduction}}
	for i, s := range r.Sections {
		blocks = append(blocks, TextBlock{Path: fmt.Sprintf("sections[%d].body", i), Text: s.Body})
	}
	for i, k := range r.KeyTakeaways {
		blocks = append(blocks, TextBlock{Path: fmt.Sprintf("key_takeaways[%d]", i), Text: k})
	}
	return blocks
}

func (r *Reading) Metadata() Metadata {
	wc := CountWordsAll(joinTexts(r.TextBlocks())...)
	return Metadata{
		WordCount:                wc,
		EstimatedDurationMinutes: EstimateReadingDuration(wc),
		Details: map[string]any{
			"section_count":   len(r.Sections),
			"reference_count": len(r.References),
		},
	}
}
