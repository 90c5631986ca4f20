package content

import "fmt"

// AnswerLetters are the option labels, in order.
var AnswerLetters = []string{"A", "B", "C", "D"}

type Option struct {
	Letter string `json:"letter" validate:"required,oneof=A B C D"`
	Text   string `json:"text" validate:"required"`
}

type Question struct {
	Stem          string   `json:"stem" validate:"required"`
	Options       []Option `json:"options" validate:"len=4,dive"`
	CorrectAnswer string   `json:"correct_answer" validate:"required,oneof=A B C D"`
	Explanation   string   `json:"explanation" validate:"required"`
}

// Quiz serves both graded quizzes and practice quizzes.
type Quiz struct {
	Title        string     `json:"title" validate:"required"`
	Instructions string     `json:"instructions"`
	Questions    []Question `json:"questions" validate:"min=3,max=10,dive"`
}

func (q *Quiz) Check() []string {
	var problems []string
	for i, qu := range q.Questions {
		problems = append(problems, checkOptionLetters(fmt.Sprintf("questions[%d].options", i), qu.Options)...)
	}
	return problems
}

// AnswerKey returns the correct letter of each question in order.
func (q *Quiz) AnswerKey() []string {
	out := make([]string, 0, len(q.Questions))
	for _, qu := range q.Questions {
		out = append(out, qu.CorrectAnswer)
	}
	return out
}

func (q *Quiz) TextBlocks() []TextBlock {
	var blocks []TextBlock
	if q.Instructions != "" {
		blocks = append(blocks, TextBlock{Path: "instructions", Text: q.Instructions})
	}
	for i, qu := range q.Questions {
		blocks = append(blocks, TextBlock{Path: fmt.Sprintf("questions[%d].stem", i), Text: qu.Stem})
		for j, o := range qu.Options {
			blocks = append(blocks, TextBlock{Path: fmt.Sprintf("questions[%d].options[%d]", i, j), Text: o.Text})
		}
		blocks = append(blocks, TextBlock{Path: fmt.Sprintf("questions[%d].explanation", i), Text: qu.Explanation})
	}
	return blocks
}

func (q *Quiz) Metadata() Metadata {
	dist := map[string]int{}
	for _, l := range AnswerLetters {
		dist[l] = 0
	}
	for _, k := range q.AnswerKey() {
		dist[k]++
	}
	return Metadata{
		WordCount:                CountWordsAll(joinTexts(q.TextBlocks())...),
		EstimatedDurationMinutes: round2(float64(len(q.Questions)) * QuizMinutesPerQuestion),
		Details: map[string]any{
			"question_count":      len(q.Questions),
			"answer_distribution": dist,
		},
	}
}

// checkOptionLetters requires options labelled A, B, C, D in order.
func checkOptionLetters(path string, opts []Option) []string {
	if len(opts) != len(AnswerLetters) {
		return nil
	}
	for i, o := range opts {
		if o.Letter != AnswerLetters[i] {
			return []string{fmt.Sprintf("%s must be labelled A-D in order", path)}
		}
	}
	return nil
}
