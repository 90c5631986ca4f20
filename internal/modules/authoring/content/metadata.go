package content

import (
	"math"
	"strings"
)

const (
	// ReadingWordsPerMinute is the adult silent-reading rate used for text content.
	ReadingWordsPerMinute = 238
	// SpeakingWordsPerMinute is the narration rate used for video scripts.
	SpeakingWordsPerMinute = 150
	// QuizMinutesPerQuestion is the per-question allowance for quizzes.
	QuizMinutesPerQuestion = 1.5
	// CoachMinutesPerPrompt is the allowance per coaching dialogue prompt.
	CoachMinutesPerPrompt = 3
	// DiscussionComposeMinutes is the allowance for writing a discussion post.
	DiscussionComposeMinutes = 15
)

// Metadata is always derived from content on our side, never taken from the model.
type Metadata struct {
	WordCount                int            `json:"word_count"`
	EstimatedDurationMinutes float64        `json:"estimated_duration_minutes"`
	Details                  map[string]any `json:"details,omitempty"`
}

// CountWords counts whitespace-separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CountWordsAll counts words across several texts.
func CountWordsAll(texts ...string) int {
	n := 0
	for _, t := range texts {
		n += CountWords(t)
	}
	return n
}

// EstimateDuration converts a word count to minutes at wpm, rounded to two decimals.
func EstimateDuration(wordCount, wpm int) float64 {
	if wordCount <= 0 || wpm <= 0 {
		return 0
	}
	return round2(float64(wordCount) / float64(wpm))
}

func EstimateReadingDuration(wordCount int) float64 {
	return EstimateDuration(wordCount, ReadingWordsPerMinute)
}

func EstimateVideoDuration(wordCount int) float64 {
	return EstimateDuration(wordCount, SpeakingWordsPerMinute)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
