package prompts

// Input is a superset of all fields any prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	// Course placement
	CourseTitle  string
	ModuleTitle  string
	LessonTitle  string
	ActivityType string

	// Author parameters
	ActivityTitle     string
	LearningObjective string
	BloomLevel        string
	Topic             string
	Difficulty        string
	Audience          string
	Instructions      string

	// Readable text of the author's reference URLs, one block per source.
	SourcesText string

	// Regeneration
	PreviousContentJSON string
	Feedback            string
}
