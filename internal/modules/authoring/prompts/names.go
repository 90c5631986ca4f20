package prompts

type PromptName string

const (
	PromptVideoScript   PromptName = "video_script"
	PromptReading       PromptName = "reading"
	PromptQuiz          PromptName = "quiz"
	PromptPracticeQuiz  PromptName = "practice_quiz"
	PromptHandsOnLesson PromptName = "hands_on_lesson"
	PromptLab           PromptName = "lab"
	PromptCoachDialogue PromptName = "coach_dialogue"
	PromptDiscussion    PromptName = "discussion"
	PromptAssignment    PromptName = "assignment"
	PromptProject       PromptName = "project"
	PromptRubric        PromptName = "rubric"
)
