package prompts

// contextBlock opens every user template.
const contextBlock = `
COURSE: {{.CourseTitle}}
MODULE: {{.ModuleTitle}}
LESSON: {{.LessonTitle}}
ACTIVITY TITLE: {{.ActivityTitle}}
LEARNING OBJECTIVE: {{.LearningObjective}}
{{if .BloomLevel}}BLOOM LEVEL: {{.BloomLevel}}
{{end}}{{if .Topic}}TOPIC: {{.Topic}}
{{end}}{{if .Difficulty}}DIFFICULTY: {{.Difficulty}}
{{end}}{{if .Audience}}AUDIENCE: {{.Audience}}
{{end}}{{if .Instructions}}AUTHOR INSTRUCTIONS: {{.Instructions}}
{{end}}`

// standaloneRule keeps activities reorderable.
const standaloneRule = `
- Never refer to other activities by position ("in the next video", "as we saw in the previous reading").`

const systemBase = `
You are an instructional designer writing one activity of a short professional online course.
Write in clear, direct, second-person prose for working adults.
Avoid filler phrases and cliches ("delve", "in today's fast-paced world", "it's important to note").
Return JSON only, matching the schema exactly.`

func objectiveRequired() Validator {
	return RequireAnyNonEmpty("learning objective or topic required",
		func(in Input) string { return in.LearningObjective },
		func(in Input) string { return in.Topic },
	)
}

func RegisterAll() {
	RegisterSpec(Spec{
		Name:       PromptVideoScript,
		Version:    1,
		SchemaName: "video_script",
		Schema:     VideoScriptSchema,
		System:     systemBase,
		User: contextBlock + `
Write a narrated video script of 3 to 8 minutes (about 450 to 1200 spoken words).

Structure:
- hook: a concrete situation or question that earns attention (25-100 words).
- objective: what the learner will be able to do after watching (15-75 words).
- content: 1 to 6 segments teaching the objective, each with a heading, the narration and a visual cue.
- ivq: one in-video multiple choice question with options A-D in order, the correct letter and feedback.
- summary: recap the key ideas (30-150 words).
- cta: invite the learner to apply the idea. Do not preview what comes next in the course.` + standaloneRule,
		Validators: []Validator{objectiveRequired()},
	})

	RegisterSpec(Spec{
		Name:       PromptReading,
		Version:    1,
		SchemaName: "reading",
		Schema:     ReadingSchema,
		System:     systemBase,
		User: contextBlock + `
Write a reading of 600 to 2500 words.

Structure:
- introduction framing why the topic matters to the learner.
- 2 to 8 sections with a heading and a body.
- 3 to 6 key takeaways.
- up to 10 references with a title and a full https URL. Prefer openly accessible sources.
- attribution: leave empty; it is filled in from the course standards.` + standaloneRule,
		Validators: []Validator{objectiveRequired()},
	})

	quizUser := contextBlock + `
Write {{if eq .ActivityType "practice"}}a low-stakes practice quiz{{else}}a graded quiz{{end}} of 3 to 10 multiple choice questions.

Rules:
- Each question has exactly four options labelled A, B, C, D in that order.
- Spread correct answers across A-D; no letter should be correct for more than about a third of the questions.
- Avoid patterns in the answer key (no ABCD cycles, no long streaks of the same letter).
- Each explanation says why the correct option is right and the most tempting distractor is wrong.
- Do not use "all of the above" or "none of the above".` + standaloneRule

	RegisterSpec(Spec{
		Name:       PromptQuiz,
		Version:    1,
		SchemaName: "quiz",
		Schema:     QuizSchema,
		System:     systemBase,
		User:       quizUser,
		Validators: []Validator{objectiveRequired()},
	})

	RegisterSpec(Spec{
		Name:       PromptPracticeQuiz,
		Version:    1,
		SchemaName: "quiz",
		Schema:     QuizSchema,
		System:     systemBase,
		User:       quizUser,
		Validators: []Validator{objectiveRequired()},
	})

	RegisterSpec(Spec{
		Name:       PromptHandsOnLesson,
		Version:    1,
		SchemaName: "hands_on_lesson",
		Schema:     HandsOnLessonSchema,
		System:     systemBase,
		User: contextBlock + `
Write a hands-on lesson built around one realistic scenario.

Structure:
- scenario: the workplace situation the learner is in.
- exactly 3 parts, each with a title, an objective and 1 to 10 steps.
- each step has an instruction, the expected result and an honest estimate in whole minutes (1-120).
- submission_instructions: what the learner hands in.` + standaloneRule,
		Validators: []Validator{objectiveRequired()},
	})

	RegisterSpec(Spec{
		Name:       PromptLab,
		Version:    1,
		SchemaName: "lab",
		Schema:     LabSchema,
		System:     systemBase,
		User: contextBlock + `
Write a guided lab.

Structure:
- overview of what the learner builds.
- setup: 1 to 10 preparation steps.
- tasks: 1 to 15 steps, each with an instruction, the expected result and an estimate in whole minutes (1-120).
- verification: how the learner confirms the lab works.` + standaloneRule,
		Validators: []Validator{objectiveRequired()},
	})

	RegisterSpec(Spec{
		Name:       PromptCoachDialogue,
		Version:    1,
		SchemaName: "coach_dialogue",
		Schema:     CoachDialogueSchema,
		System:     systemBase,
		User: contextBlock + `
Write a coaching dialogue that helps the learner reflect on and apply the objective.

Structure:
- goal of the conversation.
- opening_message from the coach.
- 3 to 6 prompts, each a question to the learner plus guidance for the coach on good answers.
- closing_reflection.` + standaloneRule,
		Validators: []Validator{objectiveRequired()},
	})

	RegisterSpec(Spec{
		Name:       PromptDiscussion,
		Version:    1,
		SchemaName: "discussion",
		Schema:     DiscussionSchema,
		System:     systemBase,
		User: contextBlock + `
Write a discussion prompt.

Structure:
- prompt: an open question grounded in the learner's own experience.
- 2 to 5 guiding questions.
- participation_guidelines, including how to respond to peers.
- min_response_words between 50 and 1000.` + standaloneRule,
		Validators: []Validator{objectiveRequired()},
	})

	RegisterSpec(Spec{
		Name:       PromptAssignment,
		Version:    1,
		SchemaName: "assignment",
		Schema:     AssignmentSchema,
		System:     systemBase,
		User: contextBlock + `
Write a graded assignment.

Structure:
- overview.
- 3 to 10 numbered instructions.
- 1 to 5 deliverables with a name, description and estimated effort in minutes (5-600).
- submission_format.` + standaloneRule,
		Validators: []Validator{objectiveRequired()},
	})

	RegisterSpec(Spec{
		Name:       PromptProject,
		Version:    1,
		SchemaName: "project",
		Schema:     ProjectSchema,
		System:     systemBase,
		User: contextBlock + `
Write a multi-step course project.

Structure:
- overview.
- 2 to 6 milestones with a title, description and estimated effort in minutes (5-1200).
- final_deliverable.` + standaloneRule,
		Validators: []Validator{objectiveRequired()},
	})

	RegisterSpec(Spec{
		Name:       PromptRubric,
		Version:    1,
		SchemaName: "rubric",
		Schema:     RubricSchema,
		System:     systemBase,
		User: contextBlock + `
Write a grading rubric.

Rules:
- 1 to 8 criteria, each with a distinct name and a description.
- each criterion has exactly 3 levels ordered from best to weakest, with strictly descending points (0-100).`,
		Validators: []Validator{objectiveRequired()},
	})
}
