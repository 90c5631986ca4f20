package prompts

func scriptSectionSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"heading":    StringSchema(),
		"script":     StringSchema(),
		"visual_cue": StringSchema(),
	})
}

func VideoScriptSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"title":     StringSchema(),
		"hook":      scriptSectionSchema(),
		"objective": scriptSectionSchema(),
		"content":   ArraySchema(scriptSectionSchema(), 1, 6),
		"ivq": ObjectSchema(map[string]any{
			"question":       StringSchema(),
			"options":        ArraySchema(optionSchema(), 4, 4),
			"correct_answer": letterSchema(),
			"feedback":       StringSchema(),
		}),
		"summary": scriptSectionSchema(),
		"cta":     scriptSectionSchema(),
	})
}

func ReadingSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"title":        StringSchema(),
		"introduction": StringSchema(),
		"sections": ArraySchema(ObjectSchema(map[string]any{
			"heading": StringSchema(),
			"body":    StringSchema(),
		}), 2, 8),
		"key_takeaways": StringArraySchema(3, 6),
		"references": ArraySchema(ObjectSchema(map[string]any{
			"title": StringSchema(),
			"url":   StringSchema(),
		}), 0, 10),
		"attribution": StringSchema(),
	})
}

func QuizSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"title":        StringSchema(),
		"instructions": StringSchema(),
		"questions": ArraySchema(ObjectSchema(map[string]any{
			"stem":           StringSchema(),
			"options":        ArraySchema(optionSchema(), 4, 4),
			"correct_answer": letterSchema(),
			"explanation":    StringSchema(),
		}), 3, 10),
	})
}

func HandsOnLessonSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"title":    StringSchema(),
		"scenario": StringSchema(),
		"parts": ArraySchema(ObjectSchema(map[string]any{
			"title":     StringSchema(),
			"objective": StringSchema(),
			"steps":     ArraySchema(stepSchema(), 1, 10),
		}), 3, 3),
		"submission_instructions": StringSchema(),
	})
}

func LabSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"title":        StringSchema(),
		"overview":     StringSchema(),
		"setup":        StringArraySchema(1, 10),
		"tasks":        ArraySchema(stepSchema(), 1, 15),
		"verification": StringSchema(),
	})
}

func CoachDialogueSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"title":           StringSchema(),
		"goal":            StringSchema(),
		"opening_message": StringSchema(),
		"prompts": ArraySchema(ObjectSchema(map[string]any{
			"question": StringSchema(),
			"guidance": StringSchema(),
		}), 3, 6),
		"closing_reflection": StringSchema(),
	})
}

func DiscussionSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"title":                    StringSchema(),
		"prompt":                   StringSchema(),
		"guiding_questions":        StringArraySchema(2, 5),
		"participation_guidelines": StringSchema(),
		"min_response_words":       IntSchema(),
	})
}

func AssignmentSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"title":        StringSchema(),
		"overview":     StringSchema(),
		"instructions": StringArraySchema(3, 10),
		"deliverables": ArraySchema(ObjectSchema(map[string]any{
			"name":              StringSchema(),
			"description":       StringSchema(),
			"estimated_minutes": IntSchema(),
		}), 1, 5),
		"submission_format": StringSchema(),
	})
}

func ProjectSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"title":    StringSchema(),
		"overview": StringSchema(),
		"milestones": ArraySchema(ObjectSchema(map[string]any{
			"title":             StringSchema(),
			"description":       StringSchema(),
			"estimated_minutes": IntSchema(),
		}), 2, 6),
		"final_deliverable": StringSchema(),
	})
}

func RubricSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"title": StringSchema(),
		"criteria": ArraySchema(ObjectSchema(map[string]any{
			"name":        StringSchema(),
			"description": StringSchema(),
			"levels": ArraySchema(ObjectSchema(map[string]any{
				"label":       StringSchema(),
				"points":      IntSchema(),
				"description": StringSchema(),
			}), 3, 3),
		}), 1, 8),
	})
}
