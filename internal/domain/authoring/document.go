package authoring

// CourseDocument is a course with its full ordered tree.
type CourseDocument struct {
	Course     *Course
	Modules    []*CourseModule
	Lessons    []*Lesson
	Activities []*Activity
}

// LessonsByModule groups lessons preserving order.
func (d *CourseDocument) LessonsByModule() map[string][]*Lesson {
	out := map[string][]*Lesson{}
	if d == nil {
		return out
	}
	for _, l := range d.Lessons {
		out[l.ModuleID.String()] = append(out[l.ModuleID.String()], l)
	}
	return out
}

// ActivityDocument is one activity loaded together with its owning course and lesson.
// Module may be nil if the module row was removed underneath the lesson.
type ActivityDocument struct {
	Course   *Course
	Module   *CourseModule
	Lesson   *Lesson
	Activity *Activity
}
