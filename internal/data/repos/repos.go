package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/courseforge-backend/internal/data/repos/authoring"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

type CourseRepo = authoring.CourseRepo
type CourseModuleRepo = authoring.CourseModuleRepo
type LessonRepo = authoring.LessonRepo
type ActivityRepo = authoring.ActivityRepo

// Set groups every table repo so stores and services share one construction point.
type Set struct {
	Course       CourseRepo
	CourseModule CourseModuleRepo
	Lesson       LessonRepo
	Activity     ActivityRepo
}

func NewSet(db *gorm.DB, log *logger.Logger) Set {
	return Set{
		Course:       authoring.NewCourseRepo(db, log),
		CourseModule: authoring.NewCourseModuleRepo(db, log),
		Lesson:       authoring.NewLessonRepo(db, log),
		Activity:     authoring.NewActivityRepo(db, log),
	}
}
