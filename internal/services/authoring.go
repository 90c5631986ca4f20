package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	dataagg "github.com/yungbote/courseforge-backend/internal/data/aggregates"
	"github.com/yungbote/courseforge-backend/internal/data/repos"
	"github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/standards"
	"github.com/yungbote/courseforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseforge-backend/internal/platform/ctxutil"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

type CreateCourseInput struct {
	Title       string `json:"title" validate:"required,max=300"`
	Description string `json:"description" validate:"max=5000"`
}

type CreateModuleInput struct {
	Title string `json:"title" validate:"required,max=300"`
}

type CreateLessonInput struct {
	Title             string `json:"title" validate:"required,max=300"`
	LearningObjective string `json:"learning_objective" validate:"max=2000"`
	BloomLevel        string `json:"bloom_level"`
}

type CreateActivityInput struct {
	Title        string `json:"title" validate:"required,max=300"`
	ContentType  string `json:"content_type" validate:"required"`
	ActivityType string `json:"activity_type"`
}

// CourseService owns the course tree: courses, modules, lessons and DRAFT
// activities. Build-state changes go through the build-state machine.
type CourseService interface {
	CreateCourse(ctx context.Context, in CreateCourseInput) (*types.Course, error)
	ListCourses(ctx context.Context) ([]*types.Course, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*types.CourseDocument, error)

	GetStandards(ctx context.Context, courseID uuid.UUID) (*standards.Profile, error)
	PutStandards(ctx context.Context, courseID uuid.UUID, raw []byte) (*standards.Profile, error)

	AddModule(ctx context.Context, courseID uuid.UUID, in CreateModuleInput) (*types.CourseModule, error)
	AddLesson(ctx context.Context, moduleID uuid.UUID, in CreateLessonInput) (*types.Lesson, error)
	DeleteLesson(ctx context.Context, lessonID uuid.UUID) error
	AddActivity(ctx context.Context, lessonID uuid.UUID, in CreateActivityInput) (*types.Activity, error)

	ValidateCourse(ctx context.Context, courseID uuid.UUID) (*CourseReport, error)
}

type courseService struct {
	log            *logger.Logger
	store          dataagg.CourseStore
	repos          repos.Set
	defaultProfile *standards.Profile
	validateLimit  int
}

func NewCourseService(baseLog *logger.Logger, store dataagg.CourseStore, set repos.Set, defaultProfile *standards.Profile) CourseService {
	return &courseService{
		log:            baseLog.With("service", "CourseService"),
		store:          store,
		repos:          set,
		defaultProfile: defaultProfile,
		validateLimit:  8,
	}
}

func ownerFrom(ctx context.Context, op string) (uuid.UUID, error) {
	owner := ctxutil.OwnerID(ctx)
	if owner == uuid.Nil {
		return uuid.Nil, aggregates.Errorf(aggregates.CodeValidation, op, "owner is required")
	}
	return owner, nil
}

func (s *courseService) CreateCourse(ctx context.Context, in CreateCourseInput) (*types.Course, error) {
	const op = "services.CreateCourse"
	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return nil, err
	}
	if err := validateInput(op, in); err != nil {
		return nil, err
	}
	course, err := s.store.CreateCourse(ctx, &types.Course{
		OwnerID:     owner,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
	})
	if err != nil {
		s.log.Warn("create course failed", "error", err)
		return nil, err
	}
	s.log.Info("course created", "course_id", course.ID)
	return course, nil
}

func (s *courseService) ListCourses(ctx context.Context) ([]*types.Course, error) {
	owner, err := ownerFrom(ctx, "services.ListCourses")
	if err != nil {
		return nil, err
	}
	return s.store.ListCourses(ctx, owner)
}

func (s *courseService) GetCourse(ctx context.Context, courseID uuid.UUID) (*types.CourseDocument, error) {
	owner, err := ownerFrom(ctx, "services.GetCourse")
	if err != nil {
		return nil, err
	}
	return s.store.Load(ctx, owner, courseID)
}

func (s *courseService) GetStandards(ctx context.Context, courseID uuid.UUID) (*standards.Profile, error) {
	doc, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return standards.Resolve(doc.Course.StandardsProfile, s.defaultProfile)
}

// PutStandards replaces the course profile. Stored issues are left as they
// are; they refresh on the next generation or explicit validation.
func (s *courseService) PutStandards(ctx context.Context, courseID uuid.UUID, raw []byte) (*standards.Profile, error) {
	const op = "services.PutStandards"
	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return nil, err
	}
	profile, err := standards.Parse(raw)
	if err != nil {
		return nil, err
	}
	encoded, err := profile.JSON()
	if err != nil {
		return nil, aggregates.Wrap(aggregates.CodeInternal, op, err)
	}
	err = s.store.MutateCourse(ctx, owner, courseID, func(dbc dbctx.Context, doc *types.CourseDocument) error {
		return s.repos.Course.UpdateFields(dbc, doc.Course.ID, map[string]interface{}{
			"standards_profile": datatypes.JSON(encoded),
		})
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("standards profile replaced", "course_id", courseID, "profile", profile.Name, "version", profile.Version)
	return profile, nil
}

func (s *courseService) AddModule(ctx context.Context, courseID uuid.UUID, in CreateModuleInput) (*types.CourseModule, error) {
	const op = "services.AddModule"
	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return nil, err
	}
	if err := validateInput(op, in); err != nil {
		return nil, err
	}
	var created *types.CourseModule
	err = s.store.MutateCourse(ctx, owner, courseID, func(dbc dbctx.Context, doc *types.CourseDocument) error {
		pos, err := s.repos.CourseModule.NextPosition(dbc, courseID)
		if err != nil {
			return err
		}
		row := &types.CourseModule{CourseID: courseID, Position: pos, Title: strings.TrimSpace(in.Title)}
		if _, err := s.repos.CourseModule.Create(dbc, []*types.CourseModule{row}); err != nil {
			return err
		}
		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *courseService) AddLesson(ctx context.Context, moduleID uuid.UUID, in CreateLessonInput) (*types.Lesson, error) {
	const op = "services.AddLesson"
	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return nil, err
	}
	if err := validateInput(op, in); err != nil {
		return nil, err
	}
	bloom := types.BloomLevel("")
	if strings.TrimSpace(in.BloomLevel) != "" {
		b, ok := types.ParseBloomLevel(in.BloomLevel)
		if !ok {
			return nil, aggregates.Errorf(aggregates.CodeValidation, op, "unknown bloom level %q", in.BloomLevel)
		}
		bloom = b
	}
	module, err := s.repos.CourseModule.GetByID(dbctx.Context{Ctx: ctx}, moduleID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if module == nil {
		return nil, aggregates.Errorf(aggregates.CodeNotFound, op, "module %s not found", moduleID)
	}

	var created *types.Lesson
	err = s.store.MutateCourse(ctx, owner, module.CourseID, func(dbc dbctx.Context, doc *types.CourseDocument) error {
		pos, err := s.repos.Lesson.NextPosition(dbc, moduleID)
		if err != nil {
			return err
		}
		row := &types.Lesson{
			CourseID:          module.CourseID,
			ModuleID:          moduleID,
			Position:          pos,
			Title:             strings.TrimSpace(in.Title),
			LearningObjective: strings.TrimSpace(in.LearningObjective),
			BloomLevel:        bloom,
		}
		if _, err := s.repos.Lesson.Create(dbc, []*types.Lesson{row}); err != nil {
			return err
		}
		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteLesson soft-deletes a lesson and its activities in one transaction.
// It refuses while any of those activities is generating.
func (s *courseService) DeleteLesson(ctx context.Context, lessonID uuid.UUID) error {
	const op = "services.DeleteLesson"
	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return err
	}
	lesson, err := s.repos.Lesson.GetByID(dbctx.Context{Ctx: ctx}, lessonID)
	if err != nil {
		return dataagg.MapError(op, err)
	}
	if lesson == nil {
		return aggregates.Errorf(aggregates.CodeNotFound, op, "lesson %s not found", lessonID)
	}
	err = s.store.MutateCourse(ctx, owner, lesson.CourseID, func(dbc dbctx.Context, doc *types.CourseDocument) error {
		for _, a := range doc.Activities {
			if a.LessonID == lessonID && a.BuildState == types.BuildStateGenerating {
				return aggregates.Errorf(aggregates.CodeConflict, op, "activity %s is generating", a.ID)
			}
		}
		if err := s.repos.Activity.SoftDeleteByLessonIDs(dbc, []uuid.UUID{lessonID}); err != nil {
			return err
		}
		return s.repos.Lesson.SoftDeleteByIDs(dbc, []uuid.UUID{lessonID})
	})
	if err != nil {
		return err
	}
	s.log.Info("lesson deleted", "lesson_id", lessonID, "course_id", lesson.CourseID)
	return nil
}

func (s *courseService) AddActivity(ctx context.Context, lessonID uuid.UUID, in CreateActivityInput) (*types.Activity, error) {
	const op = "services.AddActivity"
	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return nil, err
	}
	if err := validateInput(op, in); err != nil {
		return nil, err
	}
	ct, ok := types.ParseContentType(in.ContentType)
	if !ok {
		return nil, aggregates.Errorf(aggregates.CodeValidation, op, "unknown content type %q", in.ContentType)
	}
	at, ok := types.ParseActivityType(in.ActivityType)
	if !ok {
		return nil, aggregates.Errorf(aggregates.CodeValidation, op, "unknown activity type %q", in.ActivityType)
	}
	lesson, err := s.repos.Lesson.GetByID(dbctx.Context{Ctx: ctx}, lessonID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if lesson == nil {
		return nil, aggregates.Errorf(aggregates.CodeNotFound, op, "lesson %s not found", lessonID)
	}

	var created *types.Activity
	err = s.store.MutateCourse(ctx, owner, lesson.CourseID, func(dbc dbctx.Context, doc *types.CourseDocument) error {
		pos, err := s.repos.Activity.NextPosition(dbc, lessonID)
		if err != nil {
			return err
		}
		row := &types.Activity{
			CourseID:     lesson.CourseID,
			LessonID:     lessonID,
			Position:     pos,
			Title:        strings.TrimSpace(in.Title),
			ContentType:  ct,
			ActivityType: at,
			BuildState:   types.BuildStateDraft,
		}
		if _, err := s.repos.Activity.Create(dbc, []*types.Activity{row}); err != nil {
			return err
		}
		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
