package aggregates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/courseforge-backend/internal/data/repos"
	domainagg "github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/pkg/dbctx"
)

// CourseStore is the persistence boundary for authoring. Every mutation runs
// under the owning course's lock and inside one transaction.
type CourseStore interface {
	CreateCourse(ctx context.Context, course *types.Course) (*types.Course, error)
	ListCourses(ctx context.Context, ownerID uuid.UUID) ([]*types.Course, error)
	Load(ctx context.Context, ownerID, courseID uuid.UUID) (*types.CourseDocument, error)
	LoadActivity(ctx context.Context, ownerID, activityID uuid.UUID) (*types.ActivityDocument, error)

	// MutateCourse loads the course tree and runs fn with the transaction so fn
	// can create or delete rows through the repos.
	MutateCourse(ctx context.Context, ownerID, courseID uuid.UUID, fn func(dbc dbctx.Context, doc *types.CourseDocument) error) error
	// MutateActivity runs fn against a private copy of the activity and persists
	// the result with a version compare-and-set. Nothing is written when fn fails.
	MutateActivity(ctx context.Context, ownerID, activityID uuid.UUID, fn func(doc *types.ActivityDocument) error) (*types.Activity, error)

	ResetStaleGenerating(ctx context.Context, startedBefore time.Time) (int, error)
}

type courseStore struct {
	deps  BaseDeps
	repos repos.Set
}

func NewCourseStore(deps BaseDeps, set repos.Set) CourseStore {
	return &courseStore{deps: deps.withDefaults(), repos: set}
}

func (s *courseStore) read(ctx context.Context) dbctx.Context {
	return dbctx.Context{Ctx: ctx}
}

func (s *courseStore) CreateCourse(ctx context.Context, course *types.Course) (*types.Course, error) {
	if course == nil || course.OwnerID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, "course_store.create_course", "owner is required", nil)
	}
	err := executeWrite(ctx, s.deps, "course_store.create_course", func(dbc dbctx.Context) error {
		_, err := s.repos.Course.Create(dbc, []*types.Course{course})
		return err
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseStore) ListCourses(ctx context.Context, ownerID uuid.UUID) ([]*types.Course, error) {
	rows, err := s.repos.Course.ListByOwner(s.read(ctx), ownerID)
	return rows, MapError("course_store.list_courses", err)
}

func (s *courseStore) Load(ctx context.Context, ownerID, courseID uuid.UUID) (*types.CourseDocument, error) {
	doc, err := s.loadDocument(s.read(ctx), ownerID, courseID)
	return doc, MapError("course_store.load", err)
}

func (s *courseStore) loadDocument(dbc dbctx.Context, ownerID, courseID uuid.UUID) (*types.CourseDocument, error) {
	course, err := s.repos.Course.GetByOwnerAndID(dbc, ownerID, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, NotFoundError(fmt.Sprintf("course %s not found", courseID))
	}
	modules, err := s.repos.CourseModule.ListByCourse(dbc, courseID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.repos.Lesson.ListByCourse(dbc, courseID)
	if err != nil {
		return nil, err
	}
	activities, err := s.repos.Activity.ListByCourse(dbc, courseID)
	if err != nil {
		return nil, err
	}
	return &types.CourseDocument{Course: course, Modules: modules, Lessons: lessons, Activities: activities}, nil
}

func (s *courseStore) LoadActivity(ctx context.Context, ownerID, activityID uuid.UUID) (*types.ActivityDocument, error) {
	doc, err := s.loadActivity(s.read(ctx), ownerID, activityID)
	return doc, MapError("course_store.load_activity", err)
}

func (s *courseStore) loadActivity(dbc dbctx.Context, ownerID, activityID uuid.UUID) (*types.ActivityDocument, error) {
	act, err := s.repos.Activity.GetByID(dbc, activityID)
	if err != nil {
		return nil, err
	}
	if act == nil {
		return nil, NotFoundError(fmt.Sprintf("activity %s not found", activityID))
	}
	course, err := s.repos.Course.GetByOwnerAndID(dbc, ownerID, act.CourseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		// Foreign-owned activities are indistinguishable from missing ones.
		return nil, NotFoundError(fmt.Sprintf("activity %s not found", activityID))
	}
	lesson, err := s.repos.Lesson.GetByID(dbc, act.LessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, NotFoundError(fmt.Sprintf("lesson %s not found", act.LessonID))
	}
	module, err := s.repos.CourseModule.GetByID(dbc, lesson.ModuleID)
	if err != nil {
		return nil, err
	}
	return &types.ActivityDocument{Course: course, Module: module, Lesson: lesson, Activity: act}, nil
}

func (s *courseStore) MutateCourse(ctx context.Context, ownerID, courseID uuid.UUID, fn func(dbc dbctx.Context, doc *types.CourseDocument) error) error {
	const op = "course_store.mutate_course"
	return withLock(ctx, s.deps, op, courseLockKey(courseID.String()), func() error {
		return executeWrite(ctx, s.deps, op, func(dbc dbctx.Context) error {
			doc, err := s.loadDocument(dbc, ownerID, courseID)
			if err != nil {
				return err
			}
			return fn(dbc, doc)
		})
	})
}

func (s *courseStore) MutateActivity(ctx context.Context, ownerID, activityID uuid.UUID, fn func(doc *types.ActivityDocument) error) (*types.Activity, error) {
	const op = "course_store.mutate_activity"
	// Resolve the course first so the lock key is known before the transaction opens.
	probe, err := s.repos.Activity.GetByID(s.read(ctx), activityID)
	if err != nil {
		return nil, MapError(op, err)
	}
	if probe == nil {
		return nil, MapError(op, NotFoundError(fmt.Sprintf("activity %s not found", activityID)))
	}

	var out *types.Activity
	err = withLock(ctx, s.deps, op, courseLockKey(probe.CourseID.String()), func() error {
		return executeWrite(ctx, s.deps, op, func(dbc dbctx.Context) error {
			doc, err := s.loadActivity(dbc, ownerID, activityID)
			if err != nil {
				return err
			}
			expected := doc.Activity.Version
			doc.Activity = doc.Activity.Clone()
			if err := fn(doc); err != nil {
				return err
			}
			now := time.Now().UTC()
			ok, err := s.deps.CASGuard.UpdateByVersion(dbc, types.Activity{}.TableName(), activityID, expected, activityUpdates(doc.Activity, now))
			if err != nil {
				return err
			}
			if err := RequireCASSuccess(ok, "activity changed concurrently"); err != nil {
				return err
			}
			doc.Activity.Version = expected + 1
			doc.Activity.UpdatedAt = now
			out = doc.Activity
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func activityUpdates(a *types.Activity, now time.Time) map[string]any {
	return map[string]any{
		"title":                 a.Title,
		"build_state":           a.BuildState,
		"prior_build_state":     a.PriorBuildState,
		"content":               a.Content,
		"metadata":              a.Metadata,
		"validation_issues":     a.ValidationIssues,
		"previous_content":      a.PreviousContent,
		"generation_params":     a.GenerationParams,
		"last_error":            a.LastError,
		"last_model":            a.LastModel,
		"last_prompt_id":        a.LastPromptID,
		"generation_started_at": a.GenerationStartedAt,
		"updated_at":            now,
	}
}

// ResetStaleGenerating restores activities left in GENERATING by a crashed or
// abandoned generation to the state they held before it started.
func (s *courseStore) ResetStaleGenerating(ctx context.Context, startedBefore time.Time) (int, error) {
	const op = "course_store.reset_stale_generating"
	stale, err := s.repos.Activity.ListStaleGenerating(s.read(ctx), startedBefore)
	if err != nil {
		return 0, MapError(op, err)
	}
	reset := 0
	for _, act := range stale {
		restore := act.PriorBuildState
		if !restore.Valid() || restore == types.BuildStateGenerating {
			restore = types.BuildStateDraft
		}
		if restore == types.BuildStateDraft && act.HasContent() {
			restore = types.BuildStateGenerated
		}
		var applied bool
		err := withLock(ctx, s.deps, op, courseLockKey(act.CourseID.String()), func() error {
			return executeWrite(ctx, s.deps, op, func(dbc dbctx.Context) error {
				ok, err := s.deps.CASGuard.UpdateByVersion(dbc, types.Activity{}.TableName(), act.ID, act.Version, map[string]any{
					"build_state":           restore,
					"generation_started_at": gorm.Expr("NULL"),
					"last_error":            "generation abandoned before completion",
					"updated_at":            time.Now().UTC(),
				})
				applied = ok
				return err
			})
		})
		if err != nil {
			s.deps.Log.Warn("stale generation reset failed", "activity_id", act.ID, "error", err)
			continue
		}
		if applied {
			reset++
			s.deps.Log.Info("stale generation reset", "activity_id", act.ID, "restored_state", restore)
		}
	}
	return reset, nil
}
