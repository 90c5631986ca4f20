package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/courseforge-backend/internal/data/repos"
	"github.com/yungbote/courseforge-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/pkg/dbctx"
)

type spyHooks struct {
	ops       []string
	conflicts []string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.ops = append(h.ops, name+":"+status)
}
func (h *spyHooks) IncConflict(name string) { h.conflicts = append(h.conflicts, name) }

type seeded struct {
	store    CourseStore
	owner    uuid.UUID
	course   *types.Course
	activity *types.Activity
	hooks    *spyHooks
}

func seedStore(t *testing.T) seeded {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	hooks := &spyHooks{}
	store := NewCourseStore(BaseDeps{DB: db, Log: log, Hooks: hooks}, repos.NewSet(db, log))

	ctx := context.Background()
	owner := uuid.New()
	course, err := store.CreateCourse(ctx, &types.Course{OwnerID: owner, Title: "Data Engineering"})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	var act *types.Activity
	err = store.MutateCourse(ctx, owner, course.ID, func(dbc dbctx.Context, doc *types.CourseDocument) error {
		set := repos.NewSet(db, log)
		m := &types.CourseModule{CourseID: course.ID, Title: "M1"}
		if _, err := set.CourseModule.Create(dbc, []*types.CourseModule{m}); err != nil {
			return err
		}
		l := &types.Lesson{CourseID: course.ID, ModuleID: m.ID, Title: "L1"}
		if _, err := set.Lesson.Create(dbc, []*types.Lesson{l}); err != nil {
			return err
		}
		act = &types.Activity{CourseID: course.ID, LessonID: l.ID, Title: "Reading", ContentType: types.ContentTypeReading}
		_, err := set.Activity.Create(dbc, []*types.Activity{act})
		return err
	})
	if err != nil {
		t.Fatalf("seed tree: %v", err)
	}
	return seeded{store: store, owner: owner, course: course, activity: act, hooks: hooks}
}

func TestCourseStoreMutateActivityPersistsAndBumpsVersion(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	out, err := s.store.MutateActivity(ctx, s.owner, s.activity.ID, func(doc *types.ActivityDocument) error {
		doc.Activity.BuildState = types.BuildStateGenerating
		doc.Activity.PriorBuildState = types.BuildStateDraft
		return nil
	})
	if err != nil {
		t.Fatalf("MutateActivity: %v", err)
	}
	if out.Version != 2 || out.BuildState != types.BuildStateGenerating {
		t.Fatalf("unexpected result: version=%d state=%s", out.Version, out.BuildState)
	}

	doc, err := s.store.LoadActivity(ctx, s.owner, s.activity.ID)
	if err != nil {
		t.Fatalf("LoadActivity: %v", err)
	}
	if doc.Activity.BuildState != types.BuildStateGenerating || doc.Activity.Version != 2 {
		t.Fatalf("not persisted: %+v", doc.Activity)
	}
	if doc.Lesson == nil || doc.Course.ID != s.course.ID {
		t.Fatalf("document incomplete")
	}
}

func TestCourseStoreMutateActivityFailureWritesNothing(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	boom := domainagg.NewError(domainagg.CodeInvalidTransition, "test", "nope", nil)

	_, err := s.store.MutateActivity(ctx, s.owner, s.activity.ID, func(doc *types.ActivityDocument) error {
		doc.Activity.BuildState = types.BuildStatePublished
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error to surface, got %v", err)
	}
	doc, err := s.store.LoadActivity(ctx, s.owner, s.activity.ID)
	if err != nil {
		t.Fatalf("LoadActivity: %v", err)
	}
	if doc.Activity.BuildState != types.BuildStateDraft || doc.Activity.Version != 1 {
		t.Fatalf("failed mutation leaked: state=%s version=%d", doc.Activity.BuildState, doc.Activity.Version)
	}
}

func TestCourseStoreHidesForeignActivities(t *testing.T) {
	s := seedStore(t)
	_, err := s.store.LoadActivity(context.Background(), uuid.New(), s.activity.ID)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found for foreign owner, got %v", err)
	}
	_, err = s.store.MutateActivity(context.Background(), uuid.New(), s.activity.ID, func(*types.ActivityDocument) error { return nil })
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found on mutate, got %v", err)
	}
}

func TestCourseStoreResetStaleGenerating(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	started := time.Now().Add(-time.Hour).UTC()
	_, err := s.store.MutateActivity(ctx, s.owner, s.activity.ID, func(doc *types.ActivityDocument) error {
		doc.Activity.PriorBuildState = doc.Activity.BuildState
		doc.Activity.BuildState = types.BuildStateGenerating
		doc.Activity.GenerationStartedAt = &started
		return nil
	})
	if err != nil {
		t.Fatalf("mark generating: %v", err)
	}

	n, err := s.store.ResetStaleGenerating(ctx, time.Now().Add(-10*time.Minute).UTC())
	if err != nil || n != 1 {
		t.Fatalf("ResetStaleGenerating: n=%d err=%v", n, err)
	}
	doc, err := s.store.LoadActivity(ctx, s.owner, s.activity.ID)
	if err != nil {
		t.Fatalf("LoadActivity: %v", err)
	}
	if doc.Activity.BuildState != types.BuildStateDraft || doc.Activity.GenerationStartedAt != nil {
		t.Fatalf("expected DRAFT restored, got %s started=%v", doc.Activity.BuildState, doc.Activity.GenerationStartedAt)
	}
	if n, _ := s.store.ResetStaleGenerating(ctx, time.Now().UTC()); n != 0 {
		t.Fatalf("second sweep must be a no-op, got %d", n)
	}
}
