package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/buildstate"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/generation"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/standards"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
	"github.com/yungbote/courseforge-backend/internal/services"
)

type fakeActivities struct {
	get        func(id uuid.UUID) (*buildstate.Outcome, error)
	generate   func(id uuid.UUID, params *generation.Params, force bool) (*buildstate.Outcome, error)
	regenerate func(id uuid.UUID, feedback string) (*buildstate.Outcome, error)
	edit       func(id uuid.UUID, patch json.RawMessage, revalidate bool) (*buildstate.Outcome, error)
	advance    func(id uuid.UUID, target types.BuildState) (*buildstate.Outcome, error)
	revalidate func(id uuid.UUID) (*buildstate.Outcome, error)
}

func (f *fakeActivities) Get(_ context.Context, id uuid.UUID) (*buildstate.Outcome, error) {
	return f.get(id)
}

func (f *fakeActivities) Generate(_ context.Context, id uuid.UUID, params *generation.Params, force bool) (*buildstate.Outcome, error) {
	return f.generate(id, params, force)
}

func (f *fakeActivities) Regenerate(_ context.Context, id uuid.UUID, feedback string) (*buildstate.Outcome, error) {
	return f.regenerate(id, feedback)
}

func (f *fakeActivities) Edit(_ context.Context, id uuid.UUID, patch json.RawMessage, revalidate bool) (*buildstate.Outcome, error) {
	return f.edit(id, patch, revalidate)
}

func (f *fakeActivities) Advance(_ context.Context, id uuid.UUID, target types.BuildState) (*buildstate.Outcome, error) {
	return f.advance(id, target)
}

func (f *fakeActivities) Revalidate(_ context.Context, id uuid.UUID) (*buildstate.Outcome, error) {
	return f.revalidate(id)
}

// fakeCourses embeds the interface so tests only implement what they call.
type fakeCourses struct {
	services.CourseService
	create       func(in services.CreateCourseInput) (*types.Course, error)
	putStandards func(id uuid.UUID, raw []byte) (*standards.Profile, error)
	deleteLesson func(id uuid.UUID) error
	addActivity  func(id uuid.UUID, in services.CreateActivityInput) (*types.Activity, error)
}

func (f *fakeCourses) CreateCourse(_ context.Context, in services.CreateCourseInput) (*types.Course, error) {
	return f.create(in)
}

func (f *fakeCourses) PutStandards(_ context.Context, id uuid.UUID, raw []byte) (*standards.Profile, error) {
	return f.putStandards(id, raw)
}

func (f *fakeCourses) DeleteLesson(_ context.Context, id uuid.UUID) error {
	return f.deleteLesson(id)
}

func (f *fakeCourses) AddActivity(_ context.Context, id uuid.UUID, in services.CreateActivityInput) (*types.Activity, error) {
	return f.addActivity(id, in)
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func do(r *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, target, &buf)
	if buf.Len() > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decode(t, rec)
	e, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	return e
}

func testLogger() *logger.Logger { return logger.Nop() }
