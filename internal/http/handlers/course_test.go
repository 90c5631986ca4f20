package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/standards"
	"github.com/yungbote/courseforge-backend/internal/services"
)

func courseRouter(svc *fakeCourses) *gin.Engine {
	r := newEngine()
	ch := NewCourseHandler(testLogger(), svc)
	lh := NewLessonHandler(svc)
	r.POST("/api/courses", ch.CreateCourse)
	r.PUT("/api/courses/:id/standards", ch.PutStandards)
	r.DELETE("/api/lessons/:id", lh.DeleteLesson)
	r.POST("/api/lessons/:id/activities", lh.AddActivity)
	return r
}

func TestCreateCourse(t *testing.T) {
	svc := &fakeCourses{create: func(in services.CreateCourseInput) (*types.Course, error) {
		if in.Title == "" {
			return nil, aggregates.Errorf(aggregates.CodeValidation, "services.CreateCourse", "title is required")
		}
		return &types.Course{ID: uuid.New(), Title: in.Title}, nil
	}}
	r := courseRouter(svc)

	rec := do(r, http.MethodPost, "/api/courses", map[string]any{"title": "Statistics"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	if c, _ := decode(t, rec)["course"].(map[string]any); c == nil {
		t.Fatalf("missing course in %s", rec.Body.String())
	}

	rec = do(r, http.MethodPost, "/api/courses", map[string]any{"description": "no title"})
	if rec.Code != http.StatusBadRequest || errorBody(t, rec)["code"] != "validation" {
		t.Fatalf("expected validation 400, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodPost, "/api/courses", "{not json")
	if rec.Code != http.StatusBadRequest || errorBody(t, rec)["code"] != "invalid_request" {
		t.Fatalf("expected invalid_request, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestPutStandardsPassesRawBody(t *testing.T) {
	var got string
	svc := &fakeCourses{putStandards: func(_ uuid.UUID, raw []byte) (*standards.Profile, error) {
		got = string(raw)
		if strings.Contains(got, "max_share: 2") {
			return nil, aggregates.Errorf(aggregates.CodeInvalidProfile, "standards.Parse", "shares out of range")
		}
		return &standards.Profile{Name: "strict", Version: 2}, nil
	}}
	r := courseRouter(svc)
	target := "/api/courses/" + uuid.NewString() + "/standards"

	rec := do(r, http.MethodPut, target, "name: strict\nversion: 2\n")
	if rec.Code != http.StatusOK || got != "name: strict\nversion: 2\n" {
		t.Fatalf("status %d raw %q", rec.Code, got)
	}

	rec = do(r, http.MethodPut, target, "answer_distribution:\n  max_share: 2\n")
	if rec.Code != http.StatusBadRequest || errorBody(t, rec)["code"] != "invalid_profile" {
		t.Fatalf("expected invalid_profile 400, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodPut, target, strings.Repeat("x", maxProfileBytes+1))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

func TestDeleteLesson(t *testing.T) {
	generating := uuid.New()
	svc := &fakeCourses{deleteLesson: func(id uuid.UUID) error {
		if id == generating {
			return aggregates.Errorf(aggregates.CodeConflict, "services.DeleteLesson", "activity is generating")
		}
		return nil
	}}
	r := courseRouter(svc)
	if rec := do(r, http.MethodDelete, "/api/lessons/"+uuid.NewString(), nil); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := do(r, http.MethodDelete, "/api/lessons/"+generating.String(), nil); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAddActivityStartsWithNoIssues(t *testing.T) {
	lessonID := uuid.New()
	svc := &fakeCourses{addActivity: func(id uuid.UUID, in services.CreateActivityInput) (*types.Activity, error) {
		if id != lessonID || in.ContentType != "reading" {
			t.Fatalf("unexpected input %s %+v", id, in)
		}
		return &types.Activity{ID: uuid.New(), LessonID: id, ContentType: types.ContentTypeReading, BuildState: types.BuildStateDraft}, nil
	}}
	rec := do(courseRouter(svc), http.MethodPost, "/api/lessons/"+lessonID.String()+"/activities",
		map[string]any{"title": "Intro", "content_type": "reading"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if issues, ok := body["validation_issues"].([]any); !ok || len(issues) != 0 {
		t.Fatalf("expected empty issues, got %v", body["validation_issues"])
	}
}
