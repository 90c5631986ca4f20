package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	dataagg "github.com/yungbote/courseforge-backend/internal/data/aggregates"
	"github.com/yungbote/courseforge-backend/internal/data/repos"
	"github.com/yungbote/courseforge-backend/internal/data/repos/testutil"
	"github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/content"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/standards"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/validation"
	"github.com/yungbote/courseforge-backend/internal/platform/ctxutil"
)

type fixture struct {
	svc   CourseService
	store dataagg.CourseStore
	owner uuid.UUID
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	set := repos.NewSet(db, log)
	store := dataagg.NewCourseStore(dataagg.BaseDeps{DB: db, Log: log}, set)
	profile, err := standards.Default()
	if err != nil {
		t.Fatalf("default profile: %v", err)
	}
	owner := uuid.New()
	return &fixture{
		svc:   NewCourseService(log, store, set, profile),
		store: store,
		owner: owner,
		ctx:   ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{OwnerID: owner}),
	}
}

func (f *fixture) tree(t *testing.T) (*types.Course, *types.CourseModule, *types.Lesson) {
	t.Helper()
	course, err := f.svc.CreateCourse(f.ctx, CreateCourseInput{Title: "  SQL for Analysts "})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if course.Title != "SQL for Analysts" {
		t.Fatalf("expected trimmed title, got %q", course.Title)
	}
	module, err := f.svc.AddModule(f.ctx, course.ID, CreateModuleInput{Title: "Query performance"})
	if err != nil {
		t.Fatalf("AddModule: %v", err)
	}
	lesson, err := f.svc.AddLesson(f.ctx, module.ID, CreateLessonInput{Title: "Indexes", BloomLevel: "Understand"})
	if err != nil {
		t.Fatalf("AddLesson: %v", err)
	}
	return course, module, lesson
}

func TestCourseTreeLifecycle(t *testing.T) {
	f := newFixture(t)
	course, _, lesson := f.tree(t)

	act, err := f.svc.AddActivity(f.ctx, lesson.ID, CreateActivityInput{Title: "Check", ContentType: "quiz", ActivityType: "practice"})
	if err != nil {
		t.Fatalf("AddActivity: %v", err)
	}
	if act.BuildState != types.BuildStateDraft || act.HasContent() {
		t.Fatalf("new activities start as empty DRAFT, got %+v", act)
	}
	if _, err := f.svc.AddActivity(f.ctx, lesson.ID, CreateActivityInput{Title: "Odd", ContentType: "podcast"}); !aggregates.IsCode(err, aggregates.CodeValidation) {
		t.Fatalf("expected validation error for unknown content type, got %v", err)
	}

	doc, err := f.svc.GetCourse(f.ctx, course.ID)
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	if len(doc.Modules) != 1 || len(doc.Lessons) != 1 || len(doc.Activities) != 1 {
		t.Fatalf("unexpected tree: %d modules %d lessons %d activities", len(doc.Modules), len(doc.Lessons), len(doc.Activities))
	}
	if doc.Lessons[0].BloomLevel != types.BloomUnderstand {
		t.Fatalf("expected normalized bloom level, got %q", doc.Lessons[0].BloomLevel)
	}

	courses, err := f.svc.ListCourses(f.ctx)
	if err != nil || len(courses) != 1 {
		t.Fatalf("ListCourses: %d %v", len(courses), err)
	}

	if err := f.svc.DeleteLesson(f.ctx, lesson.ID); err != nil {
		t.Fatalf("DeleteLesson: %v", err)
	}
	doc, err = f.svc.GetCourse(f.ctx, course.ID)
	if err != nil {
		t.Fatalf("GetCourse after delete: %v", err)
	}
	if len(doc.Lessons) != 0 || len(doc.Activities) != 0 {
		t.Fatalf("expected lesson delete to cascade, got %d lessons %d activities", len(doc.Lessons), len(doc.Activities))
	}
}

func TestForeignOwnerSeesNothing(t *testing.T) {
	f := newFixture(t)
	course, module, lesson := f.tree(t)
	other := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{OwnerID: uuid.New()})

	if _, err := f.svc.GetCourse(other, course.ID); !aggregates.IsCode(err, aggregates.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if _, err := f.svc.AddLesson(other, module.ID, CreateLessonInput{Title: "x"}); !aggregates.IsCode(err, aggregates.CodeNotFound) {
		t.Fatalf("expected not_found adding to foreign module, got %v", err)
	}
	if err := f.svc.DeleteLesson(other, lesson.ID); !aggregates.IsCode(err, aggregates.CodeNotFound) {
		t.Fatalf("expected not_found deleting foreign lesson, got %v", err)
	}
	if _, err := f.svc.ListCourses(context.Background()); !aggregates.IsCode(err, aggregates.CodeValidation) {
		t.Fatalf("expected anonymous callers rejected, got %v", err)
	}
}

func TestDeleteLessonRefusesWhileGenerating(t *testing.T) {
	f := newFixture(t)
	_, _, lesson := f.tree(t)
	act, err := f.svc.AddActivity(f.ctx, lesson.ID, CreateActivityInput{Title: "Video", ContentType: "video"})
	if err != nil {
		t.Fatalf("AddActivity: %v", err)
	}
	if _, err := f.store.MutateActivity(f.ctx, f.owner, act.ID, func(doc *types.ActivityDocument) error {
		doc.Activity.PriorBuildState = doc.Activity.BuildState
		doc.Activity.BuildState = types.BuildStateGenerating
		return nil
	}); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := f.svc.DeleteLesson(f.ctx, lesson.ID); !aggregates.IsCode(err, aggregates.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestStandardsProfileRoundTrip(t *testing.T) {
	f := newFixture(t)
	course, _, _ := f.tree(t)

	p, err := f.svc.GetStandards(f.ctx, course.ID)
	if err != nil {
		t.Fatalf("GetStandards: %v", err)
	}
	if p.AnswerDistribution.MaxShare != 0.35 {
		t.Fatalf("expected default profile, got %+v", p.AnswerDistribution)
	}

	edited := *p
	edited.AnswerDistribution.MaxShare = 0.5
	edited.Name = "lenient"
	raw, err := edited.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if _, err := f.svc.PutStandards(f.ctx, course.ID, raw); err != nil {
		t.Fatalf("PutStandards: %v", err)
	}
	got, err := f.svc.GetStandards(f.ctx, course.ID)
	if err != nil {
		t.Fatalf("GetStandards after put: %v", err)
	}
	if got.Name != "lenient" || got.AnswerDistribution.MaxShare != 0.5 {
		t.Fatalf("expected stored profile, got %s %+v", got.Name, got.AnswerDistribution)
	}

	_, err = f.svc.PutStandards(f.ctx, course.ID, []byte(`{"answer_distribution":{"min_share":0.8,"max_share":0.2,"max_run":2}}`))
	if !aggregates.IsCode(err, aggregates.CodeInvalidProfile) {
		t.Fatalf("expected invalid_profile, got %v", err)
	}
}

func TestValidateCourseReportsActivityAndCourseIssues(t *testing.T) {
	f := newFixture(t)
	course, _, lesson := f.tree(t)

	skewed := quizBody("AAAAAABCDB")
	raw, err := content.Marshal(skewed)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	quiz, err := f.svc.AddActivity(f.ctx, lesson.ID, CreateActivityInput{Title: "Quiz", ContentType: "quiz"})
	if err != nil {
		t.Fatalf("AddActivity: %v", err)
	}
	if _, err := f.store.MutateActivity(f.ctx, f.owner, quiz.ID, func(doc *types.ActivityDocument) error {
		doc.Activity.Content = raw
		doc.Activity.BuildState = types.BuildStateGenerated
		return nil
	}); err != nil {
		t.Fatalf("store content: %v", err)
	}
	broken, err := f.svc.AddActivity(f.ctx, lesson.ID, CreateActivityInput{Title: "Broken", ContentType: "reading"})
	if err != nil {
		t.Fatalf("AddActivity: %v", err)
	}
	if _, err := f.store.MutateActivity(f.ctx, f.owner, broken.ID, func(doc *types.ActivityDocument) error {
		doc.Activity.Content = datatypes.JSON(`{"title":"only a title"}`)
		doc.Activity.BuildState = types.BuildStateGenerated
		return nil
	}); err != nil {
		t.Fatalf("store content: %v", err)
	}
	for i := 0; i < 4; i++ {
		if _, err := f.svc.AddActivity(f.ctx, lesson.ID, CreateActivityInput{Title: fmt.Sprintf("Empty %d", i), ContentType: "quiz"}); err != nil {
			t.Fatalf("AddActivity: %v", err)
		}
	}

	report, err := f.svc.ValidateCourse(f.ctx, course.ID)
	if err != nil {
		t.Fatalf("ValidateCourse: %v", err)
	}
	if len(report.Activities) != 6 {
		t.Fatalf("expected every activity reported, got %d", len(report.Activities))
	}
	byID := map[uuid.UUID]ActivityReport{}
	for _, r := range report.Activities {
		byID[r.ActivityID] = r
	}
	if !hasRule(byID[quiz.ID].Issues, validation.RuleAnswerDistribution) {
		t.Fatalf("expected distribution issue on quiz, got %+v", byID[quiz.ID].Issues)
	}
	if !hasRule(byID[broken.ID].Issues, validation.RuleStructure) {
		t.Fatalf("expected structure issue on broken reading, got %+v", byID[broken.ID].Issues)
	}
	if !hasRule(report.CourseIssues, validation.RuleContentTypeMix) {
		t.Fatalf("expected content mix issue for a quiz-heavy course, got %+v", report.CourseIssues)
	}
	if report.Counts[validation.SeverityError] == 0 {
		t.Fatalf("expected error count from the broken reading, got %+v", report.Counts)
	}
}

func quizBody(answers string) *content.Quiz {
	q := &content.Quiz{Title: "Check your understanding"}
	for i, a := range answers {
		q.Questions = append(q.Questions, content.Question{
			Stem: fmt.Sprintf("Question %d?", i+1),
			Options: []content.Option{
				{Letter: "A", Text: "one"},
				{Letter: "B", Text: "two"},
				{Letter: "C", Text: "three"},
				{Letter: "D", Text: "four"},
			},
			CorrectAnswer: string(a),
			Explanation:   "Because.",
		})
	}
	return q
}

func hasRule(issues []validation.Issue, rule string) bool {
	for _, is := range issues {
		if is.RuleID == rule {
			return true
		}
	}
	return false
}
