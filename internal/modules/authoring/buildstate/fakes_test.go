package buildstate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/content"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/generation"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/standards"
)

// memStore serializes every mutation behind one mutex, standing in for the
// course lock plus transaction of the real store.
type memStore struct {
	mu      sync.Mutex
	owner   uuid.UUID
	course  *types.Course
	module  *types.CourseModule
	lesson  *types.Lesson
	acts    map[uuid.UUID]*types.Activity
	history map[uuid.UUID][]types.BuildState
	writes  int
}

func newMemStore() *memStore {
	owner := uuid.New()
	course := &types.Course{ID: uuid.New(), OwnerID: owner, Title: "Databases for Analysts"}
	module := &types.CourseModule{ID: uuid.New(), CourseID: course.ID, Title: "Query performance"}
	lesson := &types.Lesson{
		ID:                uuid.New(),
		CourseID:          course.ID,
		ModuleID:          module.ID,
		Title:             "Indexes",
		LearningObjective: "Explain when an index speeds up a query",
		BloomLevel:        types.BloomUnderstand,
	}
	return &memStore{
		owner:   owner,
		course:  course,
		module:  module,
		lesson:  lesson,
		acts:    map[uuid.UUID]*types.Activity{},
		history: map[uuid.UUID][]types.BuildState{},
	}
}

func (s *memStore) add(ct types.ContentType, at types.ActivityType, state types.BuildState, body []byte) *types.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := &types.Activity{
		ID:           uuid.New(),
		CourseID:     s.course.ID,
		LessonID:     s.lesson.ID,
		Title:        "Activity",
		ContentType:  ct,
		ActivityType: at,
		BuildState:   state,
		Content:      body,
		Version:      1,
	}
	s.acts[a.ID] = a
	s.history[a.ID] = []types.BuildState{state}
	return a.Clone()
}

func (s *memStore) get(id uuid.UUID) *types.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acts[id].Clone()
}

func (s *memStore) states(id uuid.UUID) []types.BuildState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.BuildState(nil), s.history[id]...)
}

func (s *memStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// force overwrites an activity outside the machine, as the stale sweeper would.
func (s *memStore) force(id uuid.UUID, fn func(a *types.Activity)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.acts[id]
	fn(a)
	a.Version++
	s.history[id] = append(s.history[id], a.BuildState)
}

func (s *memStore) LoadActivity(ctx context.Context, ownerID, activityID uuid.UUID) (*types.ActivityDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc(ownerID, activityID)
}

func (s *memStore) doc(ownerID, activityID uuid.UUID) (*types.ActivityDocument, error) {
	a, ok := s.acts[activityID]
	if !ok || ownerID != s.owner {
		return nil, aggregates.Errorf(aggregates.CodeNotFound, "memStore", "activity %s not found", activityID)
	}
	course := *s.course
	return &types.ActivityDocument{Course: &course, Module: s.module, Lesson: s.lesson, Activity: a.Clone()}, nil
}

func (s *memStore) MutateActivity(ctx context.Context, ownerID, activityID uuid.UUID, fn func(doc *types.ActivityDocument) error) (*types.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.doc(ownerID, activityID)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	next := doc.Activity.Clone()
	next.Version = s.acts[activityID].Version + 1
	s.acts[activityID] = next
	s.history[activityID] = append(s.history[activityID], next.BuildState)
	s.writes++
	return next.Clone(), nil
}

type dispatchFunc func(ct types.ContentType, at types.ActivityType) (generation.Generator, error)

func (f dispatchFunc) For(ct types.ContentType, at types.ActivityType) (generation.Generator, error) {
	return f(ct, at)
}

func only(g generation.Generator) generation.Dispatcher {
	return dispatchFunc(func(types.ContentType, types.ActivityType) (generation.Generator, error) {
		return g, nil
	})
}

// quizResult builds a successful generation result whose answer key is answers.
func quizResult(t *testing.T, answers string) generation.Result {
	t.Helper()
	q := &content.Quiz{Title: "Check your understanding", Instructions: "Pick one answer per question."}
	for i, a := range answers {
		q.Questions = append(q.Questions, content.Question{
			Stem: fmt.Sprintf("Question %d about index selectivity?", i+1),
			Options: []content.Option{
				{Letter: "A", Text: "A full table scan"},
				{Letter: "B", Text: "An index seek"},
				{Letter: "C", Text: "A hash join"},
				{Letter: "D", Text: "A sort"},
			},
			CorrectAnswer: string(a),
			Explanation:   "Selective predicates favour the index.",
		})
	}
	raw, err := content.Marshal(q)
	if err != nil {
		t.Fatalf("marshal quiz: %v", err)
	}
	return generation.Result{
		Body:     q,
		Content:  raw,
		Metadata: q.Metadata(),
		Model:    "gpt-test",
		PromptID: "quiz@v1",
		Attempts: 1,
	}
}

func quizJSON(t *testing.T, answers string) []byte {
	t.Helper()
	return quizResult(t, answers).Content
}

func staticGenerator(res generation.Result) generation.Generator {
	return generation.GeneratorFunc(func(context.Context, generation.Request) (generation.Result, error) {
		return res, nil
	})
}

func failingGenerator(code aggregates.ErrorCode) generation.Generator {
	return generation.GeneratorFunc(func(context.Context, generation.Request) (generation.Result, error) {
		return generation.Result{}, aggregates.AIError(code, "generation.Generate", "gpt-test", "quiz@v1", 3, fmt.Errorf("boom"))
	})
}

// gatedGenerator blocks inside the model call until release is closed.
type gatedGenerator struct {
	entered chan struct{}
	release chan struct{}
	res     generation.Result
	once    sync.Once
}

func newGatedGenerator(res generation.Result) *gatedGenerator {
	return &gatedGenerator{entered: make(chan struct{}), release: make(chan struct{}), res: res}
}

func (g *gatedGenerator) Generate(ctx context.Context, req generation.Request) (generation.Result, error) {
	g.once.Do(func() { close(g.entered) })
	select {
	case <-g.release:
		return g.res, nil
	case <-ctx.Done():
		return generation.Result{}, ctx.Err()
	}
}

func (g *gatedGenerator) waitEntered(t *testing.T) {
	t.Helper()
	select {
	case <-g.entered:
	case <-time.After(5 * time.Second):
		t.Fatalf("generator was never called")
	}
}

func defaultProfile(t *testing.T) *standards.Profile {
	t.Helper()
	p, err := standards.Default()
	if err != nil {
		t.Fatalf("default profile: %v", err)
	}
	return p
}

func newTestMachine(t *testing.T, store *memStore, gen generation.Generator) *Machine {
	t.Helper()
	return NewMachine(nil, store, only(gen), defaultProfile(t))
}

func mustCode(t *testing.T, err error, want aggregates.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := aggregates.CodeOf(err); got != want {
		t.Fatalf("expected code %s, got %s (%v)", want, got, err)
	}
}

func decodeMetadata(t *testing.T, raw []byte) content.Metadata {
	t.Helper()
	var m content.Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	return m
}
