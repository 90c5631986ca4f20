package generation

import (
	"sync"

	"github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/prompts"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

// Key selects a generator. An empty ActivityType is the fallback for the content type.
type Key struct {
	ContentType  types.ContentType
	ActivityType types.ActivityType
}

// Factory builds a generator from shared dependencies.
type Factory func(deps Deps) Generator

type Deps struct {
	Caller  *Caller
	Sources SourceFetcher
	Log     *logger.Logger
}

// Dispatcher resolves the generator for an activity.
type Dispatcher interface {
	For(ct types.ContentType, at types.ActivityType) (Generator, error)
}

type Registry struct {
	deps      Deps
	mu        sync.RWMutex
	factories map[Key]Factory
}

// PromptFactory returns a factory for the schema-backed generator of ct.
func PromptFactory(ct types.ContentType, name prompts.PromptName) Factory {
	return func(deps Deps) Generator {
		log := deps.Log
		if log == nil {
			log = logger.Nop()
		}
		return &structuredGenerator{
			contentType: ct,
			prompt:      name,
			caller:      deps.Caller,
			sources:     deps.Sources,
			log:         log.With("generator", string(name)),
		}
	}
}

// NewRegistry returns a registry with a generator for every content type.
func NewRegistry(deps Deps) *Registry {
	r := &Registry{deps: deps, factories: map[Key]Factory{}}
	defaults := map[Key]prompts.PromptName{
		{types.ContentTypeVideo, ""}:                        prompts.PromptVideoScript,
		{types.ContentTypeReading, ""}:                      prompts.PromptReading,
		{types.ContentTypeQuiz, ""}:                         prompts.PromptQuiz,
		{types.ContentTypeQuiz, types.ActivityTypePractice}: prompts.PromptPracticeQuiz,
		{types.ContentTypePracticeQuiz, ""}:                 prompts.PromptPracticeQuiz,
		{types.ContentTypeHOL, ""}:                          prompts.PromptHandsOnLesson,
		{types.ContentTypeLab, ""}:                          prompts.PromptLab,
		{types.ContentTypeCoach, ""}:                        prompts.PromptCoachDialogue,
		{types.ContentTypeDiscussion, ""}:                   prompts.PromptDiscussion,
		{types.ContentTypeAssignment, ""}:                   prompts.PromptAssignment,
		{types.ContentTypeProject, ""}:                      prompts.PromptProject,
		{types.ContentTypeRubric, ""}:                       prompts.PromptRubric,
	}
	for k, name := range defaults {
		r.factories[k] = PromptFactory(k.ContentType, name)
	}
	return r
}

// Register adds or replaces the factory for (ct, at).
func (r *Registry) Register(ct types.ContentType, at types.ActivityType, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[Key{ContentType: ct, ActivityType: at}] = f
}

func (r *Registry) For(ct types.ContentType, at types.ActivityType) (Generator, error) {
	r.mu.RLock()
	f, ok := r.factories[Key{ContentType: ct, ActivityType: at}]
	if !ok {
		f, ok = r.factories[Key{ContentType: ct}]
	}
	r.mu.RUnlock()
	if !ok || f == nil {
		return nil, aggregates.Errorf(aggregates.CodeValidation, "generation.For", "no generator for content type %q", ct)
	}
	return f(r.deps), nil
}
