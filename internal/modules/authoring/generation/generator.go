package generation

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/courseforge-backend/internal/domain/aggregates"

	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/content"
)

// Params are the author-supplied generation parameters stored on the activity.
type Params struct {
	Topic        string   `json:"topic,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Audience     string   `json:"audience,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	SourceURLs   []string `json:"source_urls,omitempty" validate:"max=5,dive,url"`
	// Model overrides the configured default model.
	Model string `json:"model,omitempty"`
}

// ParseParams decodes stored params; empty input yields zero Params.
func ParseParams(raw []byte) (Params, error) {
	var p Params
	if len(strings.TrimSpace(string(raw))) == 0 || string(raw) == "null" {
		return p, nil
	}
	err := json.Unmarshal(raw, &p)
	return p, err
}

var (
	paramsValidatorOnce sync.Once
	paramsValidator     *validator.Validate
)

// Validate rejects params the prompt and source fetcher cannot use.
func (p Params) Validate() error {
	paramsValidatorOnce.Do(func() {
		paramsValidator = validator.New()
	})
	if err := paramsValidator.Struct(p); err != nil {
		return aggregates.NewError(aggregates.CodeValidation, "generation.Params", "invalid generation params", err)
	}
	return nil
}

// Request carries everything one generation needs. Generators hold no state
// between calls.
type Request struct {
	CourseTitle string
	ModuleTitle string
	Lesson      *types.Lesson
	Activity    *types.Activity
	Params      Params

	// Regeneration only.
	Feedback        string
	PreviousContent []byte

	// Attribution is boilerplate to stamp on content types that carry one.
	Attribution string
}

type Result struct {
	Body     content.Body
	Content  []byte
	Metadata content.Metadata
	Model    string
	PromptID string
	Attempts int
}

// Generator produces one activity's structured content with one logical model
// call (retries of transient failures included).
type Generator interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (Result, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}
