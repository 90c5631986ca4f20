package generation

import (
	"context"
	"strings"

	"github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/content"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/prompts"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

// structuredGenerator renders a fixed prompt, calls the model once (with
// transient retries) and strictly decodes the output into the content body.
type structuredGenerator struct {
	contentType types.ContentType
	prompt      prompts.PromptName
	caller      *Caller
	sources     SourceFetcher
	log         *logger.Logger
}

func (g *structuredGenerator) Generate(ctx context.Context, req Request) (Result, error) {
	const op = "generation.Generate"
	if req.Activity == nil {
		return Result{}, aggregates.Errorf(aggregates.CodeValidation, op, "activity is required")
	}

	in := g.input(ctx, req)
	p, err := prompts.Build(g.prompt, in)
	if err != nil {
		return Result{}, aggregates.Wrap(aggregates.CodeValidation, op, err)
	}

	resp, attempts, err := g.caller.Call(ctx, string(g.contentType), p, req.Params.Model)
	if err != nil {
		return Result{}, err
	}

	body, err := content.Decode(g.contentType, resp.Text)
	if err != nil {
		g.log.Warn("model output rejected",
			"content_type", g.contentType,
			"prompt_id", p.ID(),
			"model", resp.Model,
			"error", err,
		)
		return Result{}, aggregates.AIError(aggregates.CodeSchemaValidationFailed, op, resp.Model, p.ID(), attempts, err)
	}
	stampAttribution(body, req.Attribution)

	raw, err := content.Marshal(body)
	if err != nil {
		return Result{}, aggregates.Wrap(aggregates.CodeInternal, op, err)
	}
	return Result{
		Body:     body,
		Content:  raw,
		Metadata: body.Metadata(),
		Model:    resp.Model,
		PromptID: p.ID(),
		Attempts: attempts,
	}, nil
}

func (g *structuredGenerator) input(ctx context.Context, req Request) prompts.Input {
	a := req.Activity
	in := prompts.Input{
		CourseTitle:   req.CourseTitle,
		ModuleTitle:   req.ModuleTitle,
		ActivityType:  string(a.ActivityType),
		ActivityTitle: a.Title,
		Topic:         req.Params.Topic,
		Difficulty:    req.Params.Difficulty,
		Audience:      req.Params.Audience,
		Instructions:  req.Params.Instructions,
		Feedback:      strings.TrimSpace(req.Feedback),
	}
	if req.Lesson != nil {
		in.LessonTitle = req.Lesson.Title
		in.LearningObjective = req.Lesson.LearningObjective
		in.BloomLevel = string(req.Lesson.BloomLevel)
	}
	if len(req.PreviousContent) > 0 {
		in.PreviousContentJSON = string(req.PreviousContent)
	}
	if g.sources != nil && len(req.Params.SourceURLs) > 0 {
		in.SourcesText = g.sources.Fetch(ctx, req.Params.SourceURLs)
	}
	return in
}

func stampAttribution(body content.Body, attribution string) {
	attribution = strings.TrimSpace(attribution)
	if attribution == "" {
		return
	}
	if r, ok := body.(*content.Reading); ok {
		r.Attribution = attribution
	}
}
