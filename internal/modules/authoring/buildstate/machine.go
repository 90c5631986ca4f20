package buildstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/content"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/generation"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/standards"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/validation"
	"github.com/yungbote/courseforge-backend/internal/observability"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

// Store is the slice of the course store the machine needs. MutateActivity
// must run fn as a critical section and write nothing when fn fails.
type Store interface {
	LoadActivity(ctx context.Context, ownerID, activityID uuid.UUID) (*types.ActivityDocument, error)
	MutateActivity(ctx context.Context, ownerID, activityID uuid.UUID, fn func(doc *types.ActivityDocument) error) (*types.Activity, error)
}

const (
	opGenerate   = "generate"
	opRegenerate = "regenerate"
)

// Outcome is the persisted activity after an operation plus its current issues.
type Outcome struct {
	Activity *types.Activity
	Issues   []validation.Issue
}

type GenerateRequest struct {
	// Params replaces the stored generation params when set.
	Params *generation.Params
	// Force allows generating over existing content.
	Force bool
}

type EditRequest struct {
	// Content is a JSON merge patch applied to the stored content.
	Content    json.RawMessage
	Revalidate bool
}

// Machine mediates every build-state transition of an activity. The
// GENERATING state doubles as the per-activity generation guard: it is taken
// and released through the store's critical section, and the model call runs
// outside it.
type Machine struct {
	log        *logger.Logger
	metrics    *observability.Metrics
	store      Store
	generators generation.Dispatcher
	profile    *standards.Profile
	now        func() time.Time
}

type Option func(*Machine)

func WithMetrics(m *observability.Metrics) Option {
	return func(mc *Machine) { mc.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(mc *Machine) {
		if now != nil {
			mc.now = now
		}
	}
}

// NewMachine builds a machine. defaultProfile applies to courses that carry no
// profile of their own.
func NewMachine(log *logger.Logger, store Store, generators generation.Dispatcher, defaultProfile *standards.Profile, opts ...Option) *Machine {
	if log == nil {
		log = logger.Nop()
	}
	m := &Machine{
		log:        log.With("component", "BuildStateMachine"),
		store:      store,
		generators: generators,
		profile:    defaultProfile,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the activity and its stored issues.
func (m *Machine) Get(ctx context.Context, ownerID, activityID uuid.UUID) (*Outcome, error) {
	doc, err := m.store.LoadActivity(ctx, ownerID, activityID)
	if err != nil {
		return nil, err
	}
	return outcomeOf(doc.Activity)
}

// Generate fills a DRAFT activity (or any idle activity when forced).
func (m *Machine) Generate(ctx context.Context, ownerID, activityID uuid.UUID, req GenerateRequest) (*Outcome, error) {
	return m.run(ctx, opGenerate, ownerID, activityID, func(a *types.Activity) error {
		if a.BuildState == types.BuildStateDraft || req.Force {
			return nil
		}
		return aggregates.NewError(aggregates.CodeInvalidTransition, "buildstate.Generate",
			fmt.Sprintf("activity is %s; generate requires DRAFT or force", a.BuildState), nil)
	}, req.Params, "")
}

// Regenerate replaces the content of a GENERATED or REVIEWED activity, giving
// the model the current content and the author's feedback.
func (m *Machine) Regenerate(ctx context.Context, ownerID, activityID uuid.UUID, feedback string) (*Outcome, error) {
	return m.run(ctx, opRegenerate, ownerID, activityID, func(a *types.Activity) error {
		if a.BuildState == types.BuildStateGenerated || a.BuildState == types.BuildStateReviewed {
			return nil
		}
		return aggregates.NewError(aggregates.CodeInvalidTransition, "buildstate.Regenerate",
			fmt.Sprintf("activity is %s; regenerate requires GENERATED or REVIEWED", a.BuildState), nil)
	}, nil, strings.TrimSpace(feedback))
}

type claim struct {
	gen     generation.Generator
	req     generation.Request
	profile *standards.Profile
	from    types.BuildState
	version int
	ct      types.ContentType
	archive []byte
}

func (m *Machine) run(ctx context.Context, op string, ownerID, activityID uuid.UUID, allowed func(a *types.Activity) error, params *generation.Params, feedback string) (*Outcome, error) {
	ctx, span := observability.Tracer().Start(ctx, "buildstate."+op)
	defer span.End()
	span.SetAttributes(attribute.String("activity.id", activityID.String()))

	started := time.Now()
	c, err := m.claim(ctx, op, ownerID, activityID, allowed, params, feedback)
	if err != nil {
		span.SetStatus(codes.Error, string(aggregates.CodeOf(err)))
		return nil, err
	}
	span.SetAttributes(attribute.String("content_type", string(c.ct)))
	m.metrics.IncTransition(string(c.from), string(types.BuildStateGenerating))

	res, genErr := c.gen.Generate(ctx, c.req)

	// The guard must be released even if the caller went away mid-call.
	commitCtx := context.WithoutCancel(ctx)
	if genErr != nil {
		genErr = tagFailure(op, c, genErr)
		m.rollback(commitCtx, ownerID, activityID, c, genErr)
		m.metrics.ObserveGeneration(string(c.ct), op, string(aggregates.CodeOf(genErr)), time.Since(started))
		span.SetAttributes(attribute.String("outcome", string(aggregates.CodeOf(genErr))))
		span.SetStatus(codes.Error, genErr.Error())
		return nil, genErr
	}
	span.SetAttributes(attribute.String("prompt_id", res.PromptID), attribute.String("model", res.Model))

	issues, err := validation.Run(validation.Input{ContentType: c.ct, Body: res.Body}, c.profile)
	if err != nil {
		m.rollback(commitCtx, ownerID, activityID, c, err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out, err := m.commit(commitCtx, ownerID, activityID, c, res, issues)
	if err != nil {
		m.metrics.ObserveGeneration(string(c.ct), op, "commit_failed", time.Since(started))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	m.metrics.ObserveGeneration(string(c.ct), op, "success", time.Since(started))
	m.metrics.IncTransition(string(types.BuildStateGenerating), string(types.BuildStateGenerated))
	for _, is := range issues {
		m.metrics.IncValidationIssue(is.RuleID, string(is.Severity))
	}
	span.SetAttributes(attribute.String("outcome", "success"), attribute.Int("issues", len(issues)))
	m.log.Info("activity generated",
		"op", op,
		"activity_id", activityID,
		"content_type", c.ct,
		"prompt_id", res.PromptID,
		"model", res.Model,
		"attempts", res.Attempts,
		"issues", len(issues),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return &Outcome{Activity: out, Issues: issues}, nil
}

// claim moves the activity into GENERATING and captures everything the model
// call needs. Nothing is written when any precondition fails.
func (m *Machine) claim(ctx context.Context, op string, ownerID, activityID uuid.UUID, allowed func(a *types.Activity) error, params *generation.Params, feedback string) (*claim, error) {
	const where = "buildstate.claim"
	var c claim
	act, err := m.store.MutateActivity(ctx, ownerID, activityID, func(doc *types.ActivityDocument) error {
		a := doc.Activity
		if a.BuildState == types.BuildStateGenerating {
			return aggregates.Errorf(aggregates.CodeConflict, where, "activity %s is already generating", a.ID)
		}
		if err := allowed(a); err != nil {
			return err
		}
		gen, err := m.generators.For(a.ContentType, a.ActivityType)
		if err != nil {
			return err
		}
		profile, err := standards.Resolve(doc.Course.StandardsProfile, m.profile)
		if err != nil {
			return err
		}
		if params != nil {
			if err := params.Validate(); err != nil {
				return err
			}
			raw, err := json.Marshal(params)
			if err != nil {
				return aggregates.Wrap(aggregates.CodeInternal, where, err)
			}
			a.GenerationParams = raw
		}
		stored, err := generation.ParseParams(a.GenerationParams)
		if err != nil {
			return aggregates.NewError(aggregates.CodeValidation, where, "stored generation params are malformed", err)
		}

		req := generation.Request{
			CourseTitle: doc.Course.Title,
			Lesson:      doc.Lesson,
			Activity:    a.Clone(),
			Params:      stored,
		}
		if doc.Module != nil {
			req.ModuleTitle = doc.Module.Title
		}
		if profile.Attribution.AppliesTo(a.ContentType) {
			req.Attribution = profile.Attribution.Template
		}
		if op == opRegenerate {
			req.Feedback = feedback
			req.PreviousContent = append([]byte(nil), a.Content...)
		}

		now := m.now()
		c = claim{
			gen:     gen,
			req:     req,
			profile: profile,
			from:    a.BuildState,
			ct:      a.ContentType,
		}
		if a.HasContent() {
			c.archive = append([]byte(nil), a.Content...)
		}
		a.PriorBuildState = a.BuildState
		a.BuildState = types.BuildStateGenerating
		a.GenerationStartedAt = &now
		a.LastError = ""
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.version = act.Version
	m.log.Debug("generation claimed", "op", op, "activity_id", activityID, "from", c.from)
	return &c, nil
}

// superseded reports whether something else (the stale sweeper) released the
// guard while the model call was running.
func superseded(a *types.Activity, c *claim) bool {
	return a.BuildState != types.BuildStateGenerating || a.Version != c.version
}

func (m *Machine) commit(ctx context.Context, ownerID, activityID uuid.UUID, c *claim, res generation.Result, issues []validation.Issue) (*types.Activity, error) {
	const where = "buildstate.commit"
	meta, err := json.Marshal(res.Metadata)
	if err != nil {
		return nil, aggregates.Wrap(aggregates.CodeInternal, where, err)
	}
	issuesRaw, err := validation.Marshal(issues)
	if err != nil {
		return nil, aggregates.Wrap(aggregates.CodeInternal, where, err)
	}
	return m.store.MutateActivity(ctx, ownerID, activityID, func(doc *types.ActivityDocument) error {
		a := doc.Activity
		if superseded(a, c) {
			return aggregates.Errorf(aggregates.CodeConflict, where, "generation for activity %s was abandoned before it completed", a.ID)
		}
		if c.archive != nil {
			a.PreviousContent = c.archive
		}
		a.Content = res.Content
		a.Metadata = meta
		a.ValidationIssues = issuesRaw
		a.BuildState = types.BuildStateGenerated
		a.PriorBuildState = ""
		a.GenerationStartedAt = nil
		a.LastError = ""
		a.LastModel = res.Model
		a.LastPromptID = res.PromptID
		return nil
	})
}

// rollback restores the exact state held before the claim. Content, metadata
// and issues were never touched, so only the guard fields change.
func (m *Machine) rollback(ctx context.Context, ownerID, activityID uuid.UUID, c *claim, cause error) {
	_, err := m.store.MutateActivity(ctx, ownerID, activityID, func(doc *types.ActivityDocument) error {
		a := doc.Activity
		if superseded(a, c) {
			return errSuperseded
		}
		a.BuildState = c.from
		a.PriorBuildState = ""
		a.GenerationStartedAt = nil
		a.LastError = cause.Error()
		if ae, ok := aggregates.AsAIGenerationFailure(cause); ok {
			a.LastModel = ae.Model
			a.LastPromptID = ae.PromptID
		}
		return nil
	})
	switch {
	case err == nil:
		m.metrics.IncTransition(string(types.BuildStateGenerating), string(c.from))
		m.log.Warn("generation failed; state restored",
			"activity_id", activityID,
			"content_type", c.ct,
			"restored_state", c.from,
			"error", cause,
		)
	case errors.Is(err, errSuperseded):
		m.log.Warn("generation failed after guard was released", "activity_id", activityID, "error", cause)
	default:
		// The sweeper restores the activity once the claim goes stale.
		m.log.Error("rollback failed", "activity_id", activityID, "restore_to", c.from, "error", err, "cause", cause)
	}
}

var errSuperseded = errors.New("generation superseded")

// tagFailure guarantees model failures reach callers tagged with model and
// prompt identifiers. Input problems pass through unchanged.
func tagFailure(op string, c *claim, err error) error {
	if _, ok := aggregates.AsAIGenerationFailure(err); ok {
		return err
	}
	switch aggregates.CodeOf(err) {
	case aggregates.CodeValidation, aggregates.CodeInvalidProfile:
		return err
	}
	return aggregates.AIError(aggregates.CodeUpstreamCallFailed, "buildstate."+op, c.req.Params.Model, "", 0, err)
}

// Edit applies a manual merge patch to the content and recomputes metadata.
// Stored issues are cleared unless revalidation is requested, since they no
// longer describe the content.
func (m *Machine) Edit(ctx context.Context, ownerID, activityID uuid.UUID, req EditRequest) (*Outcome, error) {
	const where = "buildstate.Edit"
	patch := []byte(strings.TrimSpace(string(req.Content)))
	if len(patch) == 0 || patch[0] != '{' {
		return nil, aggregates.Errorf(aggregates.CodeValidation, where, "content patch must be a JSON object")
	}
	var issues []validation.Issue
	act, err := m.store.MutateActivity(ctx, ownerID, activityID, func(doc *types.ActivityDocument) error {
		a := doc.Activity
		switch a.BuildState {
		case types.BuildStateGenerated, types.BuildStateReviewed:
		case types.BuildStateGenerating:
			return aggregates.Errorf(aggregates.CodeConflict, where, "activity %s is generating", a.ID)
		default:
			return aggregates.NewError(aggregates.CodeInvalidTransition, where,
				fmt.Sprintf("activity is %s; edit requires GENERATED or REVIEWED", a.BuildState), nil)
		}
		merged, err := MergeContent(a.Content, patch)
		if err != nil {
			return aggregates.NewError(aggregates.CodeValidation, where, "content patch could not be applied", err)
		}
		body, err := content.Decode(a.ContentType, merged)
		if err != nil {
			return aggregates.NewError(aggregates.CodeValidation, where, err.Error(), err)
		}
		raw, err := content.Marshal(body)
		if err != nil {
			return aggregates.Wrap(aggregates.CodeInternal, where, err)
		}
		meta, err := json.Marshal(body.Metadata())
		if err != nil {
			return aggregates.Wrap(aggregates.CodeInternal, where, err)
		}

		issues = []validation.Issue{}
		if req.Revalidate {
			profile, err := standards.Resolve(doc.Course.StandardsProfile, m.profile)
			if err != nil {
				return err
			}
			if issues, err = validation.Run(validation.Input{ContentType: a.ContentType, Body: body}, profile); err != nil {
				return err
			}
		}
		issuesRaw, err := validation.Marshal(issues)
		if err != nil {
			return aggregates.Wrap(aggregates.CodeInternal, where, err)
		}
		a.Content = raw
		a.Metadata = meta
		a.ValidationIssues = issuesRaw
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.log.Info("activity edited", "activity_id", activityID, "revalidated", req.Revalidate, "issues", len(issues))
	return &Outcome{Activity: act, Issues: issues}, nil
}

// Advance moves an activity exactly one step forward along
// GENERATED -> REVIEWED -> APPROVED -> PUBLISHED.
func (m *Machine) Advance(ctx context.Context, ownerID, activityID uuid.UUID, target types.BuildState) (*Outcome, error) {
	const where = "buildstate.Advance"
	if !target.Valid() {
		return nil, aggregates.Errorf(aggregates.CodeValidation, where, "unknown build state %q", target)
	}
	var from types.BuildState
	act, err := m.store.MutateActivity(ctx, ownerID, activityID, func(doc *types.ActivityDocument) error {
		a := doc.Activity
		from = a.BuildState
		if from == types.BuildStateGenerating {
			return aggregates.Errorf(aggregates.CodeConflict, where, "activity %s is generating", a.ID)
		}
		if err := CheckAdvance(from, target); err != nil {
			return err
		}
		a.BuildState = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.metrics.IncTransition(string(from), string(target))
	m.log.Info("activity advanced", "activity_id", activityID, "from", from, "to", target)
	return outcomeOf(act)
}

// CheckAdvance reports whether an operator may move an activity from one state
// to another.
func CheckAdvance(from, to types.BuildState) error {
	const where = "buildstate.Advance"
	if from.Rank() < types.BuildStateGenerated.Rank() || to.Rank() != from.Rank()+1 {
		return aggregates.NewError(aggregates.CodeInvalidTransition, where,
			fmt.Sprintf("cannot advance from %s to %s", from, to), nil)
	}
	return nil
}

// Revalidate re-runs the validators over stored content and persists the
// fresh issues without changing the build state.
func (m *Machine) Revalidate(ctx context.Context, ownerID, activityID uuid.UUID) (*Outcome, error) {
	const where = "buildstate.Revalidate"
	var issues []validation.Issue
	act, err := m.store.MutateActivity(ctx, ownerID, activityID, func(doc *types.ActivityDocument) error {
		a := doc.Activity
		if a.BuildState == types.BuildStateGenerating {
			return aggregates.Errorf(aggregates.CodeConflict, where, "activity %s is generating", a.ID)
		}
		if !a.HasContent() {
			return aggregates.NewError(aggregates.CodeInvalidTransition, where, "activity has no content to validate", nil)
		}
		profile, err := standards.Resolve(doc.Course.StandardsProfile, m.profile)
		if err != nil {
			return err
		}
		if issues, err = validation.RunRaw(a.ContentType, a.Content, profile); err != nil {
			return err
		}
		raw, err := validation.Marshal(issues)
		if err != nil {
			return aggregates.Wrap(aggregates.CodeInternal, where, err)
		}
		a.ValidationIssues = raw
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, is := range issues {
		m.metrics.IncValidationIssue(is.RuleID, string(is.Severity))
	}
	return &Outcome{Activity: act, Issues: issues}, nil
}

func outcomeOf(a *types.Activity) (*Outcome, error) {
	issues, err := validation.Unmarshal(a.ValidationIssues)
	if err != nil {
		return nil, aggregates.Wrap(aggregates.CodeInternal, "buildstate.outcome", err)
	}
	return &Outcome{Activity: a, Issues: issues}, nil
}
