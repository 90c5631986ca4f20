package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/buildstate"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/generation"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

// ActivityService exposes the build-state operations for the calling owner.
type ActivityService interface {
	Get(ctx context.Context, activityID uuid.UUID) (*buildstate.Outcome, error)
	Generate(ctx context.Context, activityID uuid.UUID, params *generation.Params, force bool) (*buildstate.Outcome, error)
	Regenerate(ctx context.Context, activityID uuid.UUID, feedback string) (*buildstate.Outcome, error)
	Edit(ctx context.Context, activityID uuid.UUID, patch json.RawMessage, revalidate bool) (*buildstate.Outcome, error)
	Advance(ctx context.Context, activityID uuid.UUID, target types.BuildState) (*buildstate.Outcome, error)
	Revalidate(ctx context.Context, activityID uuid.UUID) (*buildstate.Outcome, error)
}

type activityService struct {
	log     *logger.Logger
	machine *buildstate.Machine
}

func NewActivityService(baseLog *logger.Logger, machine *buildstate.Machine) ActivityService {
	return &activityService{
		log:     baseLog.With("service", "ActivityService"),
		machine: machine,
	}
}

func (s *activityService) Get(ctx context.Context, activityID uuid.UUID) (*buildstate.Outcome, error) {
	owner, err := ownerFrom(ctx, "services.GetActivity")
	if err != nil {
		return nil, err
	}
	return s.machine.Get(ctx, owner, activityID)
}

func (s *activityService) Generate(ctx context.Context, activityID uuid.UUID, params *generation.Params, force bool) (*buildstate.Outcome, error) {
	owner, err := ownerFrom(ctx, "services.Generate")
	if err != nil {
		return nil, err
	}
	return s.machine.Generate(ctx, owner, activityID, buildstate.GenerateRequest{Params: params, Force: force})
}

func (s *activityService) Regenerate(ctx context.Context, activityID uuid.UUID, feedback string) (*buildstate.Outcome, error) {
	owner, err := ownerFrom(ctx, "services.Regenerate")
	if err != nil {
		return nil, err
	}
	return s.machine.Regenerate(ctx, owner, activityID, feedback)
}

func (s *activityService) Edit(ctx context.Context, activityID uuid.UUID, patch json.RawMessage, revalidate bool) (*buildstate.Outcome, error) {
	owner, err := ownerFrom(ctx, "services.Edit")
	if err != nil {
		return nil, err
	}
	return s.machine.Edit(ctx, owner, activityID, buildstate.EditRequest{Content: patch, Revalidate: revalidate})
}

func (s *activityService) Advance(ctx context.Context, activityID uuid.UUID, target types.BuildState) (*buildstate.Outcome, error) {
	owner, err := ownerFrom(ctx, "services.Advance")
	if err != nil {
		return nil, err
	}
	return s.machine.Advance(ctx, owner, activityID, target)
}

func (s *activityService) Revalidate(ctx context.Context, activityID uuid.UUID) (*buildstate.Outcome, error) {
	owner, err := ownerFrom(ctx, "services.Revalidate")
	if err != nil {
		return nil, err
	}
	return s.machine.Revalidate(ctx, owner, activityID)
}
