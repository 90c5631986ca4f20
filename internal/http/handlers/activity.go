package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/http/response"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/generation"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
	"github.com/yungbote/courseforge-backend/internal/services"
)

type ActivityHandler struct {
	log *logger.Logger
	svc services.ActivityService
}

func NewActivityHandler(log *logger.Logger, svc services.ActivityService) *ActivityHandler {
	return &ActivityHandler{log: log.With("handler", "ActivityHandler"), svc: svc}
}

type generateRequest struct {
	Params *generation.Params `json:"params"`
	Force  bool               `json:"force"`
}

type regenerateRequest struct {
	Feedback string `json:"feedback"`
}

type editRequest struct {
	Content    json.RawMessage `json:"content" binding:"required"`
	Revalidate bool            `json:"revalidate"`
}

type advanceRequest struct {
	TargetState string `json:"target_state" binding:"required"`
}

// GET /api/activities/:id
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	activityID, ok := pathID(c, "invalid_activity_id")
	if !ok {
		return
	}
	out, err := h.svc.Get(c.Request.Context(), activityID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, outcomeJSON(out))
}

// POST /api/activities/:id/generate
func (h *ActivityHandler) Generate(c *gin.Context) {
	activityID, ok := pathID(c, "invalid_activity_id")
	if !ok {
		return
	}
	var req generateRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	out, err := h.svc.Generate(c.Request.Context(), activityID, req.Params, req.Force)
	if err != nil {
		h.log.Warn("generate failed", "activity_id", activityID, "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, outcomeJSON(out))
}

// POST /api/activities/:id/regenerate
func (h *ActivityHandler) Regenerate(c *gin.Context) {
	activityID, ok := pathID(c, "invalid_activity_id")
	if !ok {
		return
	}
	var req regenerateRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	out, err := h.svc.Regenerate(c.Request.Context(), activityID, req.Feedback)
	if err != nil {
		h.log.Warn("regenerate failed", "activity_id", activityID, "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, outcomeJSON(out))
}

// PATCH /api/activities/:id
func (h *ActivityHandler) Edit(c *gin.Context) {
	activityID, ok := pathID(c, "invalid_activity_id")
	if !ok {
		return
	}
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.svc.Edit(c.Request.Context(), activityID, req.Content, req.Revalidate)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, outcomeJSON(out))
}

// POST /api/activities/:id/advance
func (h *ActivityHandler) Advance(c *gin.Context) {
	activityID, ok := pathID(c, "invalid_activity_id")
	if !ok {
		return
	}
	var req advanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	// Unknown states are rejected by the machine with a validation error.
	target, _ := types.ParseBuildState(req.TargetState)
	out, err := h.svc.Advance(c.Request.Context(), activityID, target)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, outcomeJSON(out))
}

// POST /api/activities/:id/validate
func (h *ActivityHandler) Validate(c *gin.Context) {
	activityID, ok := pathID(c, "invalid_activity_id")
	if !ok {
		return
	}
	out, err := h.svc.Revalidate(c.Request.Context(), activityID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, outcomeJSON(out))
}
