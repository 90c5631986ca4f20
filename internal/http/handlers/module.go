package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/courseforge-backend/internal/http/response"
	"github.com/yungbote/courseforge-backend/internal/services"
)

type ModuleHandler struct {
	svc services.CourseService
}

func NewModuleHandler(svc services.CourseService) *ModuleHandler {
	return &ModuleHandler{svc: svc}
}

// POST /api/modules/:id/lessons
func (h *ModuleHandler) AddLesson(c *gin.Context) {
	moduleID, ok := pathID(c, "invalid_module_id")
	if !ok {
		return
	}
	var req services.CreateLessonInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	lesson, err := h.svc.AddLesson(c.Request.Context(), moduleID, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"lesson": lesson})
}
