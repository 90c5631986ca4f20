package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/courseforge-backend/internal/http/response"
	"github.com/yungbote/courseforge-backend/internal/services"
)

type LessonHandler struct {
	svc services.CourseService
}

func NewLessonHandler(svc services.CourseService) *LessonHandler {
	return &LessonHandler{svc: svc}
}

// DELETE /api/lessons/:id
func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	lessonID, ok := pathID(c, "invalid_lesson_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteLesson(c.Request.Context(), lessonID); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/lessons/:id/activities
func (h *LessonHandler) AddActivity(c *gin.Context) {
	lessonID, ok := pathID(c, "invalid_lesson_id")
	if !ok {
		return
	}
	var req services.CreateActivityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	act, err := h.svc.AddActivity(c.Request.Context(), lessonID, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"activity": act, "validation_issues": []any{}})
}
