package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/courseforge-backend/internal/http/response"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
	"github.com/yungbote/courseforge-backend/internal/services"
)

// Profiles are small; anything larger is a mistake.
const maxProfileBytes = 1 << 20

type CourseHandler struct {
	log *logger.Logger
	svc services.CourseService
}

func NewCourseHandler(log *logger.Logger, svc services.CourseService) *CourseHandler {
	return &CourseHandler{log: log.With("handler", "CourseHandler"), svc: svc}
}

// POST /api/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	course, err := h.svc.CreateCourse(c.Request.Context(), req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"course": course})
}

// GET /api/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.svc.ListCourses(c.Request.Context())
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// GET /api/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, ok := pathID(c, "invalid_course_id")
	if !ok {
		return
	}
	doc, err := h.svc.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"course":     doc.Course,
		"modules":    doc.Modules,
		"lessons":    doc.Lessons,
		"activities": doc.Activities,
	})
}

// GET /api/courses/:id/standards
func (h *CourseHandler) GetStandards(c *gin.Context) {
	courseID, ok := pathID(c, "invalid_course_id")
	if !ok {
		return
	}
	profile, err := h.svc.GetStandards(c.Request.Context(), courseID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"standards": profile})
}

// PUT /api/courses/:id/standards
//
// The body is the profile itself, as JSON or YAML.
func (h *CourseHandler) PutStandards(c *gin.Context) {
	courseID, ok := pathID(c, "invalid_course_id")
	if !ok {
		return
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxProfileBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if len(raw) > maxProfileBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "profile_too_large", nil)
		return
	}
	profile, err := h.svc.PutStandards(c.Request.Context(), courseID, raw)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"standards": profile})
}

// POST /api/courses/:id/validate
func (h *CourseHandler) ValidateCourse(c *gin.Context) {
	courseID, ok := pathID(c, "invalid_course_id")
	if !ok {
		return
	}
	report, err := h.svc.ValidateCourse(c.Request.Context(), courseID)
	if err != nil {
		h.log.Warn("course validation failed", "course_id", courseID, "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"report": report})
}

// POST /api/courses/:id/modules
func (h *CourseHandler) AddModule(c *gin.Context) {
	courseID, ok := pathID(c, "invalid_course_id")
	if !ok {
		return
	}
	var req services.CreateModuleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	module, err := h.svc.AddModule(c.Request.Context(), courseID, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"module": module})
}
