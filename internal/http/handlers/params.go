package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/courseforge-backend/internal/http/response"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/buildstate"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/validation"
)

// pathID parses the :id route parameter, writing a 400 when it is not a uuid.
func pathID(c *gin.Context, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, code, err)
		return uuid.Nil, false
	}
	return id, true
}

// bindOptionalJSON accepts an empty body as the zero request.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}

func outcomeJSON(out *buildstate.Outcome) gin.H {
	issues := out.Issues
	if issues == nil {
		issues = []validation.Issue{}
	}
	return gin.H{
		"activity":          out.Activity,
		"validation_issues": issues,
	}
}
