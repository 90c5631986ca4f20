package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	"github.com/yungbote/courseforge-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`

	// Populated for model failures only.
	Category string `json:"category,omitempty"`
	Model    string `json:"model,omitempty"`
	PromptID string `json:"prompt_id,omitempty"`
	Attempts int    `json:"attempts,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// StatusFor maps a domain error code to its HTTP status.
func StatusFor(code aggregates.ErrorCode) int {
	switch code {
	case aggregates.CodeNotFound:
		return http.StatusNotFound
	case aggregates.CodeConflict:
		return http.StatusConflict
	case aggregates.CodeInvalidTransition:
		return http.StatusUnprocessableEntity
	case aggregates.CodeValidation, aggregates.CodeInvalidProfile:
		return http.StatusBadRequest
	case aggregates.CodeSchemaValidationFailed, aggregates.CodeUpstreamRejected:
		return http.StatusBadGateway
	case aggregates.CodeUpstreamCallFailed, aggregates.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromDomain converts err into a transport error. AI generation failures carry
// their model, prompt id and attempt count as details.
func FromDomain(err error) *apierr.Error {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	var de *aggregates.Error
	if !errors.As(err, &de) {
		return apierr.New(http.StatusInternalServerError, string(aggregates.CodeInternal), err)
	}
	msg := strings.TrimSpace(de.Message)
	if msg == "" {
		msg = string(de.Code)
	}
	out := apierr.New(StatusFor(de.Code), string(de.Code), errors.New(msg))
	if ai, ok := aggregates.AsAIGenerationFailure(err); ok {
		out.WithDetail("category", aggregates.AIGenerationFailed).
			WithDetail("model", ai.Model).
			WithDetail("prompt_id", ai.PromptID).
			WithDetail("attempts", ai.Attempts)
		// The outer code may be a wrapper; clients key on the model failure.
		out.Status = StatusFor(ai.Code)
		out.Code = string(ai.Code)
	}
	return out
}

// RespondDomainError writes err using the domain-code status mapping.
func RespondDomainError(c *gin.Context, err error) {
	ae := FromDomain(err)
	status := apierr.StatusOf(ae)
	body := APIError{Message: ae.Error(), Code: ae.Code}
	if status == http.StatusInternalServerError {
		body.Message = "internal error"
	}
	if v, ok := ae.Details["category"].(string); ok {
		body.Category = v
	}
	if v, ok := ae.Details["model"].(string); ok {
		body.Model = v
	}
	if v, ok := ae.Details["prompt_id"].(string); ok {
		body.PromptID = v
	}
	if v, ok := ae.Details["attempts"].(int); ok {
		body.Attempts = v
	}
	c.JSON(status, ErrorEnvelope{Error: body})
}
