package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes failure semantics across the authoring domain.
type ErrorCode string

const (
	CodeValidation        ErrorCode = "validation"
	CodeNotFound          ErrorCode = "not_found"
	CodeConflict          ErrorCode = "conflict"
	CodeInvalidTransition ErrorCode = "invalid_transition"
	CodeInvalidProfile    ErrorCode = "invalid_profile"
	CodeRetryable         ErrorCode = "retryable"
	CodeInternal          ErrorCode = "internal"

	// Model failures. All three are tagged as AI generation failures.
	CodeSchemaValidationFailed ErrorCode = "schema_validation_failed"
	CodeUpstreamCallFailed     ErrorCode = "upstream_call_failed"
	CodeUpstreamRejected       ErrorCode = "upstream_rejected"
)

// AIGenerationFailed is the category tag surfaced to clients for model failures.
const AIGenerationFailed = "ai_generation_failed"

// Error is the canonical domain error wrapper.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error

	// Set on model failures only.
	Model    string
	PromptID string
	Attempts int
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// IsAIGenerationFailure reports whether the error came from the model boundary.
func (e *Error) IsAIGenerationFailure() bool {
	if e == nil {
		return false
	}
	switch e.Code {
	case CodeSchemaValidationFailed, CodeUpstreamCallFailed, CodeUpstreamRejected:
		return true
	}
	return false
}

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Errorf is NewError with a formatted message and no cause.
func Errorf(code ErrorCode, op, format string, args ...any) error {
	return NewError(code, op, fmt.Sprintf(format, args...), nil)
}

// Wrap annotates an existing error with domain error semantics.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// AIError builds a tagged model failure carrying the model and prompt identifiers.
func AIError(code ErrorCode, op, model, promptID string, attempts int, cause error) error {
	msg := "model call failed"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Code:     code,
		Op:       strings.TrimSpace(op),
		Message:  msg,
		Cause:    cause,
		Model:    model,
		PromptID: promptID,
		Attempts: attempts,
	}
}

// IsCode checks whether err (or a wrapped err) carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the outermost domain error code when available.
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.Code
}

// AsAIGenerationFailure returns the tagged model failure inside err, if any.
func AsAIGenerationFailure(err error) (*Error, bool) {
	for err != nil {
		var aggErr *Error
		if !errors.As(err, &aggErr) {
			return nil, false
		}
		if aggErr.IsAIGenerationFailure() {
			return aggErr, true
		}
		err = aggErr.Cause
	}
	return nil, false
}
