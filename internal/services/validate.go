package services

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/courseforge-backend/internal/domain/aggregates"
)

var (
	inputValidatorOnce sync.Once
	inputValidator     *validator.Validate
)

// validateInput applies the struct tags of a request payload.
func validateInput(op string, in any) error {
	inputValidatorOnce.Do(func() {
		inputValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := inputValidator.Struct(in); err != nil {
		return aggregates.NewError(aggregates.CodeValidation, op, err.Error(), err)
	}
	return nil
}
