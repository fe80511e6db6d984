// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/easyretail/shop-backend/internal/repository"
	"github.com/easyretail/shop-backend/internal/utils"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// FieldErrors carries per-field validator output. It matches ErrValidation.
type FieldErrors struct {
	Fields []utils.ValidationError
}

func (e *FieldErrors) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *FieldErrors) Unwrap() error { return ErrValidation }

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// validate runs the struct tags and wraps failures as FieldErrors.
func validate(req interface{}) error {
	if err := utils.ValidateStruct(req); err != nil {
		if fields := utils.GetValidationErrors(err); len(fields) > 0 {
			return &FieldErrors{Fields: fields}
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// repoError maps repository sentinels onto domain errors.
func repoError(entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%s %w: %v", entity, ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w", entity, err)
	}
}
