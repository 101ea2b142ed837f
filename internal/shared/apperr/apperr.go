// Package apperr defines the error taxonomy shared by services and the
// mapping of those errors onto HTTP responses.
package apperr

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid transition")
)

// ValidationError reports malformed or out-of-range input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// TransitionError is returned when a run state machine precondition fails.
// Reason is meant for humans.
type TransitionError struct {
	Reason string
}

func (e *TransitionError) Error() string { return e.Reason }

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

func Transition(reason string) error {
	return &TransitionError{Reason: reason}
}

// NotFound wraps ErrNotFound with the entity name.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// StatusCode maps an error onto an HTTP status.
func StatusCode(err error) int {
	var fe *fiber.Error
	var ve *ValidationError
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &ve), errors.Is(err, ErrInvalidTransition):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// Handler is a fiber.ErrorHandler that renders the taxonomy as JSON.
func Handler(c *fiber.Ctx, err error) error {
	code := StatusCode(err)
	body := fiber.Map{"error": err.Error()}

	var ve *ValidationError
	var te *TransitionError
	switch {
	case errors.As(err, &ve):
		body["error"] = ve.Message
		if ve.Field != "" {
			body["field"] = ve.Field
		}
	case errors.As(err, &te):
		body["error"] = te.Reason
	case code == fiber.StatusInternalServerError:
		log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), err)
		body["error"] = "internal server error"
	}
	return c.Status(code).JSON(body)
}
