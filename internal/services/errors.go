package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/school-portal-service/internal/validator"
)

var (
	ErrValidationFailed   = validator.ErrValidationFailed
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("access denied")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")

	ErrAssistantNotConfigured = errors.New("assistant not configured")
)

type ValidationError = validator.ValidationError
type ValidationErrors = validator.ValidationErrors

// NewValidationError builds a single-field ValidationErrors.
func NewValidationError(field, message string, value interface{}) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message, Value: value, Rule: "business_logic"}}
}

// PermissionError is returned when the caller's role or ownership does not
// allow the action.
type PermissionError struct {
	UserID     uint   `json:"user_id"`
	ResourceID uint   `json:"resource_id,omitempty"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrForbidden
}

type NotFoundError struct {
	Resource string
	ID       interface{}
}

func NewNotFoundError(resource string, id interface{}) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError reports a uniqueness clash on a user-visible field.
type ConflictError struct {
	Field string
	Value string
}

func NewConflictError(field, value string) *ConflictError {
	return &ConflictError{Field: field, Value: value}
}

func (e *ConflictError) Error() string {
	switch e.Field {
	case "username":
		return "username already taken"
	case "email":
		return "email already registered"
	default:
		return fmt.Sprintf("%s already exists", e.Field)
	}
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
