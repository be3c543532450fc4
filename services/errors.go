package services

import (
	"errors"

	"github.com/yeremiapane/restaurant-booking/utils"
)

var (
	ErrNotFound             = errors.New("record not found")
	ErrInvalidStatus        = errors.New("invalid booking status")
	ErrUnknownAction        = errors.New("unknown booking action")
	ErrTransitionNotOffered = errors.New("action not offered for current status")
	ErrSubmissionInFlight   = errors.New("an identical booking is being submitted")
	ErrAlreadyClockedIn     = errors.New("already clocked in")
	ErrNotClockedIn         = errors.New("no running shift")
	ErrEmptyMessage         = errors.New("message content is required")
	ErrNoSender             = errors.New("sender is not signed in")
	ErrNoReceiver           = errors.New("no receiver selected")
	ErrCommentRequired      = errors.New("comment is required")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailTaken           = errors.New("email already registered")
	ErrRoleAssignment       = errors.New("Failed to assign role to user. User creation rolled back.")
)

// ValidationError carries per-field messages from struct validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return utils.FormatValidationErrors(e.Fields)
}

func validate(v interface{}) error {
	if fields := utils.ValidateStruct(v); fields != nil {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func fieldError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
