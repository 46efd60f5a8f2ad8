package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("access denied")
	ErrAlreadyExists        = errors.New("already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountDisabled      = errors.New("account is deactivated")
	ErrSlotTaken            = errors.New("the selected time slot has just been booked, please pick another one")
	ErrSlotUnavailable      = errors.New("the selected time slot is not available")
	ErrDoctorNotWorking     = errors.New("the doctor does not work on the selected date")
	ErrDoctorNotAccepting   = errors.New("the doctor is not accepting appointments")
	ErrDailyCapacityReached = errors.New("the doctor has no capacity left on the selected date")
	ErrPastDate             = errors.New("appointments cannot be booked in the past")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrConcurrentUpdate     = errors.New("the appointment was changed by someone else, reload and try again")
	ErrValidation           = errors.New("validation failed")
)

// InvalidTransitionError names both ends of a rejected status change.
type InvalidTransitionError struct {
	From  AppointmentStatus
	To    AppointmentStatus
	Actor UserRole
}

func (e *InvalidTransitionError) Error() string {
	if e.Actor == "" {
		return fmt.Sprintf("cannot change appointment status from %s to %s", e.From, e.To)
	}
	return fmt.Sprintf("%s cannot change appointment status from %s to %s", e.Actor, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// OrNil lets builders return a nil error interface when no field failed.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}
