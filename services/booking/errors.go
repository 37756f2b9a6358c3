package booking

import (
	"errors"
	"fmt"
	"strings"

	"reservas/models"
	"reservas/services/api"
)

var (
	// ErrSubmitInFlight rejects a Book call while another one is outstanding.
	ErrSubmitInFlight = errors.New("a booking attempt is already in progress")

	// ErrOrchestratorClosed rejects Book after Close.
	ErrOrchestratorClosed = errors.New("booking orchestrator closed")
)

const (
	msgUnavailable    = "The resource is not available in this time range."
	msgCreateFallback = "Failed to create the reservation"
	msgUnknownFailure = "unknown error"
)

// ValidationError is a window rejected locally, before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// VerificationError means the conflict check could not be completed. It never
// means the window is free.
type VerificationError struct {
	Err error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("failed to verify availability: %v", e.Err)
}

func (e *VerificationError) Unwrap() error { return e.Err }

// ConflictError reports that the window collides with an existing reservation.
// Conflict is the first entry the API returned, nil when it sent none.
type ConflictError struct {
	ResourceID int
	Conflict   *models.ConflictSummary
}

func (e *ConflictError) Error() string {
	if e.Conflict == nil {
		return fmt.Sprintf("resource %d: %s", e.ResourceID, msgUnavailable)
	}
	return fmt.Sprintf("Conflict with reservation by %s (%s - %s)",
		e.Conflict.Requester, e.Conflict.Start, e.Conflict.End)
}

// CreationError is a booking rejected or failed after a clean conflict check.
// Message and Details come from the API error payload when there was one.
type CreationError struct {
	Message string
	Details string
	Err     error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("failed to create reservation: %v", e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

func newCreationError(err error) *CreationError {
	ce := &CreationError{Err: err}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		ce.Message = apiErr.Message
		ce.Details = apiErr.Details
	}
	return ce
}

// UserMessage renders a Book error as the text shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	var verificationErr *VerificationError
	var conflictErr *ConflictError
	var creationErr *CreationError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &conflictErr):
		if conflictErr.Conflict == nil {
			return msgUnavailable
		}
		return conflictErr.Error()
	case errors.As(err, &verificationErr):
		return "Failed to verify availability: " + causeMessage(verificationErr.Err)
	case errors.As(err, &creationErr):
		msg := creationErr.Message
		if msg == "" {
			msg = msgCreateFallback
		}
		if creationErr.Details != "" {
			msg += "\n" + creationErr.Details
		}
		return msg
	}
	return err.Error()
}

func causeMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err == nil || strings.TrimSpace(err.Error()) == "" {
		return msgUnknownFailure
	}
	return err.Error()
}
