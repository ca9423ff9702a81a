// Package apperrors defines the typed error taxonomy shared by the event
// lifecycle and the nomination/vote ledgers. Every rejected write maps to
// exactly one Kind so callers can tell retriable conditions (StaleState)
// from terminal ones (DuplicateVote, Validation) without parsing messages.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/teamkudos/awards-backend/internal/models"
)

// Kind identifies the failure class of an Error.
type Kind string

const (
	KindPhaseViolation      Kind = "PHASE_VIOLATION"
	KindStaleState          Kind = "STALE_STATE"
	KindForbiddenTransition Kind = "FORBIDDEN_TRANSITION"
	KindNotEligible         Kind = "NOT_ELIGIBLE"
	KindPrecondition        Kind = "PRECONDITION_FAILED"
	KindDuplicateVote       Kind = "DUPLICATE_VOTE"
	KindDuplicateNomination Kind = "DUPLICATE_NOMINATION"
	KindValidation          Kind = "VALIDATION"
	KindNotFound            Kind = "NOT_FOUND"
)

// Error is a typed, tagged failure. CurrentStatus carries the persisted
// event status at rejection time when an event was in hand, so the caller
// can decide whether a retry makes sense. Fields carries field-level detail
// for validation failures.
type Error struct {
	Kind          Kind
	Message       string
	CurrentStatus models.EventStatus
	Fields        map[string]string
}

func (e *Error) Error() string {
	if e.CurrentStatus != "" {
		return fmt.Sprintf("%s: %s (current status: %s)", e.Kind, e.Message, e.CurrentStatus)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// PhaseViolation reports a ledger write attempted outside its legal phase.
func PhaseViolation(message string, current models.EventStatus) *Error {
	return &Error{Kind: KindPhaseViolation, Message: message, CurrentStatus: current}
}

// StaleState reports an optimistic-concurrency loss on a lifecycle advance.
func StaleState(expected, current models.EventStatus) *Error {
	return &Error{
		Kind:          KindStaleState,
		Message:       fmt.Sprintf("event status is no longer %s", expected),
		CurrentStatus: current,
	}
}

// ForbiddenTransition reports an actor without permission to advance the event.
func ForbiddenTransition(message string, current models.EventStatus) *Error {
	return &Error{Kind: KindForbiddenTransition, Message: message, CurrentStatus: current}
}

// NotEligible reports a principal outside the event's eligible population.
func NotEligible(message string, current models.EventStatus) *Error {
	return &Error{Kind: KindNotEligible, Message: message, CurrentStatus: current}
}

// Precondition reports a structural requirement not yet met.
func Precondition(message string, current models.EventStatus) *Error {
	return &Error{Kind: KindPrecondition, Message: message, CurrentStatus: current}
}

// DuplicateVote reports a second vote of the same type by the same voter
// for the same award.
func DuplicateVote(current models.EventStatus) *Error {
	return &Error{
		Kind:          KindDuplicateVote,
		Message:       "a vote of this type has already been cast by this voter for this award",
		CurrentStatus: current,
	}
}

// DuplicateNomination reports a repeat nomination rejected by the
// first-wins dedupe policy.
func DuplicateNomination(current models.EventStatus) *Error {
	return &Error{
		Kind:          KindDuplicateNomination,
		Message:       "this nominator has already nominated this nominee for this award",
		CurrentStatus: current,
	}
}

// Validation reports malformed input with per-field detail.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NotFound reports a missing document.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}
