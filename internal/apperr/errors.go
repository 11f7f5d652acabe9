// Package apperr carries the error taxonomy shared by repositories, services
// and the command layer. Repositories translate driver errors into these
// types; the command layer maps them onto user-facing messages without ever
// inspecting SQL state.
package apperr

import (
	"errors"
	"fmt"
)

// Kinds of resources a NotFoundError can refer to.
const (
	KindWager       = "wager"
	KindOutcome     = "outcome"
	KindParticipant = "participant"
)

// ErrInsufficientBalance is returned when a stake exceeds what the
// participant's balance plus the participation bonus can cover.
var ErrInsufficientBalance = errors.New("insufficient balance")

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Msg
}

func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type NotFoundError struct {
	Kind string
}

func (e *NotFoundError) Error() string {
	return e.Kind + " not found"
}

func NotFound(kind string) error {
	return &NotFoundError{Kind: kind}
}

// IsNotFound reports whether err is a NotFoundError for the given kind. An
// empty kind matches any NotFoundError.
func IsNotFound(err error, kind string) bool {
	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		return false
	}
	return kind == "" || nfe.Kind == kind
}

type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

func Conflict(reason string) error {
	return &ConflictError{Reason: reason}
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// Unexpected wraps an internal failure with the operation that hit it.
func Unexpected(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
