// Package apperror defines the typed domain errors shared by all layers.
//
// Services return these; the HTTP layer maps them to status codes in
// handler/response.go. The sentinels are matched with errors.Is, the
// human-readable message travels in the AppError wrapper.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Messages for the credential-proof preconditions. Each violated
// precondition gets its own text; clients distinguish failures by message,
// so these must stay stable.
const (
	MsgChangePassProofMissing = "Cannot change password: neither oldPassword nor facebookToken provided"
	MsgDeleteProofMissing     = "Cannot delete account: neither password nor facebookToken provided"
	MsgNoPasswordSet          = "No password is set for this account"
	MsgHasPasswordSet         = "Cannot use facebookToken: a password is set for this account"
	MsgNoLinkedFacebook       = "Cannot use facebookToken: no Facebook account is linked"
	MsgOldPasswordInvalid     = "Old password is not valid"
	MsgPasswordInvalid        = "Password is not valid"
	MsgWrongFacebookUser      = "Wrong Facebook user"

	// MsgBadAccessToken is deliberately uniform across every operation so a
	// stale token cannot be used to probe which accounts still exist.
	MsgBadAccessToken = "accessToken is either wrong or expired"
)

type AppError struct {
	Err     error  // sentinel classifying the failure
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller is authenticated but
// the requested mutation is disallowed. HTTP handlers map this to 403.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthenticated returns the AppError used whenever a caller's token does
// not resolve to an existing account. HTTP handlers map this to 401.
func Unauthenticated() *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: MsgBadAccessToken,
	}
}
