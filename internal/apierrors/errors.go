// Package apierrors holds the error kinds returned by the Sheets and Drive wrappers.
// Match a kind with errors.Is; the underlying cause stays reachable through errors.As.
package apierrors

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

var (
	ErrAuthentication = errors.New("authentication error")
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("not found")
	ErrLocalIO        = errors.New("local io error")
	ErrRemote         = errors.New("remote error")
	ErrFolderCycle    = errors.New("folder cycle")
)

type wrapError struct {
	underlying error
	msg        string
	cause      error
}

var _ error = (*wrapError)(nil)

func New(kind error, msg string, cause error) error {
	return &wrapError{
		underlying: kind,
		msg:        msg,
		cause:      cause,
	}
}

func NewAuthenticationError(msg string, cause error) error {
	return New(ErrAuthentication, msg, cause)
}

func NewValidationError(msg string, cause error) error {
	return New(ErrValidation, msg, cause)
}

func NewLocalIOError(msg string, cause error) error {
	return New(ErrLocalIO, msg, cause)
}

// FromAPI tags an error returned by a Google API call with the nearest kind.
func FromAPI(msg string, err error) error {
	if err == nil {
		return nil
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		switch gErr.Code {
		case http.StatusNotFound:
			return New(ErrNotFound, msg, err)
		case http.StatusUnauthorized:
			return New(ErrAuthentication, msg, err)
		}
	}
	return New(ErrRemote, msg, err)
}

func (err *wrapError) Error() string {
	if err == nil {
		return "(*wrapError)(nil)"
	}
	message := err.underlying.Error() + ": " + err.msg
	if err.cause != nil {
		message += ": " + err.cause.Error()
	}
	return message
}

func (err *wrapError) Unwrap() []error {
	if err.cause == nil {
		return []error{err.underlying}
	}
	return []error{err.underlying, err.cause}
}
