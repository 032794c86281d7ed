package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if stderrors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

// ConflictError reports an operation refused because of the current local
// state, e.g. a reservation already undergoing a remote mutation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// IsUnauthorizedError also matches a RemoteError carrying a 401 status.
func IsUnauthorizedError(err error) (*UnauthorizedError, bool) {
	var ue *UnauthorizedError
	if stderrors.As(err, &ue) {
		return ue, true
	}
	if re, ok := IsRemoteError(err); ok && re.Status == http.StatusUnauthorized {
		return &UnauthorizedError{Message: re.Error()}, true
	}
	return nil, false
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func IsForbiddenError(err error) (*ForbiddenError, bool) {
	var fe *ForbiddenError
	if stderrors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

// RemoteError is returned by the API gateway. Transport is true when the
// request never got a usable response (network failure, malformed body);
// otherwise the server answered with a non-2xx Status and, possibly, a
// Message explaining the rejection.
type RemoteError struct {
	Op        string
	Status    int
	Message   string
	Transport bool
	Cause     error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Transport && e.Cause != nil:
		return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Cause)
	case e.Transport:
		return fmt.Sprintf("%s: transport failure", e.Op)
	case e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}

func NewTransportError(op string, cause error) *RemoteError {
	return &RemoteError{Op: op, Transport: true, Cause: cause}
}

func NewRejectionError(op string, status int, message string) *RemoteError {
	return &RemoteError{Op: op, Status: status, Message: message}
}

func IsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	if stderrors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// UserMessage picks the text shown to staff: the server-provided message of a
// business rejection when there is one, the fallback otherwise.
func UserMessage(err error, fallback string) string {
	if re, ok := IsRemoteError(err); ok && !re.Transport && re.Message != "" {
		return re.Message
	}
	return fallback
}
