package server

import "fmt"

// ErrorCode classifies an error for the handful of places that need to
// decide how to react to it (log-and-continue vs abort).
type ErrorCode string

const (
	ErrInternalServerError ErrorCode = "internal_server_error"
	ErrNotFound            ErrorCode = "not_found"
	ErrBadParamInput       ErrorCode = "bad_param_input"
	ErrInvariantViolation  ErrorCode = "invariant_violation"
)

// Error wraps an underlying error with a code and a human-readable
// message, the way every service layer in this codebase reports
// failures up to its caller.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WrapErrorf attaches a code and a formatted message to err. Passing a
// nil err still produces an error carrying the message, which lets
// callers use it for pure validation failures as well as wrapped ones.
func WrapErrorf(err error, code ErrorCode, format string, args ...any) error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// CodeOf returns the ErrorCode carried by err, or ErrInternalServerError
// if err was not produced by WrapErrorf.
func CodeOf(err error) ErrorCode {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return ErrInternalServerError
	}
	return e.Code
}
