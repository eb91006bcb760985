// Package errs contains the error taxonomy shared by the domain, service and transport layers.
package errs

import "errors"

// Kinds. Every *Error matches exactly one of these through errors.Is.
var (
	// ErrUnauthenticated indicates there is no acting user.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates the acting user lacks the role required for the action.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested list, item, product or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a value object or request field violated its invariant.
	ErrValidation = errors.New("validation failed")

	// ErrBusinessRule indicates a valid request that the domain rules refuse.
	ErrBusinessRule = errors.New("business rule violation")

	// ErrAlreadyExists indicates a unique constraint violation (e.g. email taken).
	ErrAlreadyExists = errors.New("already exists")
)

// Error is a kinded error carrying a message safe to show to the user.
type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Message returns the user-facing message without the cause chain.
func (e *Error) Message() string { return e.msg }

// Kind returns the sentinel this error belongs to.
func (e *Error) Kind() error { return e.kind }

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool { return target == e.kind }

func (e *Error) Unwrap() error { return e.cause }

func newErr(kind error, msg string) *Error { return &Error{kind: kind, msg: msg} }

// Unauthenticated returns an authentication error.
func Unauthenticated(msg string) error { return newErr(ErrUnauthenticated, msg) }

// Forbidden returns an authorization error.
func Forbidden(msg string) error { return newErr(ErrForbidden, msg) }

// NotFound returns a not-found error.
func NotFound(msg string) error { return newErr(ErrNotFound, msg) }

// Validation returns a validation error with the field complaint as message.
func Validation(msg string) error { return newErr(ErrValidation, msg) }

// BusinessRule returns a business rule violation.
func BusinessRule(msg string) error { return newErr(ErrBusinessRule, msg) }

// AlreadyExists returns a uniqueness error.
func AlreadyExists(msg string) error { return newErr(ErrAlreadyExists, msg) }

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind error, msg string, cause error) error {
	return &Error{kind: kind, msg: msg, cause: cause}
}

// UserMessage walks the chain and returns the first kinded message, or "" when there is none.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return ""
}
