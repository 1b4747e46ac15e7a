package notes

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for the domain. Stores and services wrap these so
// callers can classify failures with errors.Is; transports map them to
// status codes.
var (
	// ErrNotFound marks lookups for entities that do not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks uniqueness violations.
	ErrConflict = errors.New("conflict")

	// ErrValidation marks rejected input.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable marks transient persistence failures worth retrying.
	ErrUnavailable = errors.New("temporarily unavailable")
)

// domainError pairs a sentinel kind with a caller-facing message. Error
// returns only the message; the kind stays reachable through Unwrap so
// errors.Is(err, ErrNotFound) and friends keep working.
type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }

func (e *domainError) Unwrap() error { return e.kind }

// NotFoundf returns an ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return &domainError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// Conflictf returns an ErrConflict with a formatted message.
func Conflictf(format string, args ...any) error {
	return &domainError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// Validationf returns an ErrValidation with a formatted message.
func Validationf(format string, args ...any) error {
	return &domainError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// Unavailablef returns an ErrUnavailable with a formatted message.
func Unavailablef(format string, args ...any) error {
	return &domainError{kind: ErrUnavailable, msg: fmt.Sprintf(format, args...)}
}
