package services

import "errors"

// Error kinds. The HTTP layer maps these to status codes; the messages are the
// user-facing Indonesian strings.
const (
	KindValidation  = "VALIDATION_ERROR"
	KindForbidden   = "FORBIDDEN"
	KindNotFound    = "NOT_FOUND"
	KindConflict    = "CONFLICT"
	KindState       = "INVALID_STATE"
	KindPersistence = "PERSISTENCE_ERROR"
)

type Error struct {
	Kind    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func ForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func ConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func StateError(message string) *Error {
	return &Error{Kind: KindState, Message: message}
}

func PersistenceError(message string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindPersistence for untyped errors so a
// raw database failure is never misreported as a business rejection.
func KindOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}
