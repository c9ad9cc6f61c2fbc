package errors

// Error pairs a machine-readable code with a human-readable message. Tool
// handlers surface Message to the caller; Code drives programmatic matching
// through the standard errors.Is chain.
type Error struct {
	Code    Code   // stable machine-readable code
	Message string // human-readable message surfaced to callers
	Cause   error  // wrapped underlying error, when any
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the cause to the standard error chain helpers.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code, so callers can test against sentinels built with
// New without caring about message text.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// New builds an error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds an error that carries an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}
