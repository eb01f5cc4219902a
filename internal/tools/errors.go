// ABOUTME: Typed domain error carrying an explicit wire code and message
// ABOUTME: Surfaced verbatim by the dispatcher instead of being masked as internal

package tools

// Domain error codes carried through to JSON-RPC error objects.
const (
	CodeNotFound     = -32002
	CodeForbidden    = -32003
	CodeDuplicate    = -32009
	CodeInvalidInput = -32602
)

// Error is a domain failure with an explicit (code, message) pair. Handlers
// return it when the failure is part of the tool's contract; anything else
// they return is wrapped as an internal error by the dispatcher.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NotFound builds a not-found domain error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Forbidden builds a role-mismatch domain error.
func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

// Duplicate builds a uniqueness-violation domain error.
func Duplicate(msg string) *Error {
	return &Error{Code: CodeDuplicate, Message: msg}
}

// InvalidInput builds a validation domain error.
func InvalidInput(msg string) *Error {
	return &Error{Code: CodeInvalidInput, Message: msg}
}
