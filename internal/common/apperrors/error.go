// Package apperrors provides chainable error values that carry an HTTP status
// code. Errors derived from a base error with New, Msg, MsgErr or Err keep
// matching that base through errors.Is, so packages can expose a small tree
// of sentinel errors and attach the underlying cause at the call site.
package apperrors

// Error is the error type returned across package boundaries.
// All methods return a new value; the receiver is never mutated.
type Error interface {
	error
	Unwrap() error

	New(msg string) Error                  // fresh error derived from the receiver
	Msg(msg string) Error                  // new message, receiver kept as cause
	MsgErr(msg string, err ...error) Error // new message plus extra causes
	Err(err ...error) Error                // same message, extra causes attached
	SetExpandError(bool) Error             // ErrorAll includes the causes
	SetStatusCode(int) Error
	StatusCode() int
	ErrorAll() string
}

// New creates a root error with the given message.
func New(msg string) Error {
	return &appError{
		msg: msg,
	}
}

// StatusCodeOr returns the status code of err if it is an Error with a
// non-zero code, and def otherwise.
func StatusCodeOr(err error, def int) int {
	if e, ok := err.(Error); ok && e.StatusCode() != 0 {
		return e.StatusCode()
	}
	return def
}
