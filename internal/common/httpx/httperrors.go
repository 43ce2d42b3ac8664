package httpx

import (
	"net/http"

	"github.com/tansive/keyboardserver/internal/common/apperrors"
)

// StatusError is the value of the status field in error responses.
const StatusError = "error"

// Error is an HTTP error response.
type Error struct {
	Description string
	StatusCode  int
}

type errorRsp struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Send writes the error as {"status":"error","message":...}.
func (e *Error) Send(w http.ResponseWriter) {
	if w == nil {
		return
	}
	rspJson, err := json.Marshal(&errorRsp{
		Status:  StatusError,
		Message: e.Description,
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Unable to parse error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	w.Write(rspJson)
}

func (e *Error) Error() string {
	return e.Description
}

// SendError sends an application error as an HTTP error response.
func SendError(w http.ResponseWriter, err apperrors.Error) {
	if err == nil {
		return
	}
	errorFrom(err).Send(w)
}

// ErrReqMethodNotSupported returns an error for unsupported HTTP methods.
func ErrReqMethodNotSupported() *Error {
	return &Error{
		Description: "request method not supported",
		StatusCode:  http.StatusMethodNotAllowed,
	}
}

// ErrNotFound returns an error for unknown routes.
func ErrNotFound() *Error {
	return &Error{
		Description: "resource not found",
		StatusCode:  http.StatusNotFound,
	}
}

// ErrUnableToParseReqData returns an error when request data cannot be parsed.
func ErrUnableToParseReqData() *Error {
	return &Error{
		Description: "unable to parse request data",
		StatusCode:  http.StatusBadRequest,
	}
}

// ErrApplicationError returns a 500 error. If no message is provided, a
// default message is used.
func ErrApplicationError(err ...string) *Error {
	s := "unable to process request"
	if len(err) > 0 {
		s = err[0]
	}
	return &Error{
		Description: s,
		StatusCode:  http.StatusInternalServerError,
	}
}

// ErrInvalidRequest returns a 400 error.
func ErrInvalidRequest(str ...string) *Error {
	s := "invalid request data or empty request values"
	if len(str) > 0 {
		s = str[0]
	}
	return &Error{
		Description: s,
		StatusCode:  http.StatusBadRequest,
	}
}
