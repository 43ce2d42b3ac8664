// Package httpx provides request decoding and JSON response helpers shared by
// the HTTP handlers. Every response body, success or failure, has the shape
// {"status": ..., "message": ...}.
package httpx

import (
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/tansive/keyboardserver/internal/common/apperrors"
)

// GetRequestData decodes a JSON request body into data. Only POST and PUT
// are accepted. The body must hold a single JSON value; trailing content is
// rejected.
func GetRequestData(r *http.Request, data any) error {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return ErrReqMethodNotSupported()
	}
	if r.Body == nil || r.Body == http.NoBody {
		log.Ctx(r.Context()).Error().Msg("empty request body")
		return ErrUnableToParseReqData()
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("unable to read request body")
		return ErrUnableToParseReqData()
	}
	if err := json.Unmarshal(body, data); err != nil {
		log.Ctx(r.Context()).Debug().Err(err).Msg("unable to decode request body")
		return ErrUnableToParseReqData()
	}
	return nil
}

// Response is a successful handler result.
type Response struct {
	StatusCode int
	Response   any
}

// RequestHandler handles a request and returns either a response or an error.
type RequestHandler func(r *http.Request) (*Response, error)

// WrapHttpRsp adapts a RequestHandler to an http.HandlerFunc, translating
// returned errors into JSON error responses.
func WrapHttpRsp(handler RequestHandler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rsp, err := handler(r)
		if err != nil {
			errorFrom(err).Send(w)
			return
		}
		if rsp == nil {
			ErrApplicationError().Send(w)
			return
		}
		statusCode := rsp.StatusCode
		if statusCode == 0 {
			statusCode = http.StatusOK
		}
		SendJsonRsp(r.Context(), w, statusCode, rsp.Response)
	})
}

// errorFrom converts any error into an *Error. Unknown errors become a 500
// carrying the error text.
func errorFrom(err error) *Error {
	switch e := err.(type) {
	case *Error:
		return e
	case apperrors.Error:
		return &Error{
			StatusCode:  apperrors.StatusCodeOr(e, http.StatusInternalServerError),
			Description: e.ErrorAll(),
		}
	default:
		return ErrApplicationError(err.Error())
	}
}
