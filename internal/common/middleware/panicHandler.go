package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/tansive/keyboardserver/internal/common/httpx"
)

// PanicHandler recovers from panics in downstream handlers, logs the panic
// with its stack trace and, if nothing has been written yet, replies 500
// with the panic text as the message.
func PanicHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := httpx.NewResponseWriter(w)
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				log.Ctx(r.Context()).Error().
					Str("panic", fmt.Sprintf("%v", err)).
					Str("stack_trace", string(debug.Stack())).
					Msg("panic occurred")

				if !rw.Written() {
					httpx.ErrApplicationError(fmt.Sprintf("%v", err)).Send(rw)
				}
			}
		}()
		next.ServeHTTP(rw, r)
	})
}
