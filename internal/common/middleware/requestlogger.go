// Package middleware provides HTTP middleware for request logging and panic
// recovery. Both integrate with zerolog and the per-request ID.
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tansive/keyboardserver/internal/common/httpx"
	"github.com/tansive/keyboardserver/internal/common/logtrace"
	"github.com/tansive/keyboardserver/internal/common/uuid"
)

// RequestIDHeader is the response header carrying the request ID.
const RequestIDHeader = "X-Keyboard-Request-ID"

// RequestLogger assigns a request ID, attaches a logger carrying it to the
// request context, and logs the start and completion of every request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := newRequestId()
		ctx := logtrace.WithRequestId(r.Context(), requestID)
		ctx = log.With().Str("request_id", requestID).Logger().WithContext(ctx)

		w.Header().Set(RequestIDHeader, requestID)
		rw := httpx.NewResponseWriter(w)

		log.Ctx(ctx).Info().
			Str("requestMethod", r.Method).
			Str("requestPath", r.URL.Path).
			Str("remoteIP", r.RemoteAddr).
			Str("proto", r.Proto).
			Msg("incoming request")

		defer func() {
			log.Ctx(ctx).Info().
				Int("status", rw.Status()).
				Str("duration", fmt.Sprintf("%dms", time.Since(start).Milliseconds())).
				Msg("request completed")
		}()

		next.ServeHTTP(rw, r.WithContext(ctx))
	})
}

func newRequestId() string {
	u, err := uuid.NewRandom()
	if err == nil {
		return u.String()
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
