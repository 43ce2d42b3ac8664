package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/keyboardserver/internal/common/logtrace"
	"github.com/tansive/keyboardserver/internal/common/uuid"
)

func TestRequestLogger(t *testing.T) {
	var seen string
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logtrace.RequestIdFromContext(r.Context())
		w.WriteHeader(http.StatusAccepted)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/type", nil))

	assert.Equal(t, http.StatusAccepted, rr.Code)
	id := rr.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)
	assert.Equal(t, id, seen)

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.True(t, uuid.IsUUIDv7(parsed))
}

func TestPanicHandler(t *testing.T) {
	t.Run("panic before write", func(t *testing.T) {
		h := PanicHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("display went away")
		}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/type", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"status":"error","message":"display went away"}`, rr.Body.String())
	})

	t.Run("panic after write keeps the response", func(t *testing.T) {
		h := PanicHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			panic("late")
		}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("no panic", func(t *testing.T) {
		h := PanicHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "ok", rr.Body.String())
	})
}
