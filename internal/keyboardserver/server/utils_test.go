package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/keyboardserver/internal/common/apperrors"
	"github.com/tansive/keyboardserver/internal/common/middleware"
	"github.com/tansive/keyboardserver/internal/keyboardserver/config"
	"github.com/tansive/keyboardserver/internal/keyboardserver/dispatcher"
	"github.com/tansive/keyboardserver/internal/keyboardserver/display"
	"github.com/tansive/keyboardserver/internal/keyboardserver/runner"
)

const testPIN = "424242"

// setupTest loads a default configuration with testPIN as the shared secret
// and a fixed DISPLAY, and returns services backed by a fake runner.
func setupTest(t *testing.T) (*Services, *runner.FakeRunner) {
	t.Helper()
	t.Setenv(config.EnvPIN, testPIN)
	t.Setenv(display.EnvDisplay, ":1")
	require.NoError(t, config.LoadConfig(""))

	rn := &runner.FakeRunner{}
	return NewServices(rn), rn
}

func executeTestRequest(t *testing.T, req *http.Request, d Dispatcher) *httptest.ResponseRecorder {
	t.Helper()
	s, err := CreateNewServer(d)
	require.NoError(t, err, "create new server")
	s.MountHandlers()

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func newTypeRequest(t *testing.T, body any) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/type", nil)
	require.NoError(t, err)
	setRequestBodyAndHeader(t, req, body)
	return req
}

func checkHeader(t *testing.T, h http.Header) {
	t.Helper()
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.NotEmpty(t, h.Get(middleware.RequestIDHeader), "No Request Id")
}

func setRequestBodyAndHeader(t *testing.T, req *http.Request, data any) {
	t.Helper()
	var raw []byte
	switch v := data.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		var err error
		raw, err = json.Marshal(data)
		require.NoError(t, err, "Failed to marshal data into JSON")
	}
	req.Body = io.NopCloser(bytes.NewReader(raw))
	req.ContentLength = int64(len(raw))
	req.Header.Set("Content-Type", "application/json")
}

func typedTexts(rn *runner.FakeRunner) []string {
	var out []string
	for _, c := range rn.CallsTo("xdotool") {
		if len(c.Args) > 0 && c.Args[0] == "type" {
			out = append(out, c.Args[len(c.Args)-1])
		}
	}
	return out
}

func pressedKeys(rn *runner.FakeRunner) []string {
	var out []string
	for _, c := range rn.CallsTo("xdotool") {
		if len(c.Args) == 2 && c.Args[0] == "key" {
			out = append(out, c.Args[1])
		}
	}
	return out
}

func failXdotool(mode string) func(runner.Call) ([]byte, apperrors.Error) {
	return func(call runner.Call) ([]byte, apperrors.Error) {
		if call.Name == "xdotool" && len(call.Args) > 0 && call.Args[0] == mode {
			return nil, runner.ErrExecutionFailed.Msg("xdotool: exit status 1")
		}
		return nil, nil
	}
}

type panickingDispatcher struct{}

func (panickingDispatcher) Dispatch(context.Context, string) (*dispatcher.Result, apperrors.Error) {
	panic("runtime error: invalid memory address or nil pointer dereference")
}
