package server

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/keyboardserver/internal/common/apperrors"
	"github.com/tansive/keyboardserver/internal/keyboardserver/config"
	"github.com/tansive/keyboardserver/internal/keyboardserver/runner"
	"github.com/tansive/keyboardserver/pkg/api"
)

func TestTypeValidation(t *testing.T) {
	svc, rn := setupTest(t)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing pin",
			body:       `{"text":"hello"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"error","message":"Missing required fields"}`,
		},
		{
			name:       "missing text",
			body:       `{"pin":"424242"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"error","message":"Missing required fields"}`,
		},
		{
			name:       "null text",
			body:       `{"text":null,"pin":"424242"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"error","message":"Missing required fields"}`,
		},
		{
			name:       "text is not a string",
			body:       `{"text":42,"pin":"424242"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"error","message":"Missing required fields"}`,
		},
		{
			name:       "empty object",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"error","message":"Missing required fields"}`,
		},
		{
			name:       "null body",
			body:       `null`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"error","message":"Missing required fields"}`,
		},
		{
			name:       "not json",
			body:       `text=hello&pin=424242`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"error","message":"Missing required fields"}`,
		},
		{
			name:       "array body",
			body:       `["hello","424242"]`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"error","message":"Missing required fields"}`,
		},
		{
			name:       "upper case keys",
			body:       `{"TEXT":"hello","PIN":"424242"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"error","message":"Missing required fields"}`,
		},
		{
			name:       "title case keys",
			body:       `{"Text":"hello","Pin":"424242"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"error","message":"Missing required fields"}`,
		},
		{
			name:       "trailing data after object",
			body:       `{"text":"hello","pin":"424242"} trailing`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"error","message":"Missing required fields"}`,
		},
		{
			name:       "numeric pin",
			body:       `{"text":"hello","pin":424242}`,
			wantStatus: http.StatusForbidden,
			wantBody:   `{"status":"error","message":"Invalid PIN"}`,
		},
		{
			name:       "null pin",
			body:       `{"text":"hello","pin":null}`,
			wantStatus: http.StatusForbidden,
			wantBody:   `{"status":"error","message":"Invalid PIN"}`,
		},
		{
			name:       "empty pin",
			body:       `{"text":"hello","pin":""}`,
			wantStatus: http.StatusForbidden,
			wantBody:   `{"status":"error","message":"Invalid PIN"}`,
		},
		{
			name:       "wrong pin",
			body:       api.NewTypeRequest("hello", "000000"),
			wantStatus: http.StatusForbidden,
			wantBody:   `{"status":"error","message":"Invalid PIN"}`,
		},
		{
			name:       "wrong pin with command text",
			body:       api.NewTypeRequest("rm -rf make it so", "4242420"),
			wantStatus: http.StatusForbidden,
			wantBody:   `{"status":"error","message":"Invalid PIN"}`,
		},
		{
			name:       "default pin rejected when overridden",
			body:       api.NewTypeRequest("hello", config.DefaultPIN),
			wantStatus: http.StatusForbidden,
			wantBody:   `{"status":"error","message":"Invalid PIN"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rn.Reset()
			response := executeTestRequest(t, newTypeRequest(t, tt.body), svc.Dispatcher)
			require.Equal(t, tt.wantStatus, response.Code)
			checkHeader(t, response.Result().Header)
			assert.JSONEq(t, tt.wantBody, response.Body.String())
			assert.Empty(t, rn.Calls(), "rejected requests must not touch the keyboard")
		})
	}
}

func TestTypePlainText(t *testing.T) {
	svc, rn := setupTest(t)

	response := executeTestRequest(t, newTypeRequest(t, api.NewTypeRequest("hello world", testPIN)), svc.Dispatcher)
	require.Equal(t, http.StatusOK, response.Code)
	checkHeader(t, response.Result().Header)
	assert.JSONEq(t, `{"status":"success","message":"Successfully typed text: hello world"}`, response.Body.String())

	assert.Equal(t, []string{"hello world"}, typedTexts(rn))
	assert.Empty(t, pressedKeys(rn))

	calls := rn.CallsTo("xdotool")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"type", "--delay", "50", "--", "hello world"}, calls[0].Args)
	assert.Equal(t, ":1", calls[0].Env["DISPLAY"])
}

func TestTypeEmptyText(t *testing.T) {
	svc, rn := setupTest(t)

	response := executeTestRequest(t, newTypeRequest(t, api.NewTypeRequest("", testPIN)), svc.Dispatcher)
	require.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"status":"success","message":"Successfully typed text: "}`, response.Body.String())
	assert.Equal(t, []string{""}, typedTexts(rn))
}

func TestTypeCommandOnly(t *testing.T) {
	svc, rn := setupTest(t)

	response := executeTestRequest(t, newTypeRequest(t, api.NewTypeRequest("make it so", testPIN)), svc.Dispatcher)
	require.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"status":"success","message":"Successfully typed text and pressed Return"}`, response.Body.String())

	assert.Empty(t, typedTexts(rn))
	assert.Equal(t, []string{"Return"}, pressedKeys(rn))
}

func TestTypeWithCommand(t *testing.T) {
	svc, rn := setupTest(t)

	response := executeTestRequest(t, newTypeRequest(t, api.NewTypeRequest("hello make it so", testPIN)), svc.Dispatcher)
	require.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"status":"success","message":"Successfully typed text and pressed Return"}`, response.Body.String())

	calls := rn.CallsTo("xdotool")
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"type", "--delay", "50", "--", "hello"}, calls[0].Args)
	assert.Equal(t, []string{"key", "Return"}, calls[1].Args)
}

func TestTypeTriggerNotSuffix(t *testing.T) {
	svc, rn := setupTest(t)

	response := executeTestRequest(t, newTypeRequest(t, api.NewTypeRequest("make it so now", testPIN)), svc.Dispatcher)
	require.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"status":"success","message":"Successfully typed text: make it so now"}`, response.Body.String())
	assert.Equal(t, []string{"make it so now"}, typedTexts(rn))
	assert.Empty(t, pressedKeys(rn))
}

func TestTypeDispatchFailures(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		failMode  string
		wantTyped []string
		wantKeys  []string
	}{
		{
			name:      "plain type fails",
			text:      "hello world",
			failMode:  "type",
			wantTyped: []string{"hello world"},
		},
		{
			name:      "prefix fails so Return is not pressed",
			text:      "hello make it so",
			failMode:  "type",
			wantTyped: []string{"hello"},
		},
		{
			name:      "Return fails after prefix was typed",
			text:      "hello make it so",
			failMode:  "key",
			wantTyped: []string{"hello"},
			wantKeys:  []string{"Return"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, rn := setupTest(t)
			rn.Handler = failXdotool(tt.failMode)

			response := executeTestRequest(t, newTypeRequest(t, api.NewTypeRequest(tt.text, testPIN)), svc.Dispatcher)
			require.Equal(t, http.StatusInternalServerError, response.Code)
			checkHeader(t, response.Result().Header)
			assert.JSONEq(t, `{"status":"error","message":"Failed to type text"}`, response.Body.String())
			assert.Equal(t, tt.wantTyped, typedTexts(rn))
			assert.Equal(t, tt.wantKeys, pressedKeys(rn))
		})
	}
}

func TestTypeUnexpectedFault(t *testing.T) {
	setupTest(t)

	response := executeTestRequest(t, newTypeRequest(t, api.NewTypeRequest("hello", testPIN)), panickingDispatcher{})
	require.Equal(t, http.StatusInternalServerError, response.Code)
	assert.JSONEq(t,
		`{"status":"error","message":"runtime error: invalid memory address or nil pointer dereference"}`,
		response.Body.String())
}

func TestTypeIsRepeatable(t *testing.T) {
	svc, rn := setupTest(t)

	first := executeTestRequest(t, newTypeRequest(t, api.NewTypeRequest("hello world", testPIN)), svc.Dispatcher)
	second := executeTestRequest(t, newTypeRequest(t, api.NewTypeRequest("hello world", testPIN)), svc.Dispatcher)
	assert.Equal(t, first.Code, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, []string{"hello world", "hello world"}, typedTexts(rn))
}

func TestTypeMethodNotAllowed(t *testing.T) {
	svc, _ := setupTest(t)

	req, _ := http.NewRequest(http.MethodGet, "/type", nil)
	response := executeTestRequest(t, req, svc.Dispatcher)
	require.Equal(t, http.StatusMethodNotAllowed, response.Code)
	assert.JSONEq(t, `{"status":"error","message":"request method not supported"}`, response.Body.String())
}

func TestNotFound(t *testing.T) {
	svc, _ := setupTest(t)

	req, _ := http.NewRequest(http.MethodPost, "/typo", strings.NewReader(`{}`))
	response := executeTestRequest(t, req, svc.Dispatcher)
	require.Equal(t, http.StatusNotFound, response.Code)
	checkHeader(t, response.Result().Header)
}

func TestVersionAndReadiness(t *testing.T) {
	svc, _ := setupTest(t)

	req, _ := http.NewRequest(http.MethodGet, "/version", nil)
	response := executeTestRequest(t, req, svc.Dispatcher)
	require.Equal(t, http.StatusOK, response.Code)
	checkHeader(t, response.Result().Header)
	assert.JSONEq(t, `{"serverVersion":"Keyboard Server: `+Version+`","apiVersion":"`+APIVersion+`"}`, response.Body.String())

	req, _ = http.NewRequest(http.MethodGet, "/ready", nil)
	response = executeTestRequest(t, req, svc.Dispatcher)
	require.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"status":"ready"}`, response.Body.String())
}

func TestCORS(t *testing.T) {
	svc, _ := setupTest(t)
	config.Config().HandleCORS = true
	t.Cleanup(func() { config.Config().HandleCORS = false })

	req, _ := http.NewRequest(http.MethodOptions, "/type", nil)
	req.Header.Set("Origin", "http://phone.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	response := executeTestRequest(t, req, svc.Dispatcher)
	assert.Equal(t, "*", response.Header().Get("Access-Control-Allow-Origin"))
}

func TestCreateNewServerRequiresDispatcher(t *testing.T) {
	_, err := CreateNewServer(nil)
	assert.Error(t, err)
}

func TestSetKeyboardLayout(t *testing.T) {
	svc, rn := setupTest(t)

	assert.True(t, svc.SetKeyboardLayout(context.Background()))
	calls := rn.CallsTo("setxkbmap")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"de"}, calls[0].Args)
	assert.Equal(t, ":1", calls[0].Env["DISPLAY"])

	rn.Handler = func(call runner.Call) ([]byte, apperrors.Error) {
		return nil, runner.ErrCommandNotFound.Msg("command not found: setxkbmap")
	}
	assert.False(t, svc.SetKeyboardLayout(context.Background()))
}

func TestIsAPIVersionCompatible(t *testing.T) {
	assert.True(t, IsAPIVersionCompatible(APIVersion))
	assert.True(t, IsAPIVersionCompatible("1.4.2"))
	assert.False(t, IsAPIVersionCompatible("2.0.0"))
	assert.False(t, IsAPIVersionCompatible("0.9.0"))
	assert.False(t, IsAPIVersionCompatible("not-a-version"))
}
