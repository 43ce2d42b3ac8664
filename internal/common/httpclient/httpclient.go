// Package httpclient is the HTTP client for the keyboard server API. Request
// bodies are assembled with sjson and error messages are pulled out of
// responses with gjson, so a client keeps working against servers that add
// fields to their responses.
package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/tansive/keyboardserver/pkg/api"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Configurator provides the server address and the shared secret.
type Configurator interface {
	GetServerURL() string
	GetPIN() string
}

// HTTPError is a non-2xx response from the server.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// HTTPClient talks to a keyboard server.
type HTTPClient struct {
	config     Configurator
	httpClient *http.Client
}

// ClientOptions configures an HTTPClient.
type ClientOptions struct {
	Timeout time.Duration // whole-request timeout, 0 means none
}

// NewClient returns a client for the server described by config.
func NewClient(config Configurator, opts ...ClientOptions) *HTTPClient {
	clientOpts := ClientOptions{}
	if len(opts) > 0 {
		clientOpts = opts[0]
	}
	return &HTTPClient{
		config:     config,
		httpClient: &http.Client{Timeout: clientOpts.Timeout},
	}
}

// RequestOptions describes a single request.
type RequestOptions struct {
	Method string
	Path   string
	Body   []byte
}

// DoRequest performs the request and returns the response body. Responses
// with a status of 400 or above are returned as *HTTPError.
func (c *HTTPClient) DoRequest(opts RequestOptions) ([]byte, error) {
	u, err := url.Parse(c.config.GetServerURL())
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %v", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL: %q", c.config.GetServerURL())
	}
	u.Path = path.Join("/", u.Path, opts.Path)

	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequest(opts.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode >= 400 {
		if msg := gjson.GetBytes(respBody, "message"); msg.Exists() && msg.String() != "" {
			return nil, &HTTPError{
				StatusCode: resp.StatusCode,
				Message:    msg.String(),
			}
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil, &HTTPError{
				StatusCode: resp.StatusCode,
				Message:    "server doesn't implement this endpoint",
			}
		}
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
		}
	}

	return respBody, nil
}

// TypeText asks the server to type text.
func (c *HTTPClient) TypeText(text string) (*api.TypeResponse, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "text", text)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v", err)
	}
	body, err = sjson.SetBytes(body, "pin", c.config.GetPIN())
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v", err)
	}

	respBody, err := c.DoRequest(RequestOptions{
		Method: http.MethodPost,
		Path:   "type",
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	rsp := &api.TypeResponse{}
	if err := json.Unmarshal(respBody, rsp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}
	return rsp, nil
}

// GetVersion returns the server and API versions.
func (c *HTTPClient) GetVersion() (*api.VersionResponse, error) {
	respBody, err := c.DoRequest(RequestOptions{
		Method: http.MethodGet,
		Path:   "version",
	})
	if err != nil {
		return nil, err
	}
	rsp := &api.VersionResponse{}
	if err := json.Unmarshal(respBody, rsp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}
	return rsp, nil
}

// Ready reports whether the server answers its readiness probe.
func (c *HTTPClient) Ready() (bool, error) {
	respBody, err := c.DoRequest(RequestOptions{
		Method: http.MethodGet,
		Path:   "ready",
	})
	if err != nil {
		return false, err
	}
	return gjson.GetBytes(respBody, "status").String() == "ready", nil
}
