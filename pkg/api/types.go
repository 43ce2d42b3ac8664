// Package api defines the JSON request and response bodies of the keyboard
// server HTTP API.
package api

// Values of TypeResponse.Status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// TypeRequest is the body of POST /type. Both fields are required; a nil
// pointer means the key was absent.
type TypeRequest struct {
	Text *string `json:"text" mapstructure:"text" validate:"required"`
	PIN  *string `json:"pin" mapstructure:"pin" validate:"required"`
}

// NewTypeRequest returns a TypeRequest with both fields set.
func NewTypeRequest(text, pin string) *TypeRequest {
	return &TypeRequest{Text: &text, PIN: &pin}
}

// TypeResponse is the body of every /type response.
type TypeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// VersionResponse is the body of GET /version.
type VersionResponse struct {
	ServerVersion string `json:"serverVersion"`
	ApiVersion    string `json:"apiVersion"`
}

// ReadyResponse is the body of GET /ready.
type ReadyResponse struct {
	Status string `json:"status"`
}
