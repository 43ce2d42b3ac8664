package httpclient

import "github.com/tansive/keyboardserver/pkg/api"

// HTTPClientInterface is the set of server operations used by the CLI.
type HTTPClientInterface interface {
	DoRequest(opts RequestOptions) ([]byte, error)
	TypeText(text string) (*api.TypeResponse, error)
	GetVersion() (*api.VersionResponse, error)
	Ready() (bool, error)
}

var _ HTTPClientInterface = &HTTPClient{}
