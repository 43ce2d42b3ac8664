package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
	"github.com/tansive/keyboardserver/internal/common/httpx"
	"github.com/tansive/keyboardserver/internal/keyboardserver/config"
	"github.com/tansive/keyboardserver/pkg/api"
)

var requestValidator = validator.New(validator.WithRequiredStructEnabled())

// typeRequest is the server side view of api.TypeRequest. The PIN is kept
// untyped so that a present PIN of any type is checked against the secret.
type typeRequest struct {
	Text *string `mapstructure:"text" validate:"required"`
	PIN  any     `mapstructure:"pin"`
}

// typeText handles POST /type.
func (s *KeyboardServer) typeText(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	req, ok := parseTypeRequest(r)
	if !ok {
		return nil, ErrMissingFields
	}
	text := *req.Text
	log.Ctx(ctx).Info().Str("text", text).Msg("received type request")

	if !pinMatches(req.PIN, config.Config().Auth.PIN) {
		log.Ctx(ctx).Warn().Str("remoteIP", r.RemoteAddr).Msg("invalid PIN received")
		return nil, ErrInvalidPIN
	}

	res, err := s.dispatcher.Dispatch(ctx, text)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to type text")
		return nil, err
	}

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: &api.TypeResponse{
			Status:  api.StatusSuccess,
			Message: res.Message(),
		},
	}, nil
}

// parseTypeRequest decodes the body into a generic object first. Both keys
// must be present with their exact lower-case names; text must be a string.
// The PIN may hold any value and is rejected later by pinMatches.
func parseTypeRequest(r *http.Request) (*typeRequest, bool) {
	var raw map[string]any
	if err := httpx.GetRequestData(r, &raw); err != nil {
		return nil, false
	}
	if _, ok := raw["text"]; !ok {
		return nil, false
	}
	if _, ok := raw["pin"]; !ok {
		return nil, false
	}

	req := &typeRequest{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:    req,
		MatchName: func(mapKey, fieldName string) bool { return mapKey == fieldName },
	})
	if err != nil {
		return nil, false
	}
	if err := decoder.Decode(raw); err != nil {
		log.Ctx(r.Context()).Debug().Err(err).Msg("invalid type request fields")
		return nil, false
	}
	if err := requestValidator.Struct(req); err != nil {
		return nil, false
	}
	return req, true
}

func pinMatches(got any, want string) bool {
	pin, ok := got.(string)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(pin), []byte(want)) == 1
}
