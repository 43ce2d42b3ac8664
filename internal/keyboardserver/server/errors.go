package server

import (
	"net/http"

	"github.com/tansive/keyboardserver/internal/common/apperrors"
)

var (
	// ErrMissingFields is returned when the body is not a JSON object with
	// string "text" and "pin" fields.
	ErrMissingFields = apperrors.New("Missing required fields").SetStatusCode(http.StatusBadRequest)

	// ErrInvalidPIN is returned when the pin does not match the shared secret.
	ErrInvalidPIN = apperrors.New("Invalid PIN").SetStatusCode(http.StatusForbidden)
)
