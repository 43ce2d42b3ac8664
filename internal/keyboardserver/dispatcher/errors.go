package dispatcher

import (
	"net/http"

	"github.com/tansive/keyboardserver/internal/common/apperrors"
)

// ErrDispatchFailed is returned when a type or confirm action fails. Its
// message is what API clients see; the underlying cause is only logged.
var ErrDispatchFailed = apperrors.New("Failed to type text").SetStatusCode(http.StatusInternalServerError)
