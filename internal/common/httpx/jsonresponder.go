package httpx

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/tansive/keyboardserver/internal/common/logtrace"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SendJsonRsp sends msg as a JSON response. msg may be a struct, a map, or
// pre-marshaled JSON as a string or []byte.
func SendJsonRsp(ctx context.Context, w http.ResponseWriter, statusCode int, msg any) {
	var msgJson []byte
	switch v := msg.(type) {
	case string:
		if json.Valid([]byte(v)) {
			msgJson = []byte(v)
		}
	case []byte:
		if json.Valid(v) {
			msgJson = v
		}
	}
	if msgJson == nil {
		var err error
		msgJson, err = json.Marshal(msg)
		if err != nil {
			log.Ctx(ctx).Err(err).Msg("unable to marshal json")
			ErrApplicationError("Id: " + logtrace.RequestIdFromContext(ctx)).Send(w)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(msgJson)
}
