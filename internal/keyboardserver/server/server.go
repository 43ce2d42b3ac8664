// Package server provides the HTTP API of the keyboard server: POST /type
// to inject text into the graphical session, plus version and readiness
// endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/tansive/keyboardserver/internal/common/apperrors"
	"github.com/tansive/keyboardserver/internal/common/httpx"
	"github.com/tansive/keyboardserver/internal/common/logtrace"
	"github.com/tansive/keyboardserver/internal/common/middleware"
	"github.com/tansive/keyboardserver/internal/keyboardserver/config"
	"github.com/tansive/keyboardserver/internal/keyboardserver/dispatcher"
	"github.com/tansive/keyboardserver/pkg/api"
)

// Dispatcher turns request text into keyboard actions.
type Dispatcher interface {
	Dispatch(ctx context.Context, text string) (*dispatcher.Result, apperrors.Error)
}

// KeyboardServer is the HTTP server.
type KeyboardServer struct {
	Router     *chi.Mux
	dispatcher Dispatcher
}

// CreateNewServer returns a server dispatching requests to d.
func CreateNewServer(d Dispatcher) (*KeyboardServer, error) {
	if d == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	return &KeyboardServer{
		Router:     chi.NewRouter(),
		dispatcher: d,
	}, nil
}

// MountHandlers installs middleware and routes.
func (s *KeyboardServer) MountHandlers() {
	s.Router.Use(middleware.RequestLogger)
	s.Router.Use(middleware.PanicHandler)
	if config.Config().HandleCORS {
		s.Router.Use(s.HandleCORS)
	}
	s.Router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.ErrNotFound().Send(w)
	})
	s.Router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.ErrReqMethodNotSupported().Send(w)
	})

	s.Router.Post("/type", httpx.WrapHttpRsp(s.typeText))
	s.Router.Get("/version", s.getVersion)
	s.Router.Get("/ready", s.getReadiness)

	if logtrace.IsTraceEnabled() {
		walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			log.Trace().Str("method", method).Str("route", route).Msg("route")
			return nil
		}
		if err := chi.Walk(s.Router, walkFunc); err != nil {
			log.Error().Err(err).Msg("error walking router")
		}
	}
}

func (s *KeyboardServer) getVersion(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("GetVersion")
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, &api.VersionResponse{
		ServerVersion: "Keyboard Server: " + Version,
		ApiVersion:    APIVersion,
	})
}

func (s *KeyboardServer) getReadiness(w http.ResponseWriter, r *http.Request) {
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, &api.ReadyResponse{Status: "ready"})
}

// HandleCORS allows browser clients on other origins to call the API.
func (s *KeyboardServer) HandleCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}
