// Package display resolves the X display that simulated input is sent to.
//
// Resolution is best effort and never fails: the DISPLAY environment
// variable wins, then the first graphical login session reported by the
// session-listing utility (a "(:N)" group in `who -u` output), and finally
// the configured default.
package display

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tansive/keyboardserver/internal/keyboardserver/runner"
)

// EnvDisplay is the environment variable that overrides discovery.
const EnvDisplay = "DISPLAY"

// DefaultDisplay is used when nothing else resolves.
const DefaultDisplay = ":0"

// Resolver resolves the target display. It holds no cached state; every
// call to Resolve looks again.
type Resolver struct {
	runner         runner.Runner
	sessionCommand []string
	defaultDisplay string
	lookupEnv      func(string) (string, bool)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSessionCommand sets the session-listing command and its arguments.
func WithSessionCommand(cmd ...string) Option {
	return func(r *Resolver) {
		r.sessionCommand = cmd
	}
}

// WithDefault sets the display returned when discovery finds nothing.
func WithDefault(display string) Option {
	return func(r *Resolver) {
		r.defaultDisplay = display
	}
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(r *Resolver) {
		r.lookupEnv = fn
	}
}

// NewResolver returns a Resolver that lists sessions through rn.
func NewResolver(rn runner.Runner, opts ...Option) *Resolver {
	r := &Resolver{
		runner:         rn,
		sessionCommand: []string{"who", "-u"},
		defaultDisplay: DefaultDisplay,
		lookupEnv:      os.LookupEnv,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the best available display identifier.
func (r *Resolver) Resolve(ctx context.Context) string {
	if d, ok := r.lookupEnv(EnvDisplay); ok && d != "" {
		return d
	}

	if len(r.sessionCommand) > 0 {
		out, err := r.runner.Run(ctx, nil, r.sessionCommand[0], r.sessionCommand[1:]...)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("error getting display")
		} else if d, ok := ParseSessions(string(out)); ok {
			return d
		}
	}

	log.Ctx(ctx).Debug().Str("display", r.defaultDisplay).Msg("no active display found, using default")
	return r.defaultDisplay
}

// ParseSessions scans session-listing output for the first line holding a
// "(:" marker and returns ":" followed by the text up to the next ")".
func ParseSessions(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		_, rest, found := strings.Cut(line, "(:")
		if !found {
			continue
		}
		id, _, _ := strings.Cut(rest, ")")
		return ":" + id, true
	}
	return "", false
}
