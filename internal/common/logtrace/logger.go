// Package logtrace configures the global zerolog logger and carries request
// identifiers through contexts.
package logtrace

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the global logger to write JSON lines to stderr with
// Unix millisecond timestamps at the given level. An unknown or empty level
// falls back to info.
func InitLogger(level string) {
	initLogger(os.Stderr, level)
}

func initLogger(w io.Writer, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
