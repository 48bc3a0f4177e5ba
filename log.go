package canopy

import (
	"os"

	"github.com/rs/zerolog"
)

// NewLogger returns the default structured logger: JSON lines on stderr
// with a timestamp and component=canopy.
func NewLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Str("component", "canopy").Logger()
}

// debugLog receives tree warnings from node operations, which have no Game
// to log through. SetDebugMode points it at the Game's logger.
var debugLog = zerolog.Nop()
