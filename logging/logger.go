// Package logging builds the zerolog logger shared by the server and the CLI.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a JSON logger at info level, or a console logger at debug level
// for development. verbose forces debug level.
func New(appEnv string, verbose bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, appEnv, verbose)
}

// NewWithWriter is New with an explicit output.
func NewWithWriter(w io.Writer, appEnv string, verbose bool) zerolog.Logger {
	dev := appEnv == "development" || appEnv == "dev"
	level := zerolog.InfoLevel
	if dev || verbose {
		level = zerolog.DebugLevel
	}
	if dev {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
