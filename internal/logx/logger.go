package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Simplici0/b2b-catalog/internal/config"
)

// Init configures the global logger: JSON at info level in production,
// a human readable console writer at debug level everywhere else.
func Init(env config.Environment) {
	InitWriter(env, os.Stderr)
}

// InitWriter is Init with an explicit destination.
func InitWriter(env config.Environment, w io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if env.IsProduction() {
		log.Logger = zerolog.New(w).With().Timestamp().Logger().Level(zerolog.InfoLevel)
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Caller().Logger().Level(zerolog.DebugLevel)
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
