package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mickamy/pressroom/internal/config"
)

const timeFormat = "2006-01-02 15:04:05"

// Apply sets the global log level and output writers (console plus an
// optional rotating file).
func Apply(cfg config.Log) {
	applyLevel(cfg.Level)
	log.Logger = zerolog.New(output(cfg)).With().Timestamp().Logger()
}

// Verbosity maps a -v flag count onto a level name; zero keeps fallback.
func Verbosity(count int, fallback string) string {
	switch {
	case count >= 2:
		return "trace"
	case count == 1:
		return "debug"
	default:
		return fallback
	}
}

func applyLevel(level string) {
	switch level {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func output(cfg config.Log) io.Writer {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: timeFormat}
	if cfg.File == "" {
		return console
	}

	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error().Err(err).Str("path", cfg.File).Msg("Failed to prepare log directory; logging to console only")
			return console
		}
	}

	file := zerolog.ConsoleWriter{
		Out: &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		},
		TimeFormat: timeFormat,
		NoColor:    true,
	}
	return zerolog.MultiLevelWriter(console, file)
}

// QueryLogger writes every SQL statement to the global logger at trace level.
type QueryLogger struct{}

func (QueryLogger) Log(_ context.Context, query string, args ...any) {
	log.Trace().Str("sql", query).Interface("args", args).Msg("Query")
}
