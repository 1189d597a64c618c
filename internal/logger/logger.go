package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Options configures a Logger.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

type implLogger struct {
	logger zerolog.Logger
}

// New creates a console Logger writing to stdout.
func New(level string) Logger {
	return NewWithOptions(Options{Level: level, Format: FormatConsole})
}

// NewWithOptions creates a Logger. Unknown levels fall back to info.
func NewWithOptions(opts Options) Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var w io.Writer = out
	if strings.ToLower(opts.Format) != FormatJSON {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	}

	return &implLogger{
		logger: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &implLogger{logger: zerolog.Nop()}
}

func (l *implLogger) shouldLog(level string) bool {
	target, err := zerolog.ParseLevel(level)
	if err != nil {
		return true
	}
	return target >= l.logger.GetLevel()
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.logger.Debug().Ctx(ctx).Msgf(msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.logger.Info().Ctx(ctx).Msgf(msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.logger.Warn().Ctx(ctx).Msgf(msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.logger.Error().Ctx(ctx).Msgf(msg, args...)
}
