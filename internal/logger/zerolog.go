package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type ZerologAdapter struct {
	logger  zerolog.Logger
	closers []io.Closer
}

func NewZerolog(writer io.Writer, level zerolog.Level, session string) *ZerologAdapter {
	ctx := zerolog.New(writer).
		Level(level).
		With().
		Timestamp()

	if session != "" {
		ctx = ctx.Str("session", session)
	}

	return &ZerologAdapter{logger: ctx.Logger()}
}

// NewConsoleLogger writes human-readable output to stderr.
func NewConsoleLogger(level zerolog.Level, session string) *ZerologAdapter {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr}
	return NewZerolog(consoleWriter, level, session)
}

// NewFileConsoleLogger writes console output to stderr and JSON lines to
// the given file, mirroring the launcher's historical webui.log behavior.
func NewFileConsoleLogger(path string, level zerolog.Level, session string) (*ZerologAdapter, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr}
	adapter := NewZerolog(zerolog.MultiLevelWriter(consoleWriter, file), level, session)
	adapter.closers = append(adapter.closers, file)
	return adapter, nil
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (z *ZerologAdapter) Debug(component, message string, fields map[string]interface{}) {
	event := z.logger.Debug().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

func (z *ZerologAdapter) Info(component, message string, fields map[string]interface{}) {
	event := z.logger.Info().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

func (z *ZerologAdapter) Warning(component, message string, fields map[string]interface{}) {
	event := z.logger.Warn().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

func (z *ZerologAdapter) Error(component string, err error, fields map[string]interface{}) {
	event := z.logger.Error().Str("component", component).Err(err)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg("operation failed")
}

// Close releases the log file when one was opened.
func (z *ZerologAdapter) Close() error {
	var firstErr error
	for _, c := range z.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
