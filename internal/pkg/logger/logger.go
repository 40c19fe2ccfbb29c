// Package logger adapts zerolog to the ports.Logger interface.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger routes structured application logs through zerolog.
type ZeroLogger struct {
	zlog zerolog.Logger
}

// New creates a ZeroLogger. When verbose is false every event is discarded so
// diagnostics never interleave with command output.
func New(verbose bool) *ZeroLogger {
	if !verbose {
		return &ZeroLogger{zlog: zerolog.Nop()}
	}
	return NewWithWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, zerolog.DebugLevel)
}

// NewWithWriter creates a ZeroLogger writing to w at the given minimum level.
func NewWithWriter(w io.Writer, level zerolog.Level) *ZeroLogger {
	zlog := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &ZeroLogger{zlog: zlog}
}

func (l *ZeroLogger) Debug(msg string, fields map[string]interface{}) {
	l.zlog.Debug().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Info(msg string, fields map[string]interface{}) {
	l.zlog.Info().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Warn(msg string, fields map[string]interface{}) {
	l.zlog.Warn().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.zlog.Error().Err(err).Fields(fields).Msg(msg)
}
