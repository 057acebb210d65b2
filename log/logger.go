/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package log provides a structured logger built on top of github.com/ssgreg/logf.
package log

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ssgreg/logf"
	"github.com/ssgreg/logftext"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Field is a typed key-value pair attached to a log entry.
type Field = logf.Field

// LogFunc logs a message at a level bound beforehand.
type LogFunc = logf.LogFunc

// Field constructors.
var (
	String   = logf.String
	Int      = logf.Int
	Bool     = logf.Bool
	Duration = logf.Duration
	Any      = logf.Any
	// Error makes a field with the "error" key.
	Error = logf.Error
)

// FieldLogger is a leveled structured logger.
type FieldLogger interface {
	With(fields ...Field) FieldLogger
	WithLevel(level Level) FieldLogger

	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// AtLevel calls fn only if messages at level are enabled,
	// so expensive fields are built only when they are written.
	AtLevel(level Level, fn func(logFunc LogFunc))
}

// CloseFunc flushes pending entries and releases the output.
type CloseFunc func()

// LogfAdapter implements FieldLogger with a logf.Logger.
type LogfAdapter struct {
	Logger *logf.Logger
}

var _ FieldLogger = (*LogfAdapter)(nil)

func (l *LogfAdapter) With(fields ...Field) FieldLogger {
	return &LogfAdapter{Logger: l.Logger.With(fields...)}
}

// WithLevel returns a logger that additionally drops messages below level.
func (l *LogfAdapter) WithLevel(level Level) FieldLogger {
	return &LogfAdapter{Logger: l.Logger.WithLevel(level.Logf())}
}

func (l *LogfAdapter) Debug(msg string, fields ...Field) { l.Logger.Debug(msg, fields...) }
func (l *LogfAdapter) Info(msg string, fields ...Field)  { l.Logger.Info(msg, fields...) }
func (l *LogfAdapter) Warn(msg string, fields ...Field)  { l.Logger.Warn(msg, fields...) }
func (l *LogfAdapter) Error(msg string, fields ...Field) { l.Logger.Error(msg, fields...) }

func (l *LogfAdapter) AtLevel(level Level, fn func(logFunc LogFunc)) {
	l.Logger.AtLevel(level.Logf(), fn)
}

// NewDisabledLogger returns a logger that drops everything.
func NewDisabledLogger() FieldLogger {
	return &LogfAdapter{Logger: logf.NewDisabledLogger()}
}

// NewLogger creates a logger writing to the output described by cfg.
// Entries are written asynchronously; the returned CloseFunc must be called before exit.
func NewLogger(cfg *Config) (FieldLogger, CloseFunc) {
	w := openOutput(cfg)
	logger, flush := newLogger(cfg, w)
	return logger, func() {
		flush()
		if c, ok := w.(io.Closer); ok {
			_ = c.Close()
		}
	}
}

func newLogger(cfg *Config, w io.Writer) (FieldLogger, CloseFunc) {
	channel, flush := logf.NewChannelWriter(logf.ChannelWriterConfig{
		Appender:          newAppender(cfg, w),
		EnableSyncOnError: true,
	})
	logger := logf.NewLogger(cfg.Level.Logf(), channel).With(logf.Int("pid", os.Getpid()))
	if cfg.AddCaller {
		logger = logger.WithCaller().WithCallerSkip(1)
	}
	return &LogfAdapter{Logger: logger}, CloseFunc(flush)
}

// openOutput returns stdout or stderr as is, and a rotating file writer for file output.
func openOutput(cfg *Config) io.Writer {
	switch cfg.Output {
	case OutputStderr:
		return os.Stderr
	case OutputFile:
		return &lumberjack.Logger{
			Filename:   expandFilePath(cfg.File.Path, time.Now()),
			MaxSize:    int(cfg.File.MaxSize / (1 << 20)), // in megabytes
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		}
	default:
		return os.Stdout
	}
}

func newAppender(cfg *Config, w io.Writer) logf.Appender {
	if cfg.Format == FormatText {
		noColor := cfg.NoColor
		return logftext.NewAppender(w, logftext.EncoderConfig{
			NoColor:    &noColor,
			EncodeTime: logf.RFC3339NanoTimeEncoder,
		})
	}
	return logf.NewWriteAppender(w, logf.NewJSONEncoder(logf.JSONEncoderConfig{
		FieldKeyTime: "time",
		EncodeTime:   logf.RFC3339NanoTimeEncoder,
	}))
}

// expandFilePath replaces {{pid}} and {{starttime}} in the log file path.
func expandFilePath(path string, start time.Time) string {
	return strings.NewReplacer(
		"{{pid}}", strconv.Itoa(os.Getpid()),
		"{{starttime}}", start.Format("200601021504"),
	).Replace(path)
}
