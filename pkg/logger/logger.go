package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type FileConfigs struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type defaultLogger struct {
	inner *logrus.Logger
}

// NewLogger creates a logger writing text lines to stdout. If file is given,
// lines are also written to a rotated log file.
func NewLogger(level int, file *FileConfigs) *defaultLogger {
	inner := logrus.New()
	inner.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var out io.Writer = os.Stdout
	if file != nil && file.Path != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file.Path,
			MaxSize:    file.MaxSizeMB,
			MaxBackups: file.MaxBackups,
			MaxAge:     file.MaxAgeDays,
			Compress:   true,
		})
	}
	inner.SetOutput(out)

	switch level {
	case DEBUG:
		inner.SetLevel(logrus.DebugLevel)
	case INFO:
		inner.SetLevel(logrus.InfoLevel)
	case WARNING:
		inner.SetLevel(logrus.WarnLevel)
	case ERROR:
		inner.SetLevel(logrus.ErrorLevel)
	default:
		inner.SetOutput(io.Discard)
	}

	return &defaultLogger{inner: inner}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	l.inner.Debugf(msg, a...)
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	l.inner.Infof(msg, a...)
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	l.inner.Warnf(msg, a...)
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	l.inner.Errorf(msg, a...)
}

// ParseLevel converts a level name from configs into a level constant. Unknown
// names fall back to INFO.
func ParseLevel(name string) int {
	switch name {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARNING
	case "error":
		return ERROR
	case "silence", "none":
		return SILENCE
	default:
		return INFO
	}
}
