package log

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

func init() {
	logger = New(os.Getenv("LOG_LEVEL"), os.Stdout)
}

// New builds a logger writing to out at the named level (debug, info, warn, error).
// Unknown or empty levels fall back to info.
func New(level string, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	switch strings.ToLower(level) {
	case "debug":
		l.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		l.SetLevel(logrus.WarnLevel)
	case "error":
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return l
}

// GetLogger returns the shared process logger.
func GetLogger() *logrus.Logger {
	return logger
}

// SetLevel adjusts the shared logger once configuration is known.
func SetLevel(level string) {
	logger.SetLevel(New(level, io.Discard).GetLevel())
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *logrus.Logger {
	return New("error", io.Discard)
}
