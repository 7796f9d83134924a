package logrus

import (
	"github.com/ezraisw/joblock/logger"
	"github.com/sirupsen/logrus"
)

type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogger logs through l, tagging every line with component=joblock.
func NewLogger(l *logrus.Logger) logger.Logger {
	return &logrusLogger{
		entry: l.WithField("component", "joblock"),
	}
}

func (l logrusLogger) Info(args ...interface{}) {
	l.entry.Info(args...)
}

func (l logrusLogger) Debug(args ...interface{}) {
	l.entry.Debug(args...)
}

func (l logrusLogger) Error(args ...interface{}) {
	l.entry.Error(args...)
}
