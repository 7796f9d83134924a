package std

import (
	"fmt"
	"io"
	"os"

	"github.com/ezraisw/joblock/logger"
)

type stdLogger struct {
	out   io.Writer
	err   io.Writer
	debug bool
}

// NewLogger prints everything to stdout, errors to stderr.
func NewLogger() logger.Logger {
	return NewLoggerTo(os.Stdout, os.Stderr, true)
}

// NewLoggerTo prints to the given writers. Debug lines are dropped unless debug is set.
func NewLoggerTo(out io.Writer, err io.Writer, debug bool) logger.Logger {
	return &stdLogger{
		out:   out,
		err:   err,
		debug: debug,
	}
}

func (l stdLogger) Info(args ...interface{}) {
	fmt.Fprintln(l.out, args...)
}

func (l stdLogger) Debug(args ...interface{}) {
	if !l.debug {
		return
	}
	fmt.Fprintln(l.out, args...)
}

func (l stdLogger) Error(args ...interface{}) {
	fmt.Fprintln(l.err, args...)
}
