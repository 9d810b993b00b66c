package logger

import (
	"errors"
	"fmt"
	"io"
	"log"
)

const colorReset = "\033[0m"

var (
	ErrEmptyPrefix = errors.New("logger prefix is required")
	ErrNilWriter   = errors.New("logger writer is required")
)

// Logger writes leveled lines of the form "[PREFIX] [LEVEL] message", with
// the prefix painted in the logger's colour.
type Logger struct {
	info    *log.Logger
	warning *log.Logger
	err     *log.Logger
}

// New creates a Logger writing to w.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}
	if w == nil {
		return nil, ErrNilWriter
	}

	tag := fmt.Sprintf("%s[%s]%s ", color, prefix, colorReset)
	if color == "" {
		tag = fmt.Sprintf("[%s] ", prefix)
	}

	return &Logger{
		info:    log.New(w, tag+"[INFO] ", log.LstdFlags|log.Lmsgprefix),
		warning: log.New(w, tag+"[WARNING] ", log.LstdFlags|log.Lmsgprefix),
		err:     log.New(w, tag+"[ERROR] ", log.LstdFlags|log.Lmsgprefix),
	}, nil
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.info.Println(msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.warning.Println(msg)
}

// Error logs a failure.
func (l *Logger) Error(msg string) {
	l.err.Println(msg)
}
