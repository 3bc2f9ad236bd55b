package cubesketch

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"

	"github.com/google/uuid"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// DefaultLogger writes DEBUG and INFO to one writer and WARN and ERROR to
// another, each line as "[prefix] LEVEL: message".
type DefaultLogger struct {
	debug  atomic.Bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return newLogger(prefix, debug, os.Stdout, os.Stderr)
}

// NewSessionLogger tags the prefix with a fresh session id so that logs of
// concurrent runs on one machine can be told apart.
func NewSessionLogger(prefix string, debug bool) *DefaultLogger {
	session := uuid.NewString()[:8]
	if prefix == "" {
		return NewDefaultLogger(session, debug)
	}
	return NewDefaultLogger(prefix+" "+session, debug)
}

func newLogger(prefix string, debug bool, out, errOut io.Writer) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	l := &DefaultLogger{
		prefix: prefix,
		out:    log.New(out, "", flags),
		err:    log.New(errOut, "", flags),
	}
	l.debug.Store(debug)
	return l
}

func (l *DefaultLogger) DebugEnabled() bool    { return l.debug.Load() }
func (l *DefaultLogger) SetDebug(enabled bool) { l.debug.Store(enabled) }

func (l *DefaultLogger) logf(lv level, format string, args []any) {
	if lv == levelDebug && !l.DebugEnabled() {
		return
	}
	dst := l.out
	if lv >= levelWarn {
		dst = l.err
	}
	msg := fmt.Sprintf(format, args...)
	if l.prefix == "" {
		dst.Printf("%s: %s", levelNames[lv], msg)
		return
	}
	dst.Printf("[%s] %s: %s", l.prefix, levelNames[lv], msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.logf(levelDebug, format, args) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.logf(levelInfo, format, args) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.logf(levelWarn, format, args) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.logf(levelError, format, args) }

type nopLogger struct{}

func NewNopLogger() Logger { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}

// OrNop returns l, or a no-op logger when l is nil. Never returns nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}
