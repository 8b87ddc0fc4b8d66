// Package logx provides small leveled loggers, one per named module.
package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sugawarayuuta/sonnet"
)

// Level is a log severity. Messages below a logger's level are dropped.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

var (
	regMu   sync.Mutex
	loggers = make(map[string]*Logger)
)

// Get returns the logger registered for module, creating it on first use
// with level Warn and stderr output.
func Get(module string) *Logger {
	regMu.Lock()
	defer regMu.Unlock()
	if l, ok := loggers[module]; ok {
		return l
	}
	l := newLogger(module)
	loggers[module] = l
	return l
}

// Logger writes leveled, timestamped messages for one module. Safe for
// concurrent use.
type Logger struct {
	module string
	level  atomic.Int32
	json   atomic.Bool

	mu  sync.Mutex
	out io.Writer
}

func newLogger(module string) *Logger {
	l := &Logger{module: module, out: os.Stderr}
	l.level.Store(int32(LevelWarn))
	return l
}

// SetLevel sets the minimum severity this logger emits.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// Level returns the current minimum severity.
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// SetOutput redirects the logger. Use io.MultiWriter to log to console
// and file at once.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

// SetJSON switches between the plain text format and one sonnet-encoded
// JSON record per line.
func (l *Logger) SetJSON(enabled bool) {
	l.json.Store(enabled)
}

// Module returns the module name this logger was registered under.
func (l *Logger) Module() string {
	return l.module
}

type record struct {
	Time   string `json:"time"`
	Level  string `json:"level"`
	Module string `json:"module"`
	Caller string `json:"caller"`
	Msg    string `json:"msg"`
}

func (l *Logger) log(level Level, format string, args ...any) {
	if level < l.Level() {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	caller := "???"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	msg := fmt.Sprintf(format, args...)

	var out []byte
	if l.json.Load() {
		b, err := sonnet.Marshal(record{
			Time:   ts,
			Level:  level.String(),
			Module: l.module,
			Caller: caller,
			Msg:    msg,
		})
		if err != nil {
			// Fall back to the plain format rather than dropping the line.
			out = []byte(fmt.Sprintf("%s [%s] %s %s %s\n", ts, level, l.module, caller, msg))
		} else {
			out = append(b, '\n')
		}
	} else {
		out = []byte(fmt.Sprintf("%s [%s] %s %s %s\n", ts, level, l.module, caller, msg))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Write(out)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Fatalf logs at fatal level. It does not exit the process; fatal is only
// the highest severity.
func (l *Logger) Fatalf(format string, args ...any) {
	l.log(LevelFatal, format, args...)
}
