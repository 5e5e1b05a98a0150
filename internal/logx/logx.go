// Package logx is the leveled, colorized logger handed to every stage of a run.
// A nil *Logger discards everything, so tests and library callers can pass nil.
package logx

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

type Logger struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
	now   func() time.Time

	debug *color.Color
	info  *color.Color
	warn  *color.Color
	ok    *color.Color
	fail  *color.Color
}

func New(w io.Writer, level Level) *Logger {
	return &Logger{
		w:     w,
		level: level,
		now:   time.Now,
		debug: color.New(color.FgHiBlack),
		info:  color.New(color.FgBlue),
		warn:  color.New(color.FgYellow),
		ok:    color.New(color.FgGreen),
		fail:  color.New(color.FgRed),
	}
}

// Discard returns a logger that writes nowhere.
func Discard() *Logger { return New(io.Discard, LevelError+1) }

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, "debug", format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, "info", format, args...) }
func (l *Logger) Okf(format string, args ...any)    { l.logf(LevelInfo, "ok", format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, "warn", format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, "error", format, args...) }

func (l *Logger) logf(level Level, tag, format string, args ...any) {
	if l == nil || level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var c *color.Color
	switch tag {
	case "debug":
		c = l.debug
	case "ok":
		c = l.ok
	case "warn":
		c = l.warn
	case "error":
		c = l.fail
	default:
		c = l.info
	}
	ts := l.now().Format("15:04:05.000")
	fmt.Fprintf(l.w, "%s %s %s\n", ts, c.Sprint("["+tag+"]"), fmt.Sprintf(format, args...))
}
