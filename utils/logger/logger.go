// SPDX-License-Identifier: EPL-2.0

// Package logger is a small leveled logger. Lines look like
//
//	2026-01-02 15:04:05.000 [INFO] [Probe] accepted RIFF WAVE
//
// and are coloured by level when the writer is a terminal.
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Level orders messages by severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

var levelNames = [...]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelOff:   "OFF",
}

var levelColors = [...]string{
	LevelDebug: "\x1b[36m",
	LevelInfo:  "\x1b[32m",
	LevelWarn:  "\x1b[33m",
	LevelError: "\x1b[31m",
}

const colorReset = "\x1b[0m"

func (l Level) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}

	return fmt.Sprintf("Level(%d)", int(l))
}

// ErrUnknownLevel is returned by ParseLevel.
var ErrUnknownLevel = errors.New("unknown log level")

// ParseLevel reads a level name, case-insensitively. WARNING is accepted
// for WARN.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "", "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "OFF", "NONE":
		return LevelOff, nil
	}

	return LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Logger writes leveled lines to one writer. It is safe for concurrent
// use.
type Logger struct {
	name  string
	level Level
	color bool
	now   func() time.Time

	mtx *sync.Mutex
	w   io.Writer
}

// NewLogger returns a logger tagged with name. A nil w means stdout.
func NewLogger(name string, level Level, w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}

	l := &Logger{
		name:  name,
		level: level,
		now:   time.Now,
		mtx:   &sync.Mutex{},
		w:     w,
	}

	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		l.w = colorable.NewColorable(f)
		l.color = true
	}

	return l
}

// Named returns a logger writing to the same place under another name.
func (l *Logger) Named(name string) *Logger {
	c := *l
	c.name = name

	return &c
}

func (l *Logger) Level() Level { return l.level }

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool { return level >= l.level && l.level != LevelOff }

func (l *Logger) logf(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}

	tag := level.String()
	if l.color {
		tag = levelColors[level] + tag + colorReset
	}

	line := fmt.Sprintf("%s [%s] [%s] %s\n",
		l.now().Format("2006-01-02 15:04:05.000"), tag, l.name, fmt.Sprintf(format, args...))

	l.mtx.Lock()
	defer l.mtx.Unlock()

	_, _ = io.WriteString(l.w, line)
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }
