package common

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// Logger is the leveled logging interface used across the engine. Components
// take a Logger through their builder options and fall back to a no-op
// logger when none is provided.
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes INFO/DEBUG lines to stdout and WARN/ERROR lines to
// stderr through the standard library logger.
type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

// NewDefaultLogger creates a DefaultLogger.
//
// Parameters:
//   - prefix: tag printed in brackets before each message (may be empty)
//   - debug: whether Debugf output is enabled
//
// Returns:
//   - *DefaultLogger: the logger
func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
		out:    log.New(os.Stdout, "", flags),
		err:    log.New(os.Stderr, "", flags),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) prefixf(level string, format string, args ...any) string {
	if l.prefix != "" {
		return fmt.Sprintf("[%s] %s: %s", l.prefix, level, fmt.Sprintf(format, args...))
	}
	return fmt.Sprintf("%s: %s", level, fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.out.Print(l.prefixf("DEBUG", format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Print(l.prefixf("INFO", format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.err.Print(l.prefixf("WARN", format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Print(l.prefixf("ERROR", format, args...))
}

type nopLogger struct{}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool                { return false }
func (nopLogger) SetDebug(enabled bool)             {}
func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}

// MemoryLogger keeps formatted messages in memory, one slice per level.
// Debug messages are kept only when debug is enabled.
type MemoryLogger struct {
	mu    sync.Mutex
	debug bool
	Debug []string
	Info  []string
	Warn  []string
	Error []string
}

// NewMemoryLogger creates an empty MemoryLogger.
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *MemoryLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *MemoryLogger) record(dst *[]string, format string, args ...any) {
	l.mu.Lock()
	*dst = append(*dst, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func (l *MemoryLogger) Debugf(format string, args ...any) {
	if l.DebugEnabled() {
		l.record(&l.Debug, format, args...)
	}
}

func (l *MemoryLogger) Infof(format string, args ...any)  { l.record(&l.Info, format, args...) }
func (l *MemoryLogger) Warnf(format string, args ...any)  { l.record(&l.Warn, format, args...) }
func (l *MemoryLogger) Errorf(format string, args ...any) { l.record(&l.Error, format, args...) }

// Warnings returns a copy of the recorded warnings.
func (l *MemoryLogger) Warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Warn...)
}

// Infos returns a copy of the recorded info messages.
func (l *MemoryLogger) Infos() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Info...)
}

// Errors returns a copy of the recorded errors.
func (l *MemoryLogger) Errors() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Error...)
}
