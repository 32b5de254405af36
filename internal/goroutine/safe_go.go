package goroutine

import (
	"fmt"
	"runtime/debug"
)

// Logger is the error logging dependency of the recovery handler.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler runs goroutines with panic recovery.
type RecoveryHandler struct {
	logger Logger
}

// NewRecoveryHandler creates a handler logging through the given logger.
func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// SafeGo starts a goroutine that logs instead of crashing on panic.
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				rh.logger.Errorf("Panic in goroutine: %v\nStack trace:\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// SimpleLogger is a fallback Logger writing to stdout.
type SimpleLogger struct{}

func (l *SimpleLogger) Errorf(format string, args ...interface{}) {
	fmt.Printf("[ERROR] "+format+"\n", args...)
}

// DefaultRecoveryHandler is the global handler with the fallback logger.
var DefaultRecoveryHandler = NewRecoveryHandler(&SimpleLogger{})

// SafeGo starts a panic-safe goroutine with the default handler.
func SafeGo(fn func()) {
	DefaultRecoveryHandler.SafeGo(fn)
}
