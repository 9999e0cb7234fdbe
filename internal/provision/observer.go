package provision

import "log"

// Observer receives progress and warning output during lifecycle operations.
// The CLI installs a console implementation; tests use NopObserver.
type Observer interface {
	// Printf reports normal progress.
	Printf(format string, v ...any)

	// Warnf reports a degraded but non-fatal condition, such as a failed
	// credential transfer on an otherwise healthy instance.
	Warnf(format string, v ...any)
}

// ConsoleObserver writes progress through the standard log package.
type ConsoleObserver struct{}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{}
}

func (o *ConsoleObserver) Printf(format string, v ...any) {
	log.Printf(format, v...)
}

func (o *ConsoleObserver) Warnf(format string, v ...any) {
	log.Printf("warning: "+format, v...)
}

// NopObserver discards all output.
type NopObserver struct{}

func (NopObserver) Printf(string, ...any) {}
func (NopObserver) Warnf(string, ...any)  {}
