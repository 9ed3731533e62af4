// Package notify delivers human-readable events. Every sink is
// fire-and-forget: Notify never returns an error and never blocks on
// network I/O.
package notify

import (
	"log"
	"time"
)

type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Notification is one delivered event.
type Notification struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Severity Severity  `json:"type"`
	Time     time.Time `json:"time"`
	Read     bool      `json:"read"`
}

type Sink interface {
	Notify(title, message string, sev Severity)
}

// Func adapts a function to a Sink.
type Func func(title, message string, sev Severity)

func (f Func) Notify(title, message string, sev Severity) { f(title, message, sev) }

// Fanout forwards to every sink in order.
type Fanout []Sink

func (f Fanout) Notify(title, message string, sev Severity) {
	for _, s := range f {
		if s != nil {
			s.Notify(title, message, sev)
		}
	}
}

// Discard drops every event.
type Discard struct{}

func (Discard) Notify(string, string, Severity) {}

// LogSink writes events through the standard logger.
type LogSink struct {
	Logger *log.Logger
}

func (l LogSink) Notify(title, message string, sev Severity) {
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("[%s] %s: %s", sev, title, message)
}
