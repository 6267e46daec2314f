// Package notify defines the notification boundary: a consumed capability to
// surface a dismissible message, optionally with a retry action, to the end
// user.
package notify

import "log/slog"

// Notifier surfaces messages to the end user. Implementations decide how a
// message is rendered; retry, when non-nil, is offered as a "try again"
// action.
type Notifier interface {
	Error(message string, retry func())
	Success(title, description string)
}

// Log is a Notifier that records notifications through the service logger.
// It stands in for the interactive toast surface during server-side flows.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a logger-backed Notifier.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger.With("system", "notify")}
}

func (l *Log) Error(message string, retry func()) {
	l.logger.Warn("user notification", "severity", "error", "message", message, "retryable", retry != nil)
}

func (l *Log) Success(title, description string) {
	l.logger.Info("user notification", "severity", "success", "title", title, "description", description)
}
