package post

import "github.com/charmbracelet/log"

// Notifier reports transient, user-visible outcomes.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier reports through a logger.
type LogNotifier struct {
	Logger *log.Logger
}

// Success logs msg at info level.
func (n LogNotifier) Success(msg string) {
	n.logger().Info(msg)
}

// Error logs msg at error level.
func (n LogNotifier) Error(msg string) {
	n.logger().Error(msg)
}

func (n LogNotifier) logger() *log.Logger {
	if n.Logger == nil {
		return log.Default()
	}
	return n.Logger
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}
