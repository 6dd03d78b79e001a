package taskgraph

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/readmegen/internal/logfields"
)

// Observer receives progress notifications for non-silent tasks.
type Observer interface {
	OnTaskStart(name string)
	OnTaskDone(name string, d time.Duration, err error)
}

// NoopObserver ignores all notifications.
type NoopObserver struct{}

func (NoopObserver) OnTaskStart(string)                      {}
func (NoopObserver) OnTaskDone(string, time.Duration, error) {}

// LogObserver reports task progress through a logger at info level.
type LogObserver struct {
	Logger *slog.Logger
}

func (o LogObserver) OnTaskStart(name string) {
	o.logger().Info("Starting task", logfields.Task(name))
}

func (o LogObserver) OnTaskDone(name string, d time.Duration, err error) {
	ms := float64(d.Microseconds()) / 1000
	if err != nil {
		o.logger().Error("Task failed", logfields.Task(name), logfields.DurationMS(ms), logfields.Error(err))
		return
	}
	o.logger().Info("Finished task", logfields.Task(name), logfields.DurationMS(ms))
}

func (o LogObserver) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}
