package services

import (
	"log/slog"
	"time"

	"github.com/exercise-tracker/apiserver/internal/mq"
)

// Option configures a service.
type Option func(*options)

type options struct {
	events mq.Publisher
	logger *slog.Logger
	now    func() time.Time
}

// WithEvents publishes domain events through pub. A nil pub disables events.
func WithEvents(pub mq.Publisher) Option {
	return func(o *options) { o.events = pub }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source used to default exercise dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
