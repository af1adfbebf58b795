package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sensortag-bridge/internal/sensor"
)

// Session yields one ordered raw sample per descriptor, or fails the cycle.
type Session interface {
	ReadAll(ctx context.Context, descs []sensor.Descriptor) ([]sensor.RawSample, error)
}

// Publisher delivers one measurement to the broker.
type Publisher interface {
	PublishMeasurement(m sensor.Measurement) error
}

type Options struct {
	Session     Session
	Publisher   Publisher
	Descriptors []sensor.Descriptor
	Identity    sensor.Identity
	Interval    time.Duration
	Logger      *slog.Logger
}

// Loop drives periodic acquisition: read every sensor over one connection,
// decode, publish, then sleep. Cycles never overlap; the inter-cycle pause
// starts after the previous cycle finished. A failed cycle is logged and the
// loop moves on, so one bad cycle cannot take down long-running monitoring.
type Loop struct {
	session   Session
	publisher Publisher
	descs     []sensor.Descriptor
	id        sensor.Identity
	interval  time.Duration
	logger    *slog.Logger
}

func New(opts Options) *Loop {
	return &Loop{
		session:   opts.Session,
		publisher: opts.Publisher,
		descs:     opts.Descriptors,
		id:        opts.Identity,
		interval:  opts.Interval,
		logger:    opts.Logger,
	}
}

// Run cycles until ctx is cancelled. The first cycle starts immediately.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.logger.Error("acquisition cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.interval):
		}
	}
}

func (l *Loop) cycle(ctx context.Context) error {
	samples, err := l.session.ReadAll(ctx, l.descs)
	if err != nil {
		return fmt.Errorf("read sensors: %w", err)
	}

	batch, err := sensor.BuildBatch(samples, l.id)
	if err != nil {
		return fmt.Errorf("build batch: %w", err)
	}

	published := 0
	for _, m := range batch {
		if err := l.publisher.PublishMeasurement(m); err != nil {
			l.logger.Error("observation not published", "kind", m.Kind, "error", err)
			continue
		}
		published++
	}

	l.logger.Info("cycle complete", "measurements", len(batch), "published", published)
	return nil
}
