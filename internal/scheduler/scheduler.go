// Package scheduler runs the background reminder sweep and fans newly
// triggered reminders out to notifiers.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/notexe/assistant/internal/logging"
	"github.com/notexe/assistant/internal/reminder"
)

const (
	DefaultInterval        = 3 * time.Second
	DefaultDeliveryTimeout = 10 * time.Second
)

// Source is the reminder collection the scheduler sweeps.
// *reminder.Manager satisfies it.
type Source interface {
	Sweep(now time.Time) []reminder.Reminder
	Stats() reminder.Stats
}

type namedNotifier struct {
	name     string
	notifier Notifier
}

// Scheduler periodically sweeps a Source and notifies on fired reminders.
type Scheduler struct {
	source          Source
	notifiers       []namedNotifier
	interval        time.Duration
	deliveryTimeout time.Duration
	metrics         *Metrics
	logger          logging.Logger
	now             func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets the sweep interval.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// WithDeliveryTimeout bounds each individual notifier call.
func WithDeliveryTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.deliveryTimeout = d
		}
	}
}

// WithNotifier registers a notifier under name, which labels its metrics and logs.
func WithNotifier(name string, n Notifier) Option {
	return func(s *Scheduler) {
		if n != nil {
			s.notifiers = append(s.notifiers, namedNotifier{name: name, notifier: n})
		}
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithLogger sets the scheduler logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Scheduler) { s.logger = logging.OrNop(logger) }
}

// WithClock replaces time.Now for the sweep timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Scheduler over source.
func New(source Source, opts ...Option) *Scheduler {
	s := &Scheduler{
		source:          source,
		interval:        DefaultInterval,
		deliveryTimeout: DefaultDeliveryTimeout,
		logger:          logging.Nop(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks and runs Tick on interval + immediately on start.
// It exits when ctx is cancelled. A tick in flight at that moment gets one
// delivery timeout of grace; deliveries not finished by then are dropped.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", s.interval)
	}

	s.logger.Info("Started. Interval: %s, notifiers: %d", s.interval, len(s.notifiers))

	s.Tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Shutting down...")
			return nil
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick performs one sweep and delivers every reminder it fired.
// Notifiers run concurrently; each sees the fired reminders in order.
func (s *Scheduler) Tick(ctx context.Context) {
	start := time.Now()

	fired := s.source.Sweep(s.now())
	for _, r := range fired {
		s.metrics.IncTriggered()
		s.logger.Info("Reminder %d fired: %q", r.ID, r.Label)
	}

	if len(fired) > 0 && len(s.notifiers) > 0 {
		tctx, cancel := s.graceContext(ctx)
		var g errgroup.Group
		for _, n := range s.notifiers {
			g.Go(func() error {
				s.notifyAll(tctx, n, fired)
				return nil
			})
		}
		_ = g.Wait()
		cancel()
	}

	s.metrics.SetPending(s.source.Stats().Pending)
	s.metrics.ObserveSweep(time.Since(start))
}

// graceContext returns a context that ignores ctx's cancellation until one
// delivery timeout has passed since it.
func (s *Scheduler) graceContext(ctx context.Context) (context.Context, context.CancelFunc) {
	tctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(ctx, func() {
		timer := time.NewTimer(s.deliveryTimeout)
		defer timer.Stop()
		select {
		case <-timer.C:
			cancel()
		case <-tctx.Done():
		}
	})
	return tctx, func() {
		stop()
		cancel()
	}
}

func (s *Scheduler) notifyAll(ctx context.Context, n namedNotifier, fired []reminder.Reminder) {
	for i, r := range fired {
		if ctx.Err() != nil {
			dropped := len(fired) - i
			s.logger.Warn("notifier %s: shutting down, dropped %d deliveries", n.name, dropped)
			for range dropped {
				s.metrics.IncDeliveryFailure(n.name, "shutdown")
			}
			return
		}
		s.deliver(ctx, n, r)
	}
}

// deliver calls one notifier with its own timeout under ctx.
func (s *Scheduler) deliver(ctx context.Context, n namedNotifier, r reminder.Reminder) {
	dctx, cancel := context.WithTimeout(ctx, s.deliveryTimeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("notifier %s panicked on reminder %d: %v", n.name, r.ID, p)
			s.metrics.IncDeliveryFailure(n.name, "panic")
		}
	}()

	if err := n.notifier.Notify(dctx, r); err != nil {
		reason := "error"
		switch {
		case ctx.Err() != nil:
			reason = "shutdown"
		case dctx.Err() == context.DeadlineExceeded:
			reason = "timeout"
		}
		s.logger.Warn("notifier %s failed on reminder %d: %v", n.name, r.ID, err)
		s.metrics.IncDeliveryFailure(n.name, reason)
		return
	}
	s.metrics.IncDelivered(n.name)
}
