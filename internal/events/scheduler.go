package events

import (
	"context"
	"log/slog"
	"time"

	"seatify/pkg/logger"
)

// StatusScheduler keeps Event.Status consistent with wall-clock time.
// It is the sole writer of status for non-cancelled events; booking
// creation only reads status and re-validates it inside its own
// transaction.
type StatusScheduler struct {
	repo   Repository
	config *SchedulerConfig
	log    *logger.Logger
	done   chan struct{}
}

// SchedulerConfig contains configuration for the status scheduler.
type SchedulerConfig struct {
	Interval time.Duration
	// Now is the time source for transition decisions. Injected so tests
	// can drive ticks deterministically.
	Now func() time.Time
}

// DefaultSchedulerConfig returns the default scheduler configuration.
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		Interval: time.Minute,
		Now:      time.Now,
	}
}

// NewStatusScheduler creates a new status scheduler.
func NewStatusScheduler(repo Repository, config *SchedulerConfig, log *logger.Logger) *StatusScheduler {
	if config == nil {
		config = DefaultSchedulerConfig()
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &StatusScheduler{
		repo:   repo,
		config: config,
		log:    log,
		done:   make(chan struct{}),
	}
}

// Start runs the scheduler loop until Stop is called or ctx is cancelled.
func (s *StatusScheduler) Start(ctx context.Context) {
	go s.run(ctx)
	s.log.Info("event status scheduler started", slog.Duration("interval", s.config.Interval))
}

// Stop terminates the scheduler loop.
func (s *StatusScheduler) Stop() {
	close(s.done)
	s.log.Info("event status scheduler stopped")
}

func (s *StatusScheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick(ctx)
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Tick evaluates every UPCOMING and ONGOING event against the current
// time and advances those whose window has moved on. A failure on one
// event never blocks the rest; a wholesale failure is simply retried on
// the next interval.
func (s *StatusScheduler) Tick(ctx context.Context) {
	now := s.config.Now()

	upcoming, err := s.repo.GetByStatus(ctx, StatusUpcoming)
	if err != nil {
		s.log.Error("scheduler: listing upcoming events failed", slog.Any("error", err))
	} else {
		for i := range upcoming {
			s.advanceUpcoming(ctx, &upcoming[i], now)
		}
	}

	ongoing, err := s.repo.GetByStatus(ctx, StatusOngoing)
	if err != nil {
		s.log.Error("scheduler: listing ongoing events failed", slog.Any("error", err))
		return
	}
	for i := range ongoing {
		if !ongoing[i].EndTime.After(now) {
			s.transition(ctx, &ongoing[i], StatusOngoing, StatusFinished)
		}
	}
}

func (s *StatusScheduler) advanceUpcoming(ctx context.Context, event *Event, now time.Time) {
	if event.StartTime.After(now) {
		return
	}
	// An event whose whole window elapsed between ticks goes straight to
	// FINISHED, skipping ONGOING.
	if event.EndTime.After(now) {
		s.transition(ctx, event, StatusUpcoming, StatusOngoing)
	} else {
		s.transition(ctx, event, StatusUpcoming, StatusFinished)
	}
}

func (s *StatusScheduler) transition(ctx context.Context, event *Event, from, to Status) {
	updated, err := s.repo.TransitionStatus(ctx, event.ID, from, to)
	if err != nil {
		s.log.Error("scheduler: status transition failed",
			slog.Uint64("event_id", uint64(event.ID)),
			slog.String("from", from.String()),
			slog.String("to", to.String()),
			slog.Any("error", err),
		)
		return
	}
	if !updated {
		// Lost to a concurrent writer (externally set CANCELLED). Leave it.
		return
	}
	s.log.LogEventStatusChanged(ctx, event.ID, from.String(), to.String())
}
