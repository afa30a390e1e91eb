package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"seatify/internal/shared/apperrors"
	"seatify/pkg/logger"
)

type fakeEventRepo struct {
	events map[uint]*Event
	// failTransition makes TransitionStatus error for the given event id.
	failTransition uint
}

func newFakeEventRepo(evts ...Event) *fakeEventRepo {
	repo := &fakeEventRepo{events: make(map[uint]*Event)}
	for i := range evts {
		e := evts[i]
		repo.events[e.ID] = &e
	}
	return repo
}

func (f *fakeEventRepo) GetByID(_ context.Context, id uint) (*Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, apperrors.NotFound("event not found")
	}
	return e, nil
}

func (f *fakeEventRepo) GetByStatus(_ context.Context, status Status) ([]Event, error) {
	var out []Event
	for _, e := range f.events {
		if e.Status == status {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) List(_ context.Context, _ EventListQuery) ([]Event, int64, error) {
	var out []Event
	for _, e := range f.events {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeEventRepo) TransitionStatus(_ context.Context, id uint, from, to Status) (bool, error) {
	if f.failTransition == id {
		return false, errors.New("database unavailable")
	}
	e, ok := f.events[id]
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	return true, nil
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestScheduler(repo Repository) *StatusScheduler {
	return NewStatusScheduler(repo, &SchedulerConfig{Interval: time.Minute, Now: fixedNow}, logger.GetDefault())
}

func TestTickActivatesStartedEvent(t *testing.T) {
	t.Parallel()

	now := fixedNow()
	repo := newFakeEventRepo(Event{
		ID:        1,
		Status:    StatusUpcoming,
		StartTime: now.Add(-10 * time.Minute),
		EndTime:   now.Add(2 * time.Hour),
	})

	newTestScheduler(repo).Tick(context.Background())

	if got := repo.events[1].Status; got != StatusOngoing {
		t.Errorf("status = %s, want %s", got, StatusOngoing)
	}
}

func TestTickLeavesFutureEventAlone(t *testing.T) {
	t.Parallel()

	now := fixedNow()
	repo := newFakeEventRepo(Event{
		ID:        1,
		Status:    StatusUpcoming,
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(3 * time.Hour),
	})

	newTestScheduler(repo).Tick(context.Background())

	if got := repo.events[1].Status; got != StatusUpcoming {
		t.Errorf("status = %s, want %s", got, StatusUpcoming)
	}
}

func TestTickSkipsOngoingForElapsedEvent(t *testing.T) {
	t.Parallel()

	// Whole event window fell between ticks.
	now := fixedNow()
	repo := newFakeEventRepo(Event{
		ID:        1,
		Status:    StatusUpcoming,
		StartTime: now.Add(-3 * time.Hour),
		EndTime:   now.Add(-time.Hour),
	})

	newTestScheduler(repo).Tick(context.Background())

	if got := repo.events[1].Status; got != StatusFinished {
		t.Errorf("status = %s, want %s", got, StatusFinished)
	}
}

func TestTickFinishesEndedOngoingEvent(t *testing.T) {
	t.Parallel()

	now := fixedNow()
	repo := newFakeEventRepo(
		Event{
			ID:        1,
			Status:    StatusOngoing,
			StartTime: now.Add(-4 * time.Hour),
			EndTime:   now.Add(-time.Minute),
		},
		Event{
			ID:        2,
			Status:    StatusOngoing,
			StartTime: now.Add(-time.Hour),
			EndTime:   now.Add(time.Hour),
		},
	)

	newTestScheduler(repo).Tick(context.Background())

	if got := repo.events[1].Status; got != StatusFinished {
		t.Errorf("ended event status = %s, want %s", got, StatusFinished)
	}
	if got := repo.events[2].Status; got != StatusOngoing {
		t.Errorf("running event status = %s, want %s", got, StatusOngoing)
	}
}

func TestTickNeverTouchesCancelledEvents(t *testing.T) {
	t.Parallel()

	now := fixedNow()
	repo := newFakeEventRepo(Event{
		ID:        1,
		Status:    StatusCancelled,
		StartTime: now.Add(-2 * time.Hour),
		EndTime:   now.Add(-time.Hour),
	})

	newTestScheduler(repo).Tick(context.Background())

	if got := repo.events[1].Status; got != StatusCancelled {
		t.Errorf("status = %s, want %s", got, StatusCancelled)
	}
}

func TestTickContinuesPastFailingEvent(t *testing.T) {
	t.Parallel()

	now := fixedNow()
	repo := newFakeEventRepo(
		Event{
			ID:        1,
			Status:    StatusUpcoming,
			StartTime: now.Add(-time.Hour),
			EndTime:   now.Add(time.Hour),
		},
		Event{
			ID:        2,
			Status:    StatusUpcoming,
			StartTime: now.Add(-time.Hour),
			EndTime:   now.Add(time.Hour),
		},
	)
	repo.failTransition = 1

	newTestScheduler(repo).Tick(context.Background())

	if got := repo.events[1].Status; got != StatusUpcoming {
		t.Errorf("failing event status = %s, want unchanged %s", got, StatusUpcoming)
	}
	if got := repo.events[2].Status; got != StatusOngoing {
		t.Errorf("healthy event status = %s, want %s", got, StatusOngoing)
	}
}

func TestTickToleratesLostTransitionRace(t *testing.T) {
	t.Parallel()

	now := fixedNow()
	repo := newFakeEventRepo(Event{
		ID:        1,
		Status:    StatusUpcoming,
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
	})

	// Simulate an admin cancelling between the read and the conditional
	// write: GetByStatus already returned the event as UPCOMING.
	scheduler := newTestScheduler(&racingRepo{fakeEventRepo: repo})
	scheduler.Tick(context.Background())

	if got := repo.events[1].Status; got != StatusCancelled {
		t.Errorf("status = %s, want %s", got, StatusCancelled)
	}
}

// racingRepo flips the event to CANCELLED after the scheduler reads it.
type racingRepo struct {
	*fakeEventRepo
}

func (r *racingRepo) GetByStatus(ctx context.Context, status Status) ([]Event, error) {
	out, err := r.fakeEventRepo.GetByStatus(ctx, status)
	for _, e := range out {
		r.events[e.ID].Status = StatusCancelled
	}
	return out, err
}
