package bookings

import (
	"context"
	"strings"
	"testing"
	"time"

	"seatify/internal/events"
	"seatify/internal/seats"
	"seatify/internal/shared/apperrors"
	"seatify/internal/users"
)

type fakeBookingRepo struct {
	bookings map[uint]*Booking
	nextID   uint
	// seats mirrors the transactional seat claim and release.
	seats *fakeSeatRepo
	// claimErr overrides the transactional claim outcome.
	claimErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uint]*Booking), nextID: 1}
}

func (f *fakeBookingRepo) CreateWithSeatClaim(_ context.Context, booking *Booking, _ time.Time) error {
	if f.claimErr != nil {
		return f.claimErr
	}
	if f.seats != nil {
		seat, ok := f.seats.seats[booking.SeatID]
		if !ok || seat.EventID != booking.EventID || !seat.IsAvailable {
			return apperrors.Conflict("seat is not available")
		}
		seat.IsAvailable = false
	}
	booking.ID = f.nextID
	f.nextID++
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeBookingRepo) CancelWithSeatRelease(_ context.Context, bookingID uint) error {
	b, ok := f.bookings[bookingID]
	if !ok {
		return apperrors.NotFound("booking not found")
	}
	if !b.Status.CanBeCancelled() {
		return apperrors.Conflict("only booked reservations can be cancelled")
	}
	b.Status = StatusCancelled
	if f.seats != nil {
		if seat, ok := f.seats.seats[b.SeatID]; ok {
			seat.IsAvailable = true
		}
	}
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id uint) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, apperrors.NotFound("booking not found")
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByUserID(_ context.Context, userID uint) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) HasLiveBooking(_ context.Context, userID, eventID uint) (bool, error) {
	for _, b := range f.bookings {
		if b.UserID == userID && b.EventID == eventID && b.Status.IsLive() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) UpdateQRImageURL(_ context.Context, bookingID uint, url string) error {
	if b, ok := f.bookings[bookingID]; ok {
		b.QRImageURL = url
	}
	return nil
}

type fakeEventRepo struct {
	events map[uint]*events.Event
}

func (f *fakeEventRepo) GetByID(_ context.Context, id uint) (*events.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, apperrors.NotFound("event not found")
	}
	return e, nil
}

func (f *fakeEventRepo) GetByStatus(_ context.Context, status events.Status) ([]events.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) List(_ context.Context, _ events.EventListQuery) ([]events.Event, int64, error) {
	return nil, 0, nil
}

func (f *fakeEventRepo) TransitionStatus(_ context.Context, _ uint, _, _ events.Status) (bool, error) {
	return false, nil
}

type fakeSeatRepo struct {
	seats map[uint]*seats.Seat
}

func (f *fakeSeatRepo) CreateSeats(_ context.Context, _ []seats.Seat) error { return nil }

func (f *fakeSeatRepo) GetSeatByID(_ context.Context, id uint) (*seats.Seat, error) {
	s, ok := f.seats[id]
	if !ok {
		return nil, apperrors.NotFound("seat not found")
	}
	return s, nil
}

func (f *fakeSeatRepo) GetSeatsByEventID(_ context.Context, _ uint) ([]seats.Seat, error) {
	return nil, nil
}

func (f *fakeSeatRepo) CountAvailable(_ context.Context, _ uint) (int64, error) { return 0, nil }

type fakeDirectory struct {
	users map[uint]*users.User
}

func (f *fakeDirectory) ResolveUser(_ context.Context, userID uint) (*users.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	return u, nil
}

type recordingNotifier struct {
	created   []BookingCreatedNotification
	cancelled []BookingCancelledNotification
}

func (n *recordingNotifier) BookingCreated(_ context.Context, m BookingCreatedNotification) error {
	n.created = append(n.created, m)
	return nil
}

func (n *recordingNotifier) BookingCancelled(_ context.Context, m BookingCancelledNotification) error {
	n.cancelled = append(n.cancelled, m)
	return nil
}

type fixture struct {
	repo      *fakeBookingRepo
	eventRepo *fakeEventRepo
	seatRepo  *fakeSeatRepo
	directory *fakeDirectory
	notifier  *recordingNotifier
	svc       Service
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f := &fixture{
		repo: newFakeBookingRepo(),
		eventRepo: &fakeEventRepo{events: map[uint]*events.Event{
			1: {
				ID:        1,
				Name:      "Go Conference",
				Location:  "Hall A",
				Status:    events.StatusUpcoming,
				StartTime: now.Add(24 * time.Hour),
				EndTime:   now.Add(32 * time.Hour),
			},
		}},
		seatRepo: &fakeSeatRepo{seats: map[uint]*seats.Seat{
			10: {ID: 10, EventID: 1, Row: "A", Number: 5, IsAvailable: true},
		}},
		directory: &fakeDirectory{users: map[uint]*users.User{
			3: {ID: 3, Email: "alice@example.com", FullName: "Alice Johnson", Role: users.RoleUser},
		}},
		notifier: &recordingNotifier{},
		now:      now,
	}
	f.repo.seats = f.seatRepo
	f.svc = NewService(Config{
		Repo:      f.repo,
		EventRepo: f.eventRepo,
		SeatRepo:  f.seatRepo,
		Directory: f.directory,
		Notifier:  f.notifier,
		BaseURL:   "https://seatify.example.com",
		Now:       func() time.Time { return f.now },
	})
	return f
}

func TestCreateBooking(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	resp, err := f.svc.CreateBooking(context.Background(), 3, CreateBookingRequest{EventID: 1, SeatID: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Status != StatusBooked {
		t.Errorf("status = %s, want %s", resp.Status, StatusBooked)
	}
	if resp.SeatLabel != "A5" {
		t.Errorf("seat label = %q, want A5", resp.SeatLabel)
	}
	if !strings.Contains(resp.ScanURL, "auto-checkin?data=") {
		t.Errorf("scan URL missing auto-checkin path: %q", resp.ScanURL)
	}
	if len(f.notifier.created) != 1 {
		t.Fatalf("expected 1 confirmation dispatch, got %d", len(f.notifier.created))
	}
	if got := f.notifier.created[0].Email; got != "alice@example.com" {
		t.Errorf("confirmation recipient = %q", got)
	}
}

func TestCreateBookingPreconditionOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(f *fixture)
		userID  uint
		req     CreateBookingRequest
		kind    apperrors.Kind
		message string
	}{
		{
			name:   "unknown user",
			mutate: func(f *fixture) {},
			userID: 99,
			req:    CreateBookingRequest{EventID: 1, SeatID: 10},
			kind:   apperrors.KindNotFound,
		},
		{
			name:   "unknown event",
			mutate: func(f *fixture) {},
			userID: 3,
			req:    CreateBookingRequest{EventID: 99, SeatID: 10},
			kind:   apperrors.KindNotFound,
		},
		{
			name: "event not open",
			mutate: func(f *fixture) {
				f.eventRepo.events[1].Status = events.StatusCancelled
			},
			userID:  3,
			req:     CreateBookingRequest{EventID: 1, SeatID: 10},
			kind:    apperrors.KindConflict,
			message: "event is not open for booking",
		},
		{
			name: "event already started",
			mutate: func(f *fixture) {
				f.eventRepo.events[1].StartTime = now.Add(-time.Minute)
			},
			userID:  3,
			req:     CreateBookingRequest{EventID: 1, SeatID: 10},
			kind:    apperrors.KindConflict,
			message: "event has already started",
		},
		{
			name: "duplicate booking",
			mutate: func(f *fixture) {
				f.repo.bookings[50] = &Booking{ID: 50, UserID: 3, EventID: 1, SeatID: 11, Status: StatusBooked}
			},
			userID:  3,
			req:     CreateBookingRequest{EventID: 1, SeatID: 10},
			kind:    apperrors.KindConflict,
			message: "you already have a booking for this event",
		},
		{
			name:    "unknown seat reads as unavailable",
			mutate:  func(f *fixture) {},
			userID:  3,
			req:     CreateBookingRequest{EventID: 1, SeatID: 99},
			kind:    apperrors.KindConflict,
			message: "seat is not available",
		},
		{
			name: "seat from another event",
			mutate: func(f *fixture) {
				f.seatRepo.seats[10].EventID = 2
			},
			userID:  3,
			req:     CreateBookingRequest{EventID: 1, SeatID: 10},
			kind:    apperrors.KindConflict,
			message: "seat is not available",
		},
		{
			name: "seat taken",
			mutate: func(f *fixture) {
				f.seatRepo.seats[10].IsAvailable = false
			},
			userID:  3,
			req:     CreateBookingRequest{EventID: 1, SeatID: 10},
			kind:    apperrors.KindConflict,
			message: "seat is not available",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			tt.mutate(f)

			_, err := f.svc.CreateBooking(context.Background(), tt.userID, tt.req)
			if !apperrors.IsKind(err, tt.kind) {
				t.Fatalf("error kind = %v (%v), want %v", apperrors.KindOf(err), err, tt.kind)
			}
			if tt.message != "" && apperrors.MessageOf(err) != tt.message {
				t.Errorf("message = %q, want %q", apperrors.MessageOf(err), tt.message)
			}
			if len(f.notifier.created) != 0 {
				t.Errorf("no confirmation should be dispatched on failure")
			}
		})
	}
}

func TestCreateBookingRevalidatesCancelledRuleForCancelledHistory(t *testing.T) {
	t.Parallel()

	// A cancelled booking for the same event does not block a new one.
	f := newFixture(t)
	f.repo.bookings[50] = &Booking{ID: 50, UserID: 3, EventID: 1, SeatID: 11, Status: StatusCancelled}

	if _, err := f.svc.CreateBooking(context.Background(), 3, CreateBookingRequest{EventID: 1, SeatID: 10}); err != nil {
		t.Fatalf("rebooking after cancellation failed: %v", err)
	}
}

func TestCancelBooking(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	resp, err := f.svc.CreateBooking(context.Background(), 3, CreateBookingRequest{EventID: 1, SeatID: 10})
	if err != nil {
		t.Fatalf("setup booking failed: %v", err)
	}

	cancelled, err := f.svc.CancelBooking(context.Background(), resp.ID, 3)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("status = %s, want %s", cancelled.Status, StatusCancelled)
	}
	if len(f.notifier.cancelled) != 1 {
		t.Errorf("expected 1 cancellation dispatch, got %d", len(f.notifier.cancelled))
	}
}

func TestCancelBookingReleasesSeat(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	resp, err := f.svc.CreateBooking(context.Background(), 3, CreateBookingRequest{EventID: 1, SeatID: 10})
	if err != nil {
		t.Fatalf("setup booking failed: %v", err)
	}
	if f.seatRepo.seats[10].IsAvailable {
		t.Fatal("seat still available after claim")
	}

	if _, err := f.svc.CancelBooking(context.Background(), resp.ID, 3); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if !f.seatRepo.seats[10].IsAvailable {
		t.Fatal("seat not released after cancel")
	}

	// The freed seat can be claimed by someone else.
	f.directory.users[4] = &users.User{ID: 4, Email: "bob@example.com", FullName: "Bob Stone", Role: users.RoleUser}
	rebooked, err := f.svc.CreateBooking(context.Background(), 4, CreateBookingRequest{EventID: 1, SeatID: 10})
	if err != nil {
		t.Fatalf("rebooking freed seat failed: %v", err)
	}
	if rebooked.Status != StatusBooked {
		t.Errorf("status = %s, want %s", rebooked.Status, StatusBooked)
	}
	if f.seatRepo.seats[10].IsAvailable {
		t.Error("seat still available after rebooking")
	}
}

func TestCancelBookingRejectsOtherUsers(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	resp, err := f.svc.CreateBooking(context.Background(), 3, CreateBookingRequest{EventID: 1, SeatID: 10})
	if err != nil {
		t.Fatalf("setup booking failed: %v", err)
	}

	_, err = f.svc.CancelBooking(context.Background(), resp.ID, 4)
	if !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Fatalf("error kind = %v, want forbidden", apperrors.KindOf(err))
	}
}

func TestCancelBookingRejectsCheckedIn(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	resp, err := f.svc.CreateBooking(context.Background(), 3, CreateBookingRequest{EventID: 1, SeatID: 10})
	if err != nil {
		t.Fatalf("setup booking failed: %v", err)
	}
	f.repo.bookings[resp.ID].Status = StatusCheckedIn

	_, err = f.svc.CancelBooking(context.Background(), resp.ID, 3)
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("error kind = %v, want conflict", apperrors.KindOf(err))
	}
}

func TestGetBookingEnforcesOwnership(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	resp, err := f.svc.CreateBooking(context.Background(), 3, CreateBookingRequest{EventID: 1, SeatID: 10})
	if err != nil {
		t.Fatalf("setup booking failed: %v", err)
	}

	if _, err := f.svc.GetBooking(context.Background(), resp.ID, 3); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if _, err := f.svc.GetBooking(context.Background(), resp.ID, 4); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}
}

func TestGetUserAttendanceStats(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	checkIn := time.Date(2025, 5, 1, 19, 0, 0, 0, time.UTC)

	f.repo.bookings[1] = &Booking{ID: 1, UserID: 3, EventID: 1, SeatID: 10, Status: StatusCheckedOut, CheckInTime: &checkIn}
	f.repo.bookings[2] = &Booking{ID: 2, UserID: 3, EventID: 2, SeatID: 20, Status: StatusBooked}
	f.repo.bookings[3] = &Booking{ID: 3, UserID: 3, EventID: 3, SeatID: 30, Status: StatusCancelled}
	f.repo.bookings[4] = &Booking{ID: 4, UserID: 7, EventID: 1, SeatID: 11, Status: StatusBooked}

	stats, err := f.svc.GetUserAttendanceStats(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalParticipated != 2 {
		t.Errorf("total = %d, want 2 (cancelled excluded)", stats.TotalParticipated)
	}
	if stats.PresentCount != 1 {
		t.Errorf("present = %d, want 1", stats.PresentCount)
	}
	if stats.AbsentCount != 1 {
		t.Errorf("absent = %d, want 1", stats.AbsentCount)
	}
}
