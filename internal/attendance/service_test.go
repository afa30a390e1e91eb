package attendance

import (
	"context"
	"testing"
	"time"

	"seatify/internal/bookings"
	"seatify/internal/events"
	"seatify/internal/seats"
	"seatify/internal/shared/apperrors"
	"seatify/internal/token"
	"seatify/pkg/logger"
)

type fakeRepository struct {
	bookings map[string]*bookings.Booking
	log      []AttendanceEvent
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{bookings: make(map[string]*bookings.Booking)}
}

func (f *fakeRepository) Transition(_ context.Context, tok string, fn TransitionFunc) (*bookings.Booking, *Change, error) {
	b, ok := f.bookings[tok]
	if !ok {
		return nil, nil, apperrors.NotFound("no booking found for this QR code")
	}
	change, err := fn(b)
	if err != nil {
		return nil, nil, err
	}
	f.log = append(f.log, AttendanceEvent{
		BookingID:     b.ID,
		Action:        change.Action,
		Timestamp:     change.Timestamp,
		AutoCorrected: change.AutoCorrected,
	})
	return b, change, nil
}

func (f *fakeRepository) ListByBooking(_ context.Context, bookingID uint) ([]AttendanceEvent, error) {
	var out []AttendanceEvent
	for _, e := range f.log {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepository) GetBookingByID(_ context.Context, bookingID uint) (*bookings.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == bookingID {
			return b, nil
		}
	}
	return nil, apperrors.NotFound("booking not found")
}

// fakeClock hands out a time the test can advance between scans.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func seedBooking(repo *fakeRepository, status bookings.Status) (string, *bookings.Booking) {
	tok := token.Encode(7, 3, 11)
	b := &bookings.Booking{
		ID:      42,
		UserID:  3,
		EventID: 11,
		SeatID:  7,
		Token:   tok,
		Status:  status,
		Event:   &events.Event{ID: 11, Name: "Go Conference"},
		Seat:    &seats.Seat{ID: 7, EventID: 11, Row: "B", Number: 4},
	}
	repo.bookings[tok] = b
	return tok, b
}

func TestProcessScanToggles(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	tok, b := seedBooking(repo, bookings.StatusBooked)
	clock := &fakeClock{t: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)}
	svc := NewService(repo, logger.GetDefault(), clock.Now)

	want := []Action{ActionCheckIn, ActionCheckOut, ActionCheckIn}
	wantStatus := []bookings.Status{bookings.StatusCheckedIn, bookings.StatusCheckedOut, bookings.StatusCheckedIn}

	for i := range want {
		clock.Advance(time.Minute)
		result, err := svc.ProcessScan(context.Background(), tok)
		if err != nil {
			t.Fatalf("scan %d: unexpected error: %v", i, err)
		}
		if !result.Success {
			t.Fatalf("scan %d: expected success", i)
		}
		if result.Action != want[i] {
			t.Errorf("scan %d: action = %s, want %s", i, result.Action, want[i])
		}
		if b.Status != wantStatus[i] {
			t.Errorf("scan %d: booking status = %s, want %s", i, b.Status, wantStatus[i])
		}
		if result.AutoCorrected {
			t.Errorf("scan %d: unexpected auto-correction flag", i)
		}
	}

	if len(repo.log) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(repo.log))
	}
	if result := repo.log[0]; result.Action != ActionCheckIn {
		t.Errorf("first log entry action = %s, want %s", result.Action, ActionCheckIn)
	}
}

func TestProcessScanFlagsShortCheckIn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		gap           time.Duration
		autoCorrected bool
	}{
		{"checkout within threshold", 2 * time.Second, true},
		{"checkout just under threshold", ShortCheckInThreshold - time.Millisecond, true},
		{"checkout at threshold", ShortCheckInThreshold, false},
		{"checkout well after threshold", 6 * time.Second, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := newFakeRepository()
			tok, _ := seedBooking(repo, bookings.StatusBooked)
			clock := &fakeClock{t: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)}
			svc := NewService(repo, logger.GetDefault(), clock.Now)

			if _, err := svc.ProcessScan(context.Background(), tok); err != nil {
				t.Fatalf("check-in failed: %v", err)
			}
			clock.Advance(tt.gap)
			result, err := svc.ProcessScan(context.Background(), tok)
			if err != nil {
				t.Fatalf("checkout failed: %v", err)
			}
			if result.Action != ActionCheckOut {
				t.Fatalf("action = %s, want %s", result.Action, ActionCheckOut)
			}
			if result.AutoCorrected != tt.autoCorrected {
				t.Errorf("auto_corrected = %v, want %v", result.AutoCorrected, tt.autoCorrected)
			}
			if len(repo.log) != 2 || repo.log[1].AutoCorrected != tt.autoCorrected {
				t.Errorf("log entry auto_corrected mismatch")
			}
		})
	}
}

func TestProcessCheckoutRequiresCheckIn(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	tok, _ := seedBooking(repo, bookings.StatusBooked)
	svc := NewService(repo, logger.GetDefault(), nil)

	_, err := svc.ProcessCheckout(context.Background(), tok)
	if !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestProcessCheckoutFromCheckedIn(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	tok, b := seedBooking(repo, bookings.StatusBooked)
	clock := &fakeClock{t: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)}
	svc := NewService(repo, logger.GetDefault(), clock.Now)

	if _, err := svc.ProcessScan(context.Background(), tok); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	clock.Advance(time.Hour)

	result, err := svc.ProcessCheckout(context.Background(), tok)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if result.Action != ActionCheckOut || b.Status != bookings.StatusCheckedOut {
		t.Errorf("checkout did not transition booking, status = %s", b.Status)
	}
	if result.AutoCorrected {
		t.Error("hour-long visit flagged as accidental")
	}
}

func TestProcessScanRejectsCancelledBooking(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	tok, _ := seedBooking(repo, bookings.StatusCancelled)
	svc := NewService(repo, logger.GetDefault(), nil)

	_, err := svc.ProcessScan(context.Background(), tok)
	if !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestProcessScanMalformedToken(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	svc := NewService(repo, logger.GetDefault(), nil)

	_, err := svc.ProcessScan(context.Background(), "not a token")
	if !apperrors.IsKind(err, apperrors.KindMalformedToken) {
		t.Fatalf("expected malformed token error, got %v", err)
	}
}

func TestProcessScanUnknownToken(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	svc := NewService(repo, logger.GetDefault(), nil)

	_, err := svc.ProcessScan(context.Background(), token.Encode(1, 2, 3))
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestProcessScanAcceptsWrappedURL(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	tok, _ := seedBooking(repo, bookings.StatusBooked)
	svc := NewService(repo, logger.GetDefault(), nil)

	wrapped := token.ScanURL("https://seatify.example.com", tok)
	result, err := svc.ProcessScan(context.Background(), wrapped)
	if err != nil {
		t.Fatalf("wrapped scan failed: %v", err)
	}
	if result.Action != ActionCheckIn {
		t.Errorf("action = %s, want %s", result.Action, ActionCheckIn)
	}
	if result.EventName != "Go Conference" || result.SeatLabel != "B4" {
		t.Errorf("result context = %q/%q", result.EventName, result.SeatLabel)
	}
}

func TestGetBookingLogOwnership(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	tok, b := seedBooking(repo, bookings.StatusBooked)
	svc := NewService(repo, logger.GetDefault(), nil)

	if _, err := svc.ProcessScan(context.Background(), tok); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}

	log, err := svc.GetBookingLog(context.Background(), b.ID, b.UserID)
	if err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if len(log) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(log))
	}

	_, err = svc.GetBookingLog(context.Background(), b.ID, b.UserID+1)
	if !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}
