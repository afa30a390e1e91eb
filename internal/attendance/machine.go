package attendance

import (
	"time"

	"seatify/internal/bookings"
	"seatify/internal/shared/apperrors"
)

// ShortCheckInThreshold is the window within which a checkout after a
// check-in is treated as an accidental re-scan rather than genuine
// attendance. The log entry and response carry the correction flag so
// the spurious check-in can be discounted downstream.
const ShortCheckInThreshold = 5 * time.Second

// Change describes the transition a scan applied to a booking.
type Change struct {
	Action        Action
	Timestamp     time.Time
	AutoCorrected bool
}

// TransitionFunc inspects a booking's current state, mutates it for the
// transition, and returns the change to log. The repository runs it with
// the booking row locked so concurrent scans serialize.
type TransitionFunc func(b *bookings.Booking) (*Change, error)

// toggle is the primary scan semantics: repeated scans alternate between
// check-in and check-out indefinitely. This is deliberately not
// idempotent; the alternation IS the protocol.
func toggle(now time.Time) TransitionFunc {
	return func(b *bookings.Booking) (*Change, error) {
		switch b.Status {
		case bookings.StatusBooked, bookings.StatusCheckedOut:
			return checkIn(b, now), nil
		case bookings.StatusCheckedIn:
			return checkOut(b, now), nil
		case bookings.StatusCancelled:
			return nil, apperrors.InvalidState("booking has been cancelled")
		default:
			return nil, apperrors.InvalidState("booking is not in a scannable state")
		}
	}
}

// checkoutOnly is the explicit checkout semantics: valid only from
// CHECKED_IN.
func checkoutOnly(now time.Time) TransitionFunc {
	return func(b *bookings.Booking) (*Change, error) {
		switch b.Status {
		case bookings.StatusCheckedIn:
			return checkOut(b, now), nil
		case bookings.StatusCancelled:
			return nil, apperrors.InvalidState("booking has been cancelled")
		default:
			return nil, apperrors.InvalidState("must check in before checking out")
		}
	}
}

func checkIn(b *bookings.Booking, now time.Time) *Change {
	b.Status = bookings.StatusCheckedIn
	b.CheckInTime = &now
	return &Change{Action: ActionCheckIn, Timestamp: now}
}

func checkOut(b *bookings.Booking, now time.Time) *Change {
	autoCorrected := b.CheckInTime != nil && now.Sub(*b.CheckInTime) < ShortCheckInThreshold
	b.Status = bookings.StatusCheckedOut
	b.CheckOutTime = &now
	return &Change{Action: ActionCheckOut, Timestamp: now, AutoCorrected: autoCorrected}
}
