package bookings

// Status is the lifecycle state of a booking. BOOKED, CHECKED_IN and
// CHECKED_OUT toggle through attendance scans; CANCELLED is terminal.
type Status string

const (
	StatusBooked     Status = "BOOKED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusCancelled  Status = "CANCELLED"
)

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusBooked, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanBeCancelled checks if a booking with this status can be cancelled.
// A booking that already attended cannot be taken back.
func (s Status) CanBeCancelled() bool {
	return s == StatusBooked
}

// IsLive reports whether the booking still occupies its seat.
func (s Status) IsLive() bool {
	return s != StatusCancelled
}
