package events

// Status is the lifecycle state of an event. Transitions are driven by
// the status scheduler except CANCELLED, which is set externally and is
// terminal.
type Status string

const (
	StatusUpcoming  Status = "UPCOMING"
	StatusOngoing   Status = "ONGOING"
	StatusFinished  Status = "FINISHED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the event status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusFinished, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the scheduler must never advance this status.
func (s Status) IsTerminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// AcceptsBookings reports whether new bookings are admitted in this status.
// Only UPCOMING events are open; the start-time guard is checked separately.
func (s Status) AcceptsBookings() bool {
	return s == StatusUpcoming
}
