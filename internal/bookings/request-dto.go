package bookings

// CreateBookingRequest is the payload for POST /bookings.
type CreateBookingRequest struct {
	EventID uint `json:"event_id" binding:"required,min=1"`
	SeatID  uint `json:"seat_id" binding:"required,min=1"`
}
