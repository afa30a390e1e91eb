package bookings

import (
	"time"
)

// BookingResponse is the API representation of a booking.
type BookingResponse struct {
	ID           uint       `json:"id"`
	EventID      uint       `json:"event_id"`
	EventName    string     `json:"event_name,omitempty"`
	SeatID       uint       `json:"seat_id"`
	SeatLabel    string     `json:"seat_label,omitempty"`
	QRImageURL   string     `json:"qr_image_url,omitempty"`
	ScanURL      string     `json:"scan_url,omitempty"`
	Status       Status     `json:"status"`
	BookingTime  time.Time  `json:"booking_time"`
	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
}

// AttendanceStatsResponse summarizes a user's attendance across their
// bookings. Present means the booking was checked in at least once.
type AttendanceStatsResponse struct {
	TotalParticipated int `json:"total_participated"`
	PresentCount      int `json:"present_count"`
	AbsentCount       int `json:"absent_count"`
}
