package attendance

import (
	"time"

	"seatify/internal/bookings"
)

// Action is the kind of attendance transition a scan produced.
type Action string

const (
	ActionCheckIn  Action = "CHECK_IN"
	ActionCheckOut Action = "CHECK_OUT"
)

// String returns the string representation of Action
func (a Action) String() string {
	return string(a)
}

// AttendanceEvent is one immutable log entry per toggle transition. Rows
// are append-only: the repository exposes no update or delete for them.
type AttendanceEvent struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	BookingID     uint      `json:"booking_id" gorm:"not null;index"`
	Action        Action    `json:"action" gorm:"type:varchar(20);not null"`
	Timestamp     time.Time `json:"timestamp" gorm:"not null"`
	AutoCorrected bool      `json:"auto_corrected" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at"`

	Booking *bookings.Booking `json:"-" gorm:"foreignKey:BookingID"`
}

// TableName sets the table name for AttendanceEvent
func (AttendanceEvent) TableName() string {
	return "attendance_events"
}

// ScanRequest is the payload for the scan endpoints.
type ScanRequest struct {
	QRCodeData string `json:"qr_code_data" binding:"required"`
}

// ScanResult is what every scan entry point returns. It is well-formed
// even on failure because the consuming client is often a scanner app
// with no error UI beyond showing the message.
type ScanResult struct {
	Success       bool      `json:"success"`
	Action        Action    `json:"action,omitempty"`
	Message       string    `json:"message"`
	EventName     string    `json:"event_name,omitempty"`
	SeatLabel     string    `json:"seat_label,omitempty"`
	Timestamp     time.Time `json:"timestamp,omitempty"`
	AutoCorrected bool      `json:"auto_corrected"`
}
