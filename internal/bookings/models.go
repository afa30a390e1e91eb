package bookings

import (
	"time"

	"seatify/internal/events"
	"seatify/internal/seats"
	"seatify/internal/users"
)

// Booking is one user's exclusive claim on one seat of one event. Token
// is the decoded scan payload; QRImageURL points at the hosted rendering
// of it. Bookings are never physically deleted.
type Booking struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       uint       `json:"user_id" gorm:"not null;index"`
	EventID      uint       `json:"event_id" gorm:"not null;index"`
	SeatID       uint       `json:"seat_id" gorm:"not null;index"`
	Token        string     `json:"-" gorm:"uniqueIndex;not null;size:128"`
	QRImageURL   string     `json:"qr_image_url" gorm:"size:500"`
	Status       Status     `json:"status" gorm:"type:varchar(20);default:'BOOKED';index"`
	BookingTime  time.Time  `json:"booking_time" gorm:"not null"`
	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relationships
	User  *users.User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Event *events.Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Seat  *seats.Seat   `json:"seat,omitempty" gorm:"foreignKey:SeatID"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// IsCancelled reports whether the booking has been cancelled.
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Attended reports whether the holder was ever checked in.
func (b *Booking) Attended() bool {
	return b.CheckInTime != nil
}
