package seats

import (
	"fmt"
	"time"
)

// Seat is one physical seat of one event. IsAvailable is false exactly
// while one non-cancelled booking holds the seat.
type Seat struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	EventID     uint      `json:"event_id" gorm:"not null;index;uniqueIndex:idx_event_seat_label"`
	Row         string    `json:"row" gorm:"column:seat_row;not null;size:8;uniqueIndex:idx_event_seat_label"`
	Number      int       `json:"number" gorm:"not null;uniqueIndex:idx_event_seat_label"`
	IsAvailable bool      `json:"is_available" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

// Label renders the display label printed on tickets, e.g. "B12".
func (s *Seat) Label() string {
	return fmt.Sprintf("%s%d", s.Row, s.Number)
}

// SeatResponse is the API representation of a seat.
type SeatResponse struct {
	ID          uint   `json:"id"`
	EventID     uint   `json:"event_id"`
	Row         string `json:"row"`
	Number      int    `json:"number"`
	Label       string `json:"label"`
	IsAvailable bool   `json:"is_available"`
}

// ToResponse converts a Seat to its API representation.
func (s *Seat) ToResponse() SeatResponse {
	return SeatResponse{
		ID:          s.ID,
		EventID:     s.EventID,
		Row:         s.Row,
		Number:      s.Number,
		Label:       s.Label(),
		IsAvailable: s.IsAvailable,
	}
}
