package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type is the kind of notification being delivered.
type Type string

const (
	TypeBookingConfirmation Type = "BOOKING_CONFIRMATION"
	TypeBookingCancellation Type = "BOOKING_CANCELLATION"
)

// Status tracks a notification through the pipeline.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusQueued  Status = "QUEUED"
	StatusSent    Status = "SENT"
	StatusFailed  Status = "FAILED"
)

// Notification is the message that travels through Kafka between the
// booking flow and the email workers.
type Notification struct {
	ID             string         `json:"id"`
	Type           Type           `json:"type"`
	Status         Status         `json:"status"`
	RecipientEmail string         `json:"recipient_email"`
	RecipientName  string         `json:"recipient_name"`
	Subject        string         `json:"subject"`
	Data           BookingDetails `json:"data"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	LastError      *string        `json:"last_error,omitempty"`
}

// BookingDetails is the template payload for booking emails.
type BookingDetails struct {
	BookingID  uint      `json:"booking_id"`
	EventName  string    `json:"event_name"`
	Location   string    `json:"location"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	SeatLabel  string    `json:"seat_label"`
	QRImageURL string    `json:"qr_image_url"`
	ScanURL    string    `json:"scan_url"`
}

// NewNotification creates a pending notification with a fresh id.
func NewNotification(t Type, email, name, subject string, data BookingDetails) *Notification {
	now := time.Now()
	return &Notification{
		ID:             uuid.NewString(),
		Type:           t,
		Status:         StatusPending,
		RecipientEmail: email,
		RecipientName:  name,
		Subject:        subject,
		Data:           data,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// GetPartitionKey routes all of one recipient's notifications to the same
// partition so they arrive in order.
func (n *Notification) GetPartitionKey() string {
	return n.RecipientEmail
}

func (n *Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func FromJSON(data []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}
