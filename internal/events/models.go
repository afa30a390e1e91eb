package events

import (
	"time"
)

// Event is a scheduled gathering with a fixed seat inventory. Status is
// owned by the scheduler; all other fields are owned by the external
// event-management system.
type Event struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Location  string    `json:"location" gorm:"size:255"`
	StartTime time.Time `json:"start_time" gorm:"not null;index"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`
	Capacity  int       `json:"capacity" gorm:"not null;check:capacity > 0"`
	Status    Status    `json:"status" gorm:"type:varchar(20);default:'UPCOMING';index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

// EventResponse is the API representation of an event.
type EventResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Capacity  int       `json:"capacity"`
	Status    Status    `json:"status"`
}

// EventListQuery carries list filters from the HTTP layer.
type EventListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=UPCOMING ONGOING FINISHED CANCELLED"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ToResponse converts an Event to its API representation.
func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:        e.ID,
		Name:      e.Name,
		Location:  e.Location,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Capacity:  e.Capacity,
		Status:    e.Status,
	}
}
