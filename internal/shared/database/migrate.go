package database

import (
	"gorm.io/gorm"

	"seatify/internal/attendance"
	"seatify/internal/bookings"
	"seatify/internal/events"
	"seatify/internal/seats"
	"seatify/internal/users"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&seats.Seat{},
		&bookings.Booking{},
		&attendance.AttendanceEvent{},
	)
}
