package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints the model tags cannot
// express. The partial unique index is what actually enforces the
// one-live-booking-per-user-per-event rule under concurrent inserts;
// the service-level check only exists to give a friendly error first.
func MigrateConstraints(db *gorm.DB) error {
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_live_booking_per_user_event
		ON bookings (event_id, user_id)
		WHERE status <> 'CANCELLED';
	`).Error
	if err != nil {
		return err
	}

	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_event_status
		ON bookings (event_id, status);
	`).Error
	if err != nil {
		return err
	}

	// Scan lookups resolve bookings by token under FOR UPDATE.
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_booking_token
		ON bookings (token);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
