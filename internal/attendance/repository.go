package attendance

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seatify/internal/bookings"
	"seatify/internal/shared/apperrors"
)

type Repository interface {
	// Transition resolves the booking holding tok, runs fn against it
	// with the row locked FOR UPDATE, persists the mutated booking and
	// appends the log entry in the same transaction. A concurrent scan of
	// the same token waits on the lock and then observes the
	// post-transition state.
	Transition(ctx context.Context, tok string, fn TransitionFunc) (*bookings.Booking, *Change, error)

	// ListByBooking returns the booking's attendance log, oldest first.
	ListByBooking(ctx context.Context, bookingID uint) ([]AttendanceEvent, error)

	GetBookingByID(ctx context.Context, bookingID uint) (*bookings.Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Transition(ctx context.Context, tok string, fn TransitionFunc) (*bookings.Booking, *Change, error) {
	var booking bookings.Booking
	var change *Change

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, "token = ?", tok).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("no booking found for this QR code")
			}
			return err
		}

		change, err = fn(&booking)
		if err != nil {
			return err
		}

		err = tx.Model(&bookings.Booking{}).
			Where("id = ?", booking.ID).
			Updates(map[string]interface{}{
				"status":         booking.Status,
				"check_in_time":  booking.CheckInTime,
				"check_out_time": booking.CheckOutTime,
			}).Error
		if err != nil {
			return err
		}

		entry := AttendanceEvent{
			BookingID:     booking.ID,
			Action:        change.Action,
			Timestamp:     change.Timestamp,
			AutoCorrected: change.AutoCorrected,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, nil, err
	}

	// Display data for the scan response; loaded outside the lock on
	// purpose, neither changes during a scan.
	if err := r.db.WithContext(ctx).Preload("Event").Preload("Seat").First(&booking, booking.ID).Error; err != nil {
		return nil, nil, err
	}
	return &booking, change, nil
}

func (r *repository) ListByBooking(ctx context.Context, bookingID uint) ([]AttendanceEvent, error) {
	var entries []AttendanceEvent
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("timestamp ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) GetBookingByID(ctx context.Context, bookingID uint) (*bookings.Booking, error) {
	var booking bookings.Booking
	err := r.db.WithContext(ctx).First(&booking, "id = ?", bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("booking not found")
		}
		return nil, err
	}
	return &booking, nil
}
