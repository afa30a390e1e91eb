package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seatify/internal/events"
	"seatify/internal/seats"
	"seatify/internal/shared/apperrors"
)

type Repository interface {
	// CreateWithSeatClaim persists a booking and claims its seat as one
	// all-or-nothing unit, re-validating the admission window, the
	// one-booking-per-user rule and the seat's availability inside the
	// transaction.
	CreateWithSeatClaim(ctx context.Context, booking *Booking, now time.Time) error

	// CancelWithSeatRelease flips a BOOKED booking to CANCELLED and frees
	// its seat atomically.
	CancelWithSeatRelease(ctx context.Context, bookingID uint) error

	GetByID(ctx context.Context, id uint) (*Booking, error)
	GetByUserID(ctx context.Context, userID uint) ([]Booking, error)
	HasLiveBooking(ctx context.Context, userID, eventID uint) (bool, error)
	UpdateQRImageURL(ctx context.Context, bookingID uint, url string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithSeatClaim(ctx context.Context, booking *Booking, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the event row so the admission check cannot race the
		// status scheduler: the status read here is authoritative for the
		// lifetime of the transaction.
		var event events.Event
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, "id = ?", booking.EventID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("event not found")
			}
			return err
		}

		if !event.Status.AcceptsBookings() {
			return apperrors.Conflict("event is not open for booking")
		}
		if !event.StartTime.After(now) {
			return apperrors.Conflict("event has already started")
		}

		// The partial unique index on (event_id, user_id)
		// WHERE status <> 'CANCELLED' closes the race this read
		// check leaves open.
		var liveCount int64
		err = tx.Model(&Booking{}).
			Where("user_id = ? AND event_id = ? AND status <> ?", booking.UserID, booking.EventID, StatusCancelled).
			Count(&liveCount).Error
		if err != nil {
			return err
		}
		if liveCount > 0 {
			return apperrors.Conflict("you already have a booking for this event")
		}

		// The seat claim is a conditional update keyed on the current
		// availability value; exactly one of two concurrent claims can
		// match the row.
		claim := tx.Model(&seats.Seat{}).
			Where("id = ? AND event_id = ? AND is_available = ?", booking.SeatID, booking.EventID, true).
			Update("is_available", false)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return apperrors.Conflict("seat is not available")
		}

		if err := tx.Create(booking).Error; err != nil {
			return translateClaimError(err)
		}
		return nil
	})
}

// liveBookingIndex is the partial unique index from MigrateConstraints.
// Two transactions racing past the count check above both reach the
// insert; the index rejects the second one.
const liveBookingIndex = "uniq_live_booking_per_user_event"

func translateClaimError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == liveBookingIndex {
		return apperrors.Conflict("you already have a booking for this event")
	}
	return err
}

func (r *repository) CancelWithSeatRelease(ctx context.Context, bookingID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking Booking
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, "id = ?", bookingID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("booking not found")
			}
			return err
		}

		if !booking.Status.CanBeCancelled() {
			return apperrors.Conflict("only booked reservations can be cancelled")
		}

		err = tx.Model(&Booking{}).
			Where("id = ?", bookingID).
			Update("status", StatusCancelled).Error
		if err != nil {
			return err
		}

		return tx.Model(&seats.Seat{}).
			Where("id = ?", booking.SeatID).
			Update("is_available", true).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Seat").
		First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("booking not found")
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uint) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Seat").
		Where("user_id = ?", userID).
		Order("booking_time DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) HasLiveBooking(ctx context.Context, userID, eventID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ? AND event_id = ? AND status <> ?", userID, eventID, StatusCancelled).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) UpdateQRImageURL(ctx context.Context, bookingID uint, url string) error {
	return r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", bookingID).
		Update("qr_image_url", url).Error
}
