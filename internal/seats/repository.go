package seats

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"seatify/internal/shared/apperrors"
)

type Repository interface {
	CreateSeats(ctx context.Context, seats []Seat) error
	GetSeatByID(ctx context.Context, id uint) (*Seat, error)
	GetSeatsByEventID(ctx context.Context, eventID uint) ([]Seat, error)
	CountAvailable(ctx context.Context, eventID uint) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSeats(ctx context.Context, seats []Seat) error {
	return r.db.WithContext(ctx).Create(&seats).Error
}

func (r *repository) GetSeatByID(ctx context.Context, id uint) (*Seat, error) {
	var seat Seat
	err := r.db.WithContext(ctx).First(&seat, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("seat not found")
		}
		return nil, err
	}
	return &seat, nil
}

func (r *repository) GetSeatsByEventID(ctx context.Context, eventID uint) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("seat_row ASC, number ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) CountAvailable(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Seat{}).
		Where("event_id = ? AND is_available = ?", eventID, true).
		Count(&count).Error
	return count, err
}
