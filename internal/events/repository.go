package events

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"seatify/internal/shared/apperrors"
)

type Repository interface {
	GetByID(ctx context.Context, id uint) (*Event, error)
	GetByStatus(ctx context.Context, status Status) ([]Event, error)
	List(ctx context.Context, query EventListQuery) ([]Event, int64, error)
	// TransitionStatus advances an event's status only if it still holds
	// the expected one. Returns false when the conditional update matched
	// no row, which means another writer got there first.
	TransitionStatus(ctx context.Context, id uint, from, to Status) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("event not found")
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) GetByStatus(ctx context.Context, status Status) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("start_time ASC").
		Find(&events).Error
	return events, err
}

func (r *repository) List(ctx context.Context, query EventListQuery) ([]Event, int64, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	db := r.db.WithContext(ctx).Model(&Event{})
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	var totalCount int64
	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	var events []Event
	err := db.
		Order("start_time ASC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&events).Error

	return events, totalCount, err
}

func (r *repository) TransitionStatus(ctx context.Context, id uint, from, to Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
