package users

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"seatify/internal/shared/apperrors"
)

// Directory is the narrow identity-lookup contract the booking and
// notification flows consume. The caller-supplied user id is trusted as
// already authenticated upstream.
type Directory interface {
	ResolveUser(ctx context.Context, userID uint) (*User, error)
}

type directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) Directory {
	return &directory{db: db}
}

func (d *directory) ResolveUser(ctx context.Context, userID uint) (*User, error) {
	var user User
	err := d.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}
