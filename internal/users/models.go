package users

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User mirrors the identity records owned by the external auth system.
// Registration, credentials, and sessions live upstream; this service
// only resolves ids to display data.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	FullName  string    `json:"full_name" gorm:"not null;size:255"`
	Role      Role      `json:"role" gorm:"type:varchar(20);default:'USER'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for User
func (User) TableName() string {
	return "users"
}
