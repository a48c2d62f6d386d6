package entity

import (
	"time"
)

// User is the aggregate root for user domain
// Password holds the bcrypt hash once persisted, never the raw value.
type User struct {
	ID        int64
	Email     string
	Password  string
	Name      string
	Phone     string
	Role      Role
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// NewRegisteredUser builds the record written on registration.
func NewRegisteredUser(email, passwordHash, name, phone string, now time.Time) *User {
	return &User{
		Email:     email,
		Password:  passwordHash,
		Name:      name,
		Phone:     phone,
		Role:      RoleUser,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
