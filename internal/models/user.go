package models

import "time"

type User struct {
	ID        int64
	Email     string
	Password  string // bcrypt hash, never serialized
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	RoleAdmin = "admin"
	RoleGuest = "guest"
)
