package models

import "time"

// UserRole represents the two roles known to the queue service.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// User is an account keyed by the messaging platform's numeric identifier.
// Users are created lazily on first session and never deleted.
type User struct {
	ID          int64     `db:"id" json:"id"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Role        UserRole  `db:"role" json:"role"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
