// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the application-wide user role. Roles are authoritative only from
// the database; they are never derived client-side.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleReporter  Role = "reporter"
	RoleUser      Role = "user"
	// RoleGuest is synthetic: it is never stored, it stands for an
	// unauthenticated visitor in navigation and route-guard checks.
	RoleGuest Role = "guest"
)

// Valid reports whether r is a storable role (guest is not).
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleReporter, RoleUser:
		return true
	}
	return false
}

// CanModerate reports whether the role may act on moderation queues.
func (r Role) CanModerate() bool {
	return r == RoleAdmin || r == RoleModerator
}

// UserStatus is the account standing of a user.
type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusBanned UserStatus = "banned"
)

// User represents an OpenEyes account: auth credentials and the public
// profile live in one row, so registration is a single transactional insert.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      Role           `gorm:"type:varchar(16);not null;default:'user';index" json:"role"`
	Status    UserStatus     `gorm:"type:varchar(16);not null;default:'active'" json:"status"`
	AvatarURL string         `json:"avatar_url"`
	Title     string         `json:"title"`
	Work      string         `json:"work"`
	Website   string         `json:"website"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Posts     []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// IsBanned reports whether the account is banned.
func (u *User) IsBanned() bool {
	return u.Status == UserStatusBanned
}

// CanModerate reports whether the user may act on moderation queues.
func (u *User) CanModerate() bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator
}

// CanReport reports whether the user may submit dashboard records
// (conflicts, disasters, violations, declarations).
func (u *User) CanReport() bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator || u.Role == RoleReporter
}
