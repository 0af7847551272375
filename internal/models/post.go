// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// ModerationStatus is the review state of a forum post.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// Post represents a forum post.
type Post struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	Title            string           `gorm:"not null" json:"title"`
	Content          string           `gorm:"type:text;not null" json:"content"`
	UserID           uint             `gorm:"not null;index" json:"user_id"`
	User             User             `gorm:"foreignKey:UserID" json:"user"`
	ModerationStatus ModerationStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"moderation_status"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// DislikesCount is not persisted; computed at query time
	DislikesCount int `gorm:"->" json:"dislikes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// UserReaction is the requesting user's reaction ("like", "dislike" or
	// empty), computed at query time
	UserReaction string         `gorm:"->" json:"user_reaction"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
