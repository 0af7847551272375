package models

import "time"

// ReactionType is the kind of reaction a user can leave on a post.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// Valid reports whether t is a known reaction type.
func (t ReactionType) Valid() bool {
	return t == ReactionLike || t == ReactionDislike
}

// Reaction represents a user's reaction to a post.
// The combination of UserID and PostID must be unique: a user holds at most
// one reaction per post, and changing type overwrites the row in place.
type Reaction struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uint         `gorm:"not null;uniqueIndex:idx_user_post_reaction" json:"user_id"`
	PostID    uint         `gorm:"not null;uniqueIndex:idx_user_post_reaction" json:"post_id"`
	Type      ReactionType `gorm:"type:varchar(8);not null" json:"type"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user"`
	Post Post `gorm:"foreignKey:PostID" json:"post"`
}

// TableName keeps the historical table name used by earlier revisions.
func (Reaction) TableName() string {
	return "post_reactions"
}
