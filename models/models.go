package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Avatar   string `json:"avatar"`
	Active   bool   `gorm:"default:true" json:"-"`
}

// Post declares its timestamps explicitly so the (owner, time)
// composite index can cover the feed and profile queries.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index:idx_posts_owner_time,priority:1;not null" json:"user_id"`
	Content   string         `gorm:"type:varchar(500);not null" json:"content"`
	Image     string         `json:"image"`
	LikeCount uint           `json:"like_count"`
	CreatedAt time.Time      `gorm:"index:idx_posts_owner_time,priority:2" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Comment rows are append-only; they are never edited or removed on
// their own, so there is no soft-delete column.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Text      string    `gorm:"type:varchar(200);not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is immutable once created. Both composite indexes exist so a
// conversation can be scanned efficiently from either direction.
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SenderID    uint      `gorm:"index:idx_messages_sender_time,priority:1;not null" json:"sender_id"`
	RecipientID uint      `gorm:"index:idx_messages_recipient_time,priority:1;not null" json:"recipient_id"`
	Content     string    `gorm:"type:varchar(1000)" json:"content"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `gorm:"index:idx_messages_sender_time,priority:2;index:idx_messages_recipient_time,priority:2" json:"created_at"`
}

// Follow is one edge of the follow graph. The composite unique index
// turns a duplicate follow into a constraint violation instead of a
// racy read-then-insert check, and a single row insert/delete keeps
// both directions of the relationship consistent by construction.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"index;uniqueIndex:idx_follower_followed;not null" json:"follower_id"`
	FollowedID uint      `gorm:"index;uniqueIndex:idx_follower_followed;not null" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}
