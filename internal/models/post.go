package models

import (
	"time"

	"gorm.io/gorm"
)

// Post body length bounds enforced by the submission gate.
const (
	PostBodyMinLen = 10
	PostBodyMaxLen = 10000
)

// Post represents a post that owns a discussion thread.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	// VoteCount is a cached projection of the vote ledger for this post.
	VoteCount int `gorm:"default:0" json:"vote_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int            `gorm:"->" json:"comments_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
