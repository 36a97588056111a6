package models

import (
	"time"
)

// Vote target types.
const (
	TargetPost    = "post"
	TargetComment = "comment"
)

// Vote values.
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote is one user's exclusive up/down state on a single target. At most one
// row exists per (user, target); re-voting the same direction removes it.
type Vote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_vote_user_target" json:"user_id"`
	TargetType string    `gorm:"size:20;not null;uniqueIndex:idx_vote_user_target" json:"target_type"`
	TargetID   uint      `gorm:"not null;uniqueIndex:idx_vote_user_target;index" json:"target_id"`
	Value      int       `gorm:"not null" json:"value"` // +1 or -1
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Target identifies a votable or reactable entity.
type Target struct {
	Type string
	ID   uint
}

// PostTarget returns a Target for the given post.
func PostTarget(id uint) Target { return Target{Type: TargetPost, ID: id} }

// CommentTarget returns a Target for the given comment.
func CommentTarget(id uint) Target { return Target{Type: TargetComment, ID: id} }
