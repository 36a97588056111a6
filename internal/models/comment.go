package models

import (
	"time"
)

// Comment content length bounds enforced by the submission gate.
const (
	CommentMinLen = 1
	CommentMaxLen = 1000
)

// DeletedPlaceholder replaces the content of soft-deleted comments. The row
// stays in place so replies keep their position in the tree.
const DeletedPlaceholder = "[deleted]"

// Comment represents one node in a post's discussion thread. Rows are stored
// flat; Replies is populated in memory by the thread package.
type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	PostID  uint   `gorm:"not null;index" json:"post_id"`
	// ParentID is nil for root comments and immutable once set.
	ParentID *uint `gorm:"index" json:"parent_id,omitempty"`
	// Depth is 0 for roots and parent depth + 1 otherwise.
	Depth int `gorm:"not null;default:0" json:"depth"`
	// VoteCount is a cached projection of the vote ledger for this comment.
	VoteCount int  `gorm:"default:0" json:"vote_count"`
	IsDeleted bool `gorm:"default:false" json:"is_deleted"`
	IsPinned  bool `gorm:"default:false" json:"is_pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Replies is derived by the tree builder; never persisted.
	Replies []*Comment `gorm:"-" json:"replies"`
	// ReactionCounts maps reaction kind to tally; absent keys mean zero.
	ReactionCounts map[string]int `gorm:"-" json:"reaction_counts,omitempty"`
	// ViewerVote is the requesting user's vote on this comment (-1, 0, +1).
	ViewerVote int `gorm:"-" json:"viewer_vote"`
	// ViewerReactions lists the reaction kinds the requesting user holds.
	ViewerReactions []string `gorm:"-" json:"viewer_reactions,omitempty"`
}

// IsRoot reports whether the comment has no parent.
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}
