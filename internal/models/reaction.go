package models

import (
	"time"
)

// Reaction kinds users may toggle on a target. Unlike votes, kinds are not
// exclusive: a user may hold several kinds on the same target at once.
const (
	ReactionThumbsUp = "thumbs_up"
	ReactionHeart    = "heart"
	ReactionLaugh    = "laugh"
	ReactionFire     = "fire"
	ReactionSad      = "sad"
)

// AllowedReactionKinds is the fixed set of valid reaction kinds.
var AllowedReactionKinds = map[string]struct{}{
	ReactionThumbsUp: {},
	ReactionHeart:    {},
	ReactionLaugh:    {},
	ReactionFire:     {},
	ReactionSad:      {},
}

// ValidReactionKind reports whether kind is in the allowed set.
func ValidReactionKind(kind string) bool {
	_, ok := AllowedReactionKinds[kind]
	return ok
}

// Reaction is one (user, target, kind) row. Toggling an existing triple
// deletes it; toggling a missing one inserts it.
type Reaction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_reaction_triple" json:"user_id"`
	TargetType string    `gorm:"size:20;not null;uniqueIndex:idx_reaction_triple" json:"target_type"`
	TargetID   uint      `gorm:"not null;uniqueIndex:idx_reaction_triple;index" json:"target_id"`
	Kind       string    `gorm:"size:20;not null;uniqueIndex:idx_reaction_triple" json:"kind"`
	CreatedAt  time.Time `json:"created_at"`
}
