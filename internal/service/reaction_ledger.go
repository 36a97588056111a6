package service

import (
	"context"

	"alcove/internal/models"
	"alcove/internal/repository"
)

// ReactionResult reports whether the toggle added or removed the reaction,
// plus the fresh per-kind tallies for the target.
type ReactionResult struct {
	Added  bool           `json:"added"`
	Counts map[string]int `json:"counts"`
}

// ReactionLedger toggles reactions. Kinds are independent of each other: a
// user may hold several kinds on the same target, one record per triple.
type ReactionLedger struct {
	reactions repository.ReactionRepository
}

// NewReactionLedger returns a new ReactionLedger.
func NewReactionLedger(reactions repository.ReactionRepository) *ReactionLedger {
	return &ReactionLedger{reactions: reactions}
}

// Toggle inserts the (user, target, kind) reaction, or deletes it when it
// already exists.
func (l *ReactionLedger) Toggle(ctx context.Context, userID uint, target models.Target, kind string) (*ReactionResult, error) {
	if !models.ValidReactionKind(kind) {
		return nil, models.NewValidationError("Unknown reaction kind")
	}

	existing, err := l.reactions.Get(ctx, userID, target, kind)
	if err != nil {
		return nil, err
	}

	added := existing == nil
	if existing != nil {
		if err := l.reactions.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
	} else {
		reaction := &models.Reaction{
			UserID:     userID,
			TargetType: target.Type,
			TargetID:   target.ID,
			Kind:       kind,
		}
		if err := l.reactions.Create(ctx, reaction); err != nil {
			return nil, err
		}
	}

	counts, err := l.reactions.CountsForTargets(ctx, target.Type, []uint{target.ID})
	if err != nil {
		return nil, err
	}
	result := &ReactionResult{Added: added, Counts: counts[target.ID]}
	if result.Counts == nil {
		result.Counts = map[string]int{}
	}
	return result, nil
}
