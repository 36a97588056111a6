// Package service holds the application's domain orchestration: the vote and
// reaction ledgers, the auto-flagger, moderation queries, and the per-post
// discussion session.
package service

import (
	"context"

	"alcove/internal/models"
	"alcove/internal/repository"
)

// VoteResult reports the viewer's state on the target after a transition,
// plus the refreshed aggregate count.
type VoteResult struct {
	// State is VoteUp, VoteDown, or 0 when the vote was toggled off.
	State int `json:"state"`
	Count int `json:"count"`
}

// VoteLedger is the toggle state machine for up/down votes. The vote rows are
// the canonical truth; the target's vote_count column is a projection the
// ledger refreshes after every transition.
type VoteLedger struct {
	votes repository.VoteRepository
}

// NewVoteLedger returns a new VoteLedger.
func NewVoteLedger(votes repository.VoteRepository) *VoteLedger {
	return &VoteLedger{votes: votes}
}

// Apply transitions the user's vote on the target:
// same direction again removes the vote, the opposite direction flips the
// existing record, and no prior vote creates one.
func (l *VoteLedger) Apply(ctx context.Context, userID uint, target models.Target, direction int) (*VoteResult, error) {
	if direction != models.VoteUp && direction != models.VoteDown {
		return nil, models.NewValidationError("Vote direction must be up or down")
	}

	existing, err := l.votes.Get(ctx, userID, target)
	if err != nil {
		return nil, err
	}

	state := direction
	switch {
	case existing == nil:
		vote := &models.Vote{
			UserID:     userID,
			TargetType: target.Type,
			TargetID:   target.ID,
			Value:      direction,
		}
		if err := l.votes.Create(ctx, vote); err != nil {
			return nil, err
		}
	case existing.Value == direction:
		// Toggling off.
		if err := l.votes.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		state = 0
	default:
		if err := l.votes.UpdateValue(ctx, existing.ID, direction); err != nil {
			return nil, err
		}
	}

	count, err := l.votes.RefreshTargetCount(ctx, target)
	if err != nil {
		return nil, err
	}
	return &VoteResult{State: state, Count: count}, nil
}

// ParseDirection maps the wire value to a vote direction.
func ParseDirection(s string) (int, error) {
	switch s {
	case "up":
		return models.VoteUp, nil
	case "down":
		return models.VoteDown, nil
	default:
		return 0, models.NewValidationError("Vote direction must be up or down")
	}
}
