package repository

import (
	"context"
	"errors"

	"alcove/internal/models"

	"gorm.io/gorm"
)

// VoteRepository defines persistence operations for votes. The vote_count
// columns on posts and comments are cached projections; RefreshTargetCount
// recomputes them from the ledger after every transition.
type VoteRepository interface {
	Get(ctx context.Context, userID uint, target models.Target) (*models.Vote, error)
	Create(ctx context.Context, vote *models.Vote) error
	UpdateValue(ctx context.Context, id uint, value int) error
	Delete(ctx context.Context, id uint) error
	RefreshTargetCount(ctx context.Context, target models.Target) (int, error)
	ViewerVotes(ctx context.Context, userID uint, targetType string, targetIDs []uint) (map[uint]int, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository returns a new VoteRepository implementation.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Get returns the user's vote on the target, or nil when none exists.
func (r *voteRepository) Get(ctx context.Context, userID uint, target models.Target) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target.Type, target.ID).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &vote, nil
}

func (r *voteRepository) Create(ctx context.Context, vote *models.Vote) error {
	if err := r.db.WithContext(ctx).Create(vote).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *voteRepository) UpdateValue(ctx context.Context, id uint, value int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("id = ?", id).
		Update("value", value)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Vote", id)
	}
	return nil
}

func (r *voteRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Unscoped().Delete(&models.Vote{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// RefreshTargetCount recomputes the target's vote total from the ledger and
// writes it back to the cached vote_count column, returning the new total.
func (r *voteRepository) RefreshTargetCount(ctx context.Context, target models.Target) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("target_type = ? AND target_id = ?", target.Type, target.ID).
		Select("COALESCE(SUM(value), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}

	table := "comments"
	if target.Type == models.TargetPost {
		table = "posts"
	}
	if err := r.db.WithContext(ctx).
		Table(table).
		Where("id = ?", target.ID).
		Update("vote_count", total).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return int(total), nil
}

// ViewerVotes returns the user's vote value per target ID in one query,
// used to annotate a whole discussion tree without N+1 lookups.
func (r *voteRepository) ViewerVotes(ctx context.Context, userID uint, targetType string, targetIDs []uint) (map[uint]int, error) {
	result := make(map[uint]int, len(targetIDs))
	if userID == 0 || len(targetIDs) == 0 {
		return result, nil
	}

	var votes []models.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, targetType, targetIDs).
		Find(&votes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, v := range votes {
		result[v.TargetID] = v.Value
	}
	return result, nil
}
