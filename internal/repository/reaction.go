package repository

import (
	"context"
	"errors"

	"alcove/internal/models"

	"gorm.io/gorm"
)

// ReactionRepository defines persistence operations for reactions. Unlike
// votes, a user may hold several reactions on one target, one per kind.
type ReactionRepository interface {
	Get(ctx context.Context, userID uint, target models.Target, kind string) (*models.Reaction, error)
	Create(ctx context.Context, reaction *models.Reaction) error
	Delete(ctx context.Context, id uint) error
	CountsForTargets(ctx context.Context, targetType string, targetIDs []uint) (map[uint]map[string]int, error)
	ViewerKinds(ctx context.Context, userID uint, targetType string, targetIDs []uint) (map[uint][]string, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository returns a new ReactionRepository implementation.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Get returns the user's reaction of the given kind on the target, or nil.
func (r *reactionRepository) Get(ctx context.Context, userID uint, target models.Target, kind string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ? AND kind = ?",
			userID, target.Type, target.ID, kind).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &reaction, nil
}

func (r *reactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	if err := r.db.WithContext(ctx).Create(reaction).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reactionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Unscoped().Delete(&models.Reaction{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

type reactionCountRow struct {
	TargetID uint
	Kind     string
	Total    int
}

// CountsForTargets aggregates reaction counts per target and kind in one
// grouped query.
func (r *reactionRepository) CountsForTargets(ctx context.Context, targetType string, targetIDs []uint) (map[uint]map[string]int, error) {
	result := make(map[uint]map[string]int, len(targetIDs))
	if len(targetIDs) == 0 {
		return result, nil
	}

	var rows []reactionCountRow
	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Select("target_id, kind, COUNT(*) as total").
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Group("target_id, kind").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	for _, row := range rows {
		counts, ok := result[row.TargetID]
		if !ok {
			counts = make(map[string]int)
			result[row.TargetID] = counts
		}
		counts[row.Kind] = row.Total
	}
	return result, nil
}

// ViewerKinds returns the reaction kinds the user holds per target ID.
func (r *reactionRepository) ViewerKinds(ctx context.Context, userID uint, targetType string, targetIDs []uint) (map[uint][]string, error) {
	result := make(map[uint][]string, len(targetIDs))
	if userID == 0 || len(targetIDs) == 0 {
		return result, nil
	}

	var reactions []models.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, targetType, targetIDs).
		Order("kind asc").
		Find(&reactions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, re := range reactions {
		result[re.TargetID] = append(result[re.TargetID], re.Kind)
	}
	return result, nil
}
