package repository

import (
	"context"
	"errors"
	"time"

	"alcove/internal/models"

	"gorm.io/gorm"
)

// ReportRepository defines persistence operations for moderation reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.ModerationReport) error
	GetByID(ctx context.Context, id uint) (*models.ModerationReport, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.ModerationReport, error)
	Resolve(ctx context.Context, id uint, resolverID uint, status, note string) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns a new ReportRepository implementation.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.ModerationReport) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.ModerationReport, error) {
	var report models.ModerationReport
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("ReportedUser").
		First(&report, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Report", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, status string, limit, offset int) ([]*models.ModerationReport, error) {
	query := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("ReportedUser").
		Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var reports []*models.ModerationReport
	if err := query.Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reports, nil
}

func (r *reportRepository) Resolve(ctx context.Context, id uint, resolverID uint, status, note string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.ModerationReport{}).
		Where("id = ? AND status = ?", id, models.ReportStatusPending).
		Updates(map[string]interface{}{
			"status":          status,
			"resolved_by_id":  resolverID,
			"resolved_at":     &now,
			"resolution_note": note,
		})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Pending report", id)
	}
	return nil
}
