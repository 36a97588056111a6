package service

import (
	"context"

	"alcove/internal/models"
	"alcove/internal/repository"
)

// ModerationService backs the admin review queue.
type ModerationService struct {
	reports  repository.ReportRepository
	comments repository.CommentRepository
}

// ResolveReportInput carries an admin's decision on a pending report.
type ResolveReportInput struct {
	ReportID uint
	AdminID  uint
	Status   string // resolved or dismissed
	Note     string
	// RemoveContent tombstones the reported comment along with resolution.
	RemoveContent bool
}

// NewModerationService returns a new ModerationService.
func NewModerationService(reports repository.ReportRepository, comments repository.CommentRepository) *ModerationService {
	return &ModerationService{reports: reports, comments: comments}
}

// ListReports returns the review queue, newest first, optionally filtered by
// status.
func (s *ModerationService) ListReports(ctx context.Context, status string, limit, offset int) ([]*models.ModerationReport, error) {
	switch status {
	case "", models.ReportStatusPending, models.ReportStatusResolved, models.ReportStatusDismissed:
	default:
		return nil, models.NewValidationError("Unknown report status")
	}
	return s.reports.List(ctx, status, limit, offset)
}

// ResolveReport closes a pending report. Flagged comments are tombstoned, not
// hard-deleted, so reply subtrees stay anchored.
func (s *ModerationService) ResolveReport(ctx context.Context, in ResolveReportInput) (*models.ModerationReport, error) {
	if in.Status != models.ReportStatusResolved && in.Status != models.ReportStatusDismissed {
		return nil, models.NewValidationError("Resolution status must be resolved or dismissed")
	}

	report, err := s.reports.GetByID(ctx, in.ReportID)
	if err != nil {
		return nil, err
	}

	if in.RemoveContent {
		if report.TargetType != models.TargetComment {
			return nil, models.NewValidationError("Only comments can be removed through report resolution")
		}
		if err := s.comments.MarkDeleted(ctx, report.TargetID); err != nil {
			return nil, err
		}
	}

	if err := s.reports.Resolve(ctx, in.ReportID, in.AdminID, in.Status, in.Note); err != nil {
		return nil, err
	}
	return s.reports.GetByID(ctx, in.ReportID)
}
