package service

import (
	"context"
	"testing"

	"alcove/internal/models"
	"alcove/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModerationService_ResolveReport(t *testing.T) {
	db := setupLedgerDB(t)
	comment := seedCommentRow(t, db)
	svc := NewModerationService(repository.NewReportRepository(db), repository.NewCommentRepository(db))
	ctx := context.Background()

	admin := &models.User{Username: "admin", Email: "admin@example.com", Password: "hash", Role: models.RoleAdmin}
	require.NoError(t, db.Create(admin).Error)

	authorID := comment.UserID
	report := &models.ModerationReport{
		ReporterID:     authorID,
		ReportedUserID: &authorID,
		TargetType:     models.TargetComment,
		TargetID:       comment.ID,
		Reason:         "auto-flagged: high severity content",
		Status:         models.ReportStatusPending,
	}
	require.NoError(t, db.Create(report).Error)

	t.Run("resolve with content removal tombstones the comment", func(t *testing.T) {
		resolved, err := svc.ResolveReport(ctx, ResolveReportInput{
			ReportID:      report.ID,
			AdminID:       admin.ID,
			Status:        models.ReportStatusResolved,
			Note:          "confirmed",
			RemoveContent: true,
		})
		require.NoError(t, err)
		assert.Equal(t, models.ReportStatusResolved, resolved.Status)
		require.NotNil(t, resolved.ResolvedAt)
		assert.Equal(t, "confirmed", resolved.ResolutionNote)

		var c models.Comment
		require.NoError(t, db.First(&c, comment.ID).Error)
		assert.True(t, c.IsDeleted)
		assert.Equal(t, models.DeletedPlaceholder, c.Content)
	})

	t.Run("already resolved report cannot be resolved again", func(t *testing.T) {
		_, err := svc.ResolveReport(ctx, ResolveReportInput{
			ReportID: report.ID,
			AdminID:  admin.ID,
			Status:   models.ReportStatusDismissed,
		})
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		_, err := svc.ResolveReport(ctx, ResolveReportInput{
			ReportID: report.ID,
			AdminID:  admin.ID,
			Status:   "escalated",
		})
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})
}

func TestModerationService_ListReports(t *testing.T) {
	db := setupLedgerDB(t)
	comment := seedCommentRow(t, db)
	svc := NewModerationService(repository.NewReportRepository(db), repository.NewCommentRepository(db))
	ctx := context.Background()

	authorID := comment.UserID
	for _, status := range []string{models.ReportStatusPending, models.ReportStatusPending, models.ReportStatusDismissed} {
		require.NoError(t, db.Create(&models.ModerationReport{
			ReporterID:     authorID,
			ReportedUserID: &authorID,
			TargetType:     models.TargetComment,
			TargetID:       comment.ID,
			Reason:         "auto-flagged: high severity content",
			Status:         status,
		}).Error)
	}

	pending, err := svc.ListReports(ctx, models.ReportStatusPending, 20, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	all, err := svc.ListReports(ctx, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.ListReports(ctx, "bogus", 20, 0)
	require.Error(t, err)
}
