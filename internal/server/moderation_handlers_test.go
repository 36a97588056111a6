package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"alcove/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReport(t *testing.T, s *Server, reporterID, targetID uint, status string) models.ModerationReport {
	t.Helper()
	report := models.ModerationReport{
		ReporterID: reporterID,
		TargetType: models.TargetComment,
		TargetID:   targetID,
		Reason:     "auto-flagged: high severity content",
		Status:     status,
	}
	require.NoError(t, s.db.Create(&report).Error)
	return report
}

func TestGetReports(t *testing.T) {
	s := newTestServer(t)
	admin := seedUser(t, s.db, "admin", models.RoleAdmin)
	author := seedUser(t, s.db, "author", models.RoleUser)
	post := seedPost(t, s.db, author.ID, "Reported post")

	comment := models.Comment{Content: "flagged", UserID: author.ID, PostID: post.ID}
	require.NoError(t, s.db.Create(&comment).Error)

	seedReport(t, s, author.ID, comment.ID, models.ReportStatusPending)
	seedReport(t, s, author.ID, comment.ID, models.ReportStatusPending)
	seedReport(t, s, author.ID, comment.ID, models.ReportStatusDismissed)

	app := fiber.New()
	app.Get("/admin/reports", asUser(admin.ID, s.GetReports))

	t.Run("Filtered By Status", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/reports?status=pending", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var reports []models.ModerationReport
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&reports))
		assert.Len(t, reports, 2)
	})

	t.Run("Unfiltered Returns All", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/reports", nil))
		require.NoError(t, err)

		var reports []models.ModerationReport
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&reports))
		assert.Len(t, reports, 3)
	})

	t.Run("Unknown Status Rejected", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/reports?status=escalated", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestResolveReport(t *testing.T) {
	s := newTestServer(t)
	admin := seedUser(t, s.db, "admin", models.RoleAdmin)
	author := seedUser(t, s.db, "author", models.RoleUser)
	post := seedPost(t, s.db, author.ID, "Reported post")

	app := fiber.New()
	app.Post("/admin/reports/:id/resolve", asUser(admin.ID, s.ResolveReport))

	t.Run("Resolve With Content Removal", func(t *testing.T) {
		comment := models.Comment{Content: "offensive", UserID: author.ID, PostID: post.ID}
		require.NoError(t, s.db.Create(&comment).Error)
		report := seedReport(t, s, author.ID, comment.ID, models.ReportStatusPending)

		resp := postJSON(t, app, fmt.Sprintf("/admin/reports/%d/resolve", report.ID), map[string]any{
			"status":         models.ReportStatusResolved,
			"note":           "confirmed, removed",
			"remove_content": true,
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got models.ModerationReport
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, models.ReportStatusResolved, got.Status)

		var stored models.Comment
		require.NoError(t, s.db.First(&stored, comment.ID).Error)
		assert.True(t, stored.IsDeleted)
		assert.Equal(t, models.DeletedPlaceholder, stored.Content)
	})

	t.Run("Second Resolution Is Not Found", func(t *testing.T) {
		comment := models.Comment{Content: "borderline", UserID: author.ID, PostID: post.ID}
		require.NoError(t, s.db.Create(&comment).Error)
		report := seedReport(t, s, author.ID, comment.ID, models.ReportStatusPending)

		url := fmt.Sprintf("/admin/reports/%d/resolve", report.ID)
		resp := postJSON(t, app, url, map[string]any{"status": models.ReportStatusDismissed})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp = postJSON(t, app, url, map[string]any{"status": models.ReportStatusResolved})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Invalid Status", func(t *testing.T) {
		comment := models.Comment{Content: "whatever", UserID: author.ID, PostID: post.ID}
		require.NoError(t, s.db.Create(&comment).Error)
		report := seedReport(t, s, author.ID, comment.ID, models.ReportStatusPending)

		resp := postJSON(t, app, fmt.Sprintf("/admin/reports/%d/resolve", report.ID), map[string]any{
			"status": "escalated",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
