package server

import (
	"alcove/internal/models"
	"alcove/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetReports handles GET /api/admin/reports?status=&limit=&offset=.
// Without a status filter the whole queue comes back, newest first.
func (s *Server) GetReports(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	reports, err := s.moderationService.ListReports(c.Context(), c.Query("status"), p.Limit, p.Offset)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(reports)
}

// ResolveReport handles POST /api/admin/reports/:id/resolve with body
// {status, note, remove_content}. Resolving twice is a 404 because only
// pending reports can transition.
func (s *Server) ResolveReport(c *fiber.Ctx) error {
	adminID := c.Locals("userID").(uint)

	reportID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status        string `json:"status"`
		Note          string `json:"note"`
		RemoveContent bool   `json:"remove_content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.moderationService.ResolveReport(c.Context(), service.ResolveReportInput{
		ReportID:      reportID,
		AdminID:       adminID,
		Status:        req.Status,
		Note:          req.Note,
		RemoveContent: req.RemoveContent,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(report)
}
