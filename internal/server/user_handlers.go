package server

import (
	"alcove/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(user)
}

// GetAllUsers handles GET /api/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	users, err := s.userService.ListUsers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(users)
}

// PromoteToAdmin handles POST /api/admin/users/:id/promote
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	return s.setRole(c, models.RoleAdmin)
}

// DemoteFromAdmin handles POST /api/admin/users/:id/demote
func (s *Server) DemoteFromAdmin(c *fiber.Ctx) error {
	return s.setRole(c, models.RoleUser)
}

func (s *Server) setRole(c *fiber.Ctx, role string) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.SetRole(c.Context(), targetID, role)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(user)
}
