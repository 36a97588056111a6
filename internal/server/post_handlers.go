package server

import (
	"alcove/internal/models"
	"alcove/internal/safety"
	"alcove/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	posts, err := s.postService.ListPosts(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), postID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":         post,
		"content_html": safety.RenderMarkdown(post.Content),
	})
}

// VotePost handles POST /api/posts/:id/vote with body {direction: "up"|"down"}.
// Repeating a direction withdraws the vote; the opposite direction flips it.
func (s *Server) VotePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Direction string `json:"direction"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	direction, err := service.ParseDirection(req.Direction)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	// Voting on a missing post must 404, not silently count against nothing.
	if _, err := s.postService.GetPost(c.Context(), postID); err != nil {
		return s.respondServiceError(c, err)
	}

	result, err := s.voteLedger.Apply(c.Context(), userID, models.PostTarget(postID), direction)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(result)
}
