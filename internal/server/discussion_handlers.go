package server

import (
	"alcove/internal/models"
	"alcove/internal/service"
	"alcove/internal/thread"

	"github.com/gofiber/fiber/v2"
)

// GetDiscussion handles GET /api/posts/:id/discussion?sort=best|newest|oldest.
// Anonymous viewers get the tree without per-viewer vote or reaction state.
func (s *Server) GetDiscussion(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID, _ := s.optionalUserID(c)
	sortKey := thread.ParseSortKey(c.Query("sort"))

	sess, err := s.openSession(c, postID, viewerID, sortKey)
	if err != nil {
		return nil
	}
	defer sess.Close()

	tree := sess.Tree()
	return c.JSON(fiber.Map{
		"post_id":  postID,
		"sort":     string(sortKey),
		"comments": tree,
		"count":    thread.Count(tree),
	})
}

// CreateComment handles POST /api/posts/:id/comments with body
// {content, parent_id}. A null parent_id creates a root comment.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content  string `json:"content"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	sess, err := s.openSession(c, postID, userID, thread.SortBest)
	if err != nil {
		return nil
	}
	defer sess.Close()

	comment, err := sess.Post(c.Context(), req.Content, req.ParentID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /api/comments/:id with body {content}.
// Only the author may edit; edits re-sanitize but are not re-classified.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	sess, err := s.sessionForComment(c, commentID, userID)
	if err != nil {
		return nil
	}
	defer sess.Close()

	comment, err := sess.Edit(c.Context(), commentID, req.Content)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id. The row is tombstoned so
// replies keep their place in the tree.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	sess, err := s.sessionForComment(c, commentID, userID)
	if err != nil {
		return nil
	}
	defer sess.Close()

	if err := sess.Delete(c.Context(), commentID); err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

// VoteComment handles POST /api/comments/:id/vote with body {direction}.
func (s *Server) VoteComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
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

	sess, err := s.sessionForComment(c, commentID, userID)
	if err != nil {
		return nil
	}
	defer sess.Close()

	result, err := sess.Vote(c.Context(), commentID, direction)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(result)
}

// ReactToComment handles POST /api/comments/:id/reactions with body {kind}.
// Each kind toggles independently of the others.
func (s *Server) ReactToComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Kind string `json:"kind"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	sess, err := s.sessionForComment(c, commentID, userID)
	if err != nil {
		return nil
	}
	defer sess.Close()

	result, err := sess.React(c.Context(), commentID, req.Kind)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(result)
}

// PinComment handles POST /api/comments/:id/pin. Only the post author may
// pin; a second call unpins.
func (s *Server) PinComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	sess, err := s.sessionForComment(c, commentID, userID)
	if err != nil {
		return nil
	}
	defer sess.Close()

	comment, err := sess.Pin(c.Context(), commentID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(comment)
}

// sessionForComment resolves the comment's post and opens a session on it.
// On failure the error response is already written; callers return nil.
func (s *Server) sessionForComment(c *fiber.Ctx, commentID, viewerID uint) (*service.DiscussionSession, error) {
	comment, err := s.commentRepo.GetByID(c.Context(), commentID)
	if err != nil {
		_ = s.respondServiceError(c, err)
		return nil, errResponseWritten
	}
	return s.openSession(c, comment.PostID, viewerID, thread.SortBest)
}
