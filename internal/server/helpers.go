// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"alcove/internal/models"
	"alcove/internal/service"
	"alcove/internal/thread"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	maxPaginationLimit = 100
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID", "commentId" -> "comment ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// respondServiceError maps service-layer errors onto HTTP statuses.
// Blocked content carries its issue list back to the author; authorization
// and infrastructure failures stay generic.
func (s *Server) respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	switch appErr.Code {
	case "NOT_FOUND":
		return models.RespondWithError(c, fiber.StatusNotFound, appErr)
	case "VALIDATION_ERROR":
		return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
	case "UNAUTHORIZED":
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("You are not allowed to do that"))
	case "CONTENT_BLOCKED":
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity, appErr)
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "Something went wrong, please try again",
			Code:  "INTERNAL_ERROR",
		})
	}
}

// optionalUserID attempts to extract userID from the Authorization header but
// does not enforce it. Anonymous viewers read discussions with no viewer state.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(userID), true
}

// discussionDeps assembles the collaborator bundle a discussion session needs.
func (s *Server) discussionDeps() service.DiscussionDeps {
	deps := service.DiscussionDeps{
		Comments:  s.commentRepo,
		Posts:     s.postRepo,
		Votes:     s.voteLedger,
		Reactions: s.reactionLedger,
		VoteRepo:  s.voteRepo,
		ReactRepo: s.reactionRepo,
		Gate:      s.gate,
		Flagger:   s.flagger,
		IsAdmin: func(ctx context.Context, userID uint) (bool, error) {
			return s.userService.IsAdmin(ctx, userID)
		},
	}
	if s.notifier != nil {
		deps.Notifier = s.notifier
	}
	return deps
}

// openSession opens a per-request discussion session for the given post.
// Callers must Close it; on failure the error response is already written.
func (s *Server) openSession(c *fiber.Ctx, postID, viewerID uint, key thread.SortKey) (*service.DiscussionSession, error) {
	sess, err := service.OpenDiscussion(c.Context(), s.discussionDeps(), postID, viewerID, key)
	if err != nil {
		_ = s.respondServiceError(c, err)
		return nil, errResponseWritten
	}
	return sess, nil
}
