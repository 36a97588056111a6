package server

import (
	"context"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// DiscussionStreamHandler serves GET /ws/posts/:id. Connected clients receive
// the name of each change event on the post's discussion; the payload is
// advisory, clients re-fetch the tree over HTTP.
func (s *Server) DiscussionStreamHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			log.Printf("WebSocket: unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		postID, err := strconv.ParseUint(conn.Params("id"), 10, 32)
		if err != nil || postID == 0 {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid post ID"}`))
			_ = conn.Close()
			return
		}

		if _, err := s.postRepo.GetByID(context.Background(), uint(postID)); err != nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"post not found"}`))
			_ = conn.Close()
			return
		}

		if s.hub == nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"change streaming unavailable"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(uint(postID), userID, conn)
		if err != nil {
			log.Printf("WebSocket: failed to register user %d on post %d: %v", userID, postID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}

// UpgradeRequired gates websocket routes so plain HTTP requests get a clear
// 426 instead of a hung connection.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{
		"error": "WebSocket upgrade required",
	})
}
