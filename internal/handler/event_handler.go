package handler

import (
	"io"

	"partyquiz/backend/internal/hub"

	"github.com/gin-gonic/gin"
)

// StreamGameEvents godoc
// @Summary      Subscribe to game events
// @Description  Opens a server-sent events stream of game notifications (players joining, rounds starting, shots given, ...).
// @Tags         games
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {string} string "SSE stream"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id}/events [get]
func StreamGameEvents(c *gin.Context) {
	game, ok := loadGame(c)
	if !ok {
		return
	}

	// Buffered so a burst of events doesn't immediately drop messages.
	client := make(hub.Client, 16)
	hub.GlobalHub.Subscribe(game.ID, client)
	defer hub.GlobalHub.Unsubscribe(game.ID, client)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case message, open := <-client:
			if !open {
				return false
			}
			c.SSEvent("message", string(message))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
