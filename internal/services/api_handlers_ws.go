package services

import (
	"strings"

	"imageworld/internal/auth"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func (a *Api) WsUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Notifications streams gallery save results for the caller's client id.
func (a *Api) Notifications() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		identity, ok := conn.Locals(identityKey).(auth.Identity)
		if !ok {
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, unauthorizedMessage))
			_ = conn.Close()
			return
		}

		clientID := strings.TrimSpace(conn.Params("id"))
		if clientID == "" {
			clientID = identity.UserID
		}

		client := NewWSClient(hubKey(identity.UserID, clientID), conn)
		a.hub.Add(client)

		go client.writeLoop()
		// websocket.New releases the conn when the handler returns, so block here.
		client.readPump(func() { a.hub.Remove(client) })
	})
}
