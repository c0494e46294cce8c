package router

import (
	"context"

	"lesson_media_service/internal/notification/api/handlers"
	"lesson_media_service/internal/notification/app"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes register the notification routes
func RegisterRoutes(r *fiber.App, notificationHandler *handlers.NotificationHandler, wsHandler *app.NotificationWebsocketHandler) {
	r.Post("/notifications", notificationHandler.Ingest)
	r.Get("/notifications/:userID", notificationHandler.ListInbox)
	r.Patch("/notifications/:userID/:id/read", notificationHandler.MarkRead)

	r.Get("/ws/:userID", websocket.New(func(c *websocket.Conn) {
		wsHandler.HandleConnection(context.Background(), c)
	}))
}
