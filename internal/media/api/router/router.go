package router

import (
	"lesson_media_service/internal/media/api/handlers"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes register the media pipeline routes
func RegisterRoutes(app *fiber.App, videoHandler *handlers.VideoHandler) {
	app.Post("/lessons/:lessonID/videos", videoHandler.SubmitVideo)
	app.Get("/videos/:id/status", videoHandler.GetVideoStatus)
}
