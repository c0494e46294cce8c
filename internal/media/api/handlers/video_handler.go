package handlers

import (
	"errors"
	"net/http"

	"lesson_media_service/internal/media/app"
	"lesson_media_service/internal/media/domain"

	"github.com/gofiber/fiber/v2"
)

// VideoHandler thin HTTP surface over the media usecase: trigger an upload
// and query pipeline status. Everything else about lessons/classes lives in
// the course system.
type VideoHandler struct {
	Usecase app.MediaUseCase
}

// NewVideoHandler create VideoHandler
func NewVideoHandler(usecase app.MediaUseCase) *VideoHandler {
	return &VideoHandler{Usecase: usecase}
}

// SubmitVideo accept a multipart source upload and hand it to the orchestrator
func (h *VideoHandler) SubmitVideo(c *fiber.Ctx) error {
	lessonID := c.Params("lessonID")
	title := c.FormValue("title")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "no video file in request"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "unreadable video file"})
	}
	defer file.Close()

	video, err := h.Usecase.SubmitVideo(c.Context(), domain.SubmitVideoReq{
		Title:      title,
		LessonID:   lessonID,
		FileName:   fileHeader.Filename,
		UploaderID: c.FormValue("uploader_id"),
		File:       file,
	})
	if err != nil {
		if errors.Is(err, domain.ErrLessonNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "lesson not found"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "video submit failed"})
	}

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"msg":      "upload accepted, transcoding queued",
		"video_id": video.ID,
		"status":   video.Status,
	})
}

// GetVideoStatus report {status, outputLocation} for one video
func (h *VideoHandler) GetVideoStatus(c *fiber.Ctx) error {
	res, err := h.Usecase.GetVideoStatus(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "video not found"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "status query failed"})
	}

	return c.JSON(res)
}
