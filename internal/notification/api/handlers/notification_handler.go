package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"lesson_media_service/internal/notification/app"
	"lesson_media_service/internal/notification/domain"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationHandler HTTP surface of the notification ingestion endpoint
type NotificationHandler struct {
	Usecase app.NotificationUseCase
}

// NewNotificationHandler create NotificationHandler
func NewNotificationHandler(usecase app.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{Usecase: usecase}
}

// Ingest accept a notification from an internal producer (the transcode
// worker), persist and fan out
func (h *NotificationHandler) Ingest(c *fiber.Ctx) error {
	var req domain.IngestReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "malformed notification body"})
	}

	n, err := h.Usecase.Ingest(c.Context(), req)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "notification ingest failed"})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id": n.ID,
	})
}

// ListInbox return the recipient's most recent notifications
func (h *NotificationHandler) ListInbox(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)

	notifications, err := h.Usecase.ListInbox(c.Context(), c.Params("userID"), limit)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "inbox list failed"})
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}

// MarkRead flag one inbox entry as read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	err := h.Usecase.MarkRead(c.Context(), c.Params("userID"), c.Params("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "notification not found"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "mark read failed"})
	}

	return c.SendStatus(http.StatusNoContent)
}
