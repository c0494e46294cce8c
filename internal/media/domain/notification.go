package domain

import "context"

// NotificationKind the type tag the ingestion endpoint expects for video events
const NotificationKind = "video"

// NotificationPayload context carried to the recipient
type NotificationPayload struct {
	Message  string `json:"message"`
	Link     string `json:"link"`
	VideoID  string `json:"video_id"`
	LessonID string `json:"lesson_id"`
	ClassID  string `json:"class_id"`
}

// Notification completion event delivered to the class owner
type Notification struct {
	RecipientID string              `json:"recipient_id"`
	Kind        string              `json:"kind"`
	Payload     NotificationPayload `json:"payload"`
}

// NotificationDispatcher delivery channel the worker depends on. The HTTP hop
// to the ingestion endpoint is an implementation detail behind this interface.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}
