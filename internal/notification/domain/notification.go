package domain

import "time"

// NotificationPayload context shipped with a notification
type NotificationPayload struct {
	Message  string `bson:"message" json:"message"`
	Link     string `bson:"link" json:"link"`
	VideoID  string `bson:"video_id" json:"video_id"`
	LessonID string `bson:"lesson_id" json:"lesson_id"`
	ClassID  string `bson:"class_id" json:"class_id"`
}

// Notification one inbox entry for a recipient. Persisted to the durable
// inbox before the real-time fan-out so a missed websocket frame is never a
// lost notification.
type Notification struct {
	ID          string              `bson:"_id" json:"id"`
	RecipientID string              `bson:"recipient_id" json:"recipient_id"`
	Kind        string              `bson:"kind" json:"kind"`
	Payload     NotificationPayload `bson:"payload" json:"payload"`
	Read        bool                `bson:"read" json:"read"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
}

// IngestReq ingestion endpoint request body, mirrors what the worker posts
type IngestReq struct {
	RecipientID string              `json:"recipient_id"`
	Kind        string              `json:"kind"`
	Payload     NotificationPayload `json:"payload"`
}

// ChannelFor redis pub/sub channel carrying a recipient's live notifications
func ChannelFor(recipientID string) string {
	return "notify:user:" + recipientID
}
