package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lesson_media_service/internal/notification/domain"
	"lesson_media_service/internal/notification/repository"
	errprocess "lesson_media_service/pkg/err"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationUseCase application services of the notification context
type NotificationUseCase interface {
	// Ingest persist to the durable inbox, then fan out to live subscribers
	Ingest(ctx context.Context, req domain.IngestReq) (*domain.Notification, error)
	ListInbox(ctx context.Context, recipientID string, limit int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, recipientID, notificationID string) error
}

const defaultInboxLimit = 50

type notificationUseCase struct {
	Inbox  repository.InboxRepository
	PubSub repository.PubSubRepository
}

// NewNotificationUseCase create a NotificationUseCase
func NewNotificationUseCase(inbox repository.InboxRepository, pubsub repository.PubSubRepository) NotificationUseCase {
	return &notificationUseCase{
		Inbox:  inbox,
		PubSub: pubsub,
	}
}

// Ingest inbox write happens before the publish: delivery to a live socket is
// best effort, the inbox row is the durable record
func (u *notificationUseCase) Ingest(ctx context.Context, req domain.IngestReq) (*domain.Notification, error) {
	if req.RecipientID == "" {
		return nil, errprocess.Set("notification ingest without recipient")
	}

	n := domain.Notification{
		ID:          uuid.NewString(),
		RecipientID: req.RecipientID,
		Kind:        req.Kind,
		Payload:     req.Payload,
		Read:        false,
		CreatedAt:   time.Now().UTC(),
	}

	if err := u.Inbox.Insert(ctx, &n); err != nil {
		errMsg := fmt.Sprintf("recipient[%s] notification insert failed: %v", req.RecipientID, err)
		return nil, errprocess.Set(errMsg)
	}

	if err := u.PubSub.Publish(ctx, domain.ChannelFor(n.RecipientID), n); err != nil {
		errMsg := fmt.Sprintf("recipient[%s] notification publish failed: %v", req.RecipientID, err)
		return nil, errprocess.Set(errMsg)
	}

	return &n, nil
}

func (u *notificationUseCase) ListInbox(ctx context.Context, recipientID string, limit int64) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = defaultInboxLimit
	}
	notifications, err := u.Inbox.FindByRecipient(ctx, recipientID, limit)
	if err != nil {
		errMsg := fmt.Sprintf("recipient[%s] inbox list failed: %v", recipientID, err)
		return nil, errprocess.Set(errMsg)
	}
	return notifications, nil
}

func (u *notificationUseCase) MarkRead(ctx context.Context, recipientID, notificationID string) error {
	if err := u.Inbox.MarkRead(ctx, recipientID, notificationID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
		errMsg := fmt.Sprintf("recipient[%s] mark read [%s] failed: %v", recipientID, notificationID, err)
		return errprocess.Set(errMsg)
	}
	return nil
}
