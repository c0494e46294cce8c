package repository

import (
	"context"
	"fmt"

	"lesson_media_service/internal/notification/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InboxRepository definition durable notification inbox
type InboxRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	// FindByRecipient newest first, bounded by limit
	FindByRecipient(ctx context.Context, recipientID string, limit int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, recipientID, notificationID string) error
}

type inboxRepository struct {
	coll *mongo.Collection
}

// NewMongoInboxRepository create an InboxRepository
func NewMongoInboxRepository(db *mongo.Database) InboxRepository {
	return &inboxRepository{
		coll: db.Collection("notifications"),
	}
}

func (r *inboxRepository) Insert(ctx context.Context, n *domain.Notification) error {
	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("insert notification failed: %w", err)
	}
	return nil
}

func (r *inboxRepository) FindByRecipient(ctx context.Context, recipientID string, limit int64) ([]domain.Notification, error) {
	filter := bson.M{"recipient_id": recipientID}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find notifications failed: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []domain.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("decode notifications failed: %w", err)
	}
	return notifications, nil
}

func (r *inboxRepository) MarkRead(ctx context.Context, recipientID, notificationID string) error {
	filter := bson.M{"_id": notificationID, "recipient_id": recipientID}
	update := bson.M{"$set": bson.M{"read": true}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mark read failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
