package repository

import (
	"context"
	"encoding/json"

	"lesson_media_service/internal/notification/domain"
	"lesson_media_service/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// PubSubRepository definition real-time fan-out channel
type PubSubRepository interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string, handler func(n domain.Notification))
}

// RedisPubSub fan-out over redis pub/sub
type RedisPubSub struct {
	client *redis.Client
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{client: client}
}

// Publish serialize the message and publish it on the channel
func (r *RedisPubSub) Publish(ctx context.Context, channel string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, channel, data).Err()
}

// Subscribe listen on the channel and pass each decoded notification to the
// handler until ctx is cancelled
func (r *RedisPubSub) Subscribe(ctx context.Context, channel string, handler func(n domain.Notification)) {
	sub := r.client.Subscribe(ctx, channel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()

		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}

				var n domain.Notification
				if err := json.Unmarshal([]byte(m.Payload), &n); err != nil {
					logger.Log.Errorf("notification payload unmarshal failed", err)
					continue
				}
				handler(n)
			case <-ctx.Done():
				return
			}
		}
	}()
}
