package app

import (
	"context"
	"time"

	"lesson_media_service/internal/notification/domain"
	"lesson_media_service/internal/notification/repository"
	"lesson_media_service/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// NotificationWebsocketHandler streams a recipient's live notifications over
// a websocket, fed from the redis channel
type NotificationWebsocketHandler struct {
	pubsub repository.PubSubRepository
}

// NewNotificationWebsocketHandler create NotificationWebsocketHandler
func NewNotificationWebsocketHandler(pubsub repository.PubSubRepository) *NotificationWebsocketHandler {
	return &NotificationWebsocketHandler{pubsub: pubsub}
}

// HandleConnection entry point for one websocket connection
func (h *NotificationWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	recipientID := conn.Params("userID")
	logger.Log.Info("notification socket opened", zap.String("recipient_id", recipientID))

	ticker := time.NewTicker(30 * time.Second)
	ctxClose, cancel := context.WithCancel(ctx)

	defer func() {
		ticker.Stop()
		cancel()
		conn.Close()
		logger.Log.Info("notification socket closed", zap.String("recipient_id", recipientID))
	}()

	conn.SetPongHandler(func(appData string) error {
		return nil
	})

	h.pubsub.Subscribe(ctxClose, domain.ChannelFor(recipientID), func(n domain.Notification) {
		if err := conn.WriteJSON(n); err != nil {
			logger.Log.Errorf("notification write failed", err, zap.String("recipient_id", recipientID))
		}
	})

	// keepalive pings; a dead peer surfaces as a write error
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
					logger.Log.Errorf("ping failed", err, zap.String("recipient_id", recipientID))
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		// subscribers only listen; reads just detect the close
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Info("notification socket closed by peer", zap.String("recipient_id", recipientID))
			} else {
				logger.Log.Errorf("notification socket read failed", err, zap.String("recipient_id", recipientID))
			}
			return
		}
	}
}
