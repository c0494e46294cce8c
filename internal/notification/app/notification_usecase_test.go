package app

import (
	"context"
	"errors"
	"testing"

	"lesson_media_service/internal/notification/domain"
	"lesson_media_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"
)

// MockInboxRepository Mock InboxRepository
type MockInboxRepository struct {
	mock.Mock
}

// Insert mock inbox write
func (m *MockInboxRepository) Insert(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// FindByRecipient mock inbox listing
func (m *MockInboxRepository) FindByRecipient(ctx context.Context, recipientID string, limit int64) ([]domain.Notification, error) {
	args := m.Called(ctx, recipientID, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

// MarkRead mock read flag update
func (m *MockInboxRepository) MarkRead(ctx context.Context, recipientID, notificationID string) error {
	args := m.Called(ctx, recipientID, notificationID)
	return args.Error(0)
}

// MockPubSub Mock PubSubRepository
type MockPubSub struct {
	mock.Mock
}

// Publish mock fan-out publish
func (m *MockPubSub) Publish(ctx context.Context, channel string, message interface{}) error {
	args := m.Called(ctx, channel, message)
	return args.Error(0)
}

// Subscribe mock fan-out subscribe
func (m *MockPubSub) Subscribe(ctx context.Context, channel string, handler func(n domain.Notification)) {
	m.Called(ctx, channel, handler)
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	req := domain.IngestReq{
		RecipientID: "teacher-1",
		Kind:        "video",
		Payload: domain.NotificationPayload{
			Message: "Video \"Test Video\" for lesson \"Algebra I\" is ready to watch",
			VideoID: "video-1",
		},
	}

	t.Run("ingest persists before publishing", func(t *testing.T) {
		mockInbox := new(MockInboxRepository)
		mockPubSub := new(MockPubSub)
		usecase := NewNotificationUseCase(mockInbox, mockPubSub)

		var order []string
		mockInbox.On("Insert", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				order = append(order, "inbox")
				n := args.Get(1).(*domain.Notification)
				assert.NotEmpty(t, n.ID)
				assert.False(t, n.Read)
				assert.False(t, n.CreatedAt.IsZero())
			}).
			Return(nil).Once()
		mockPubSub.On("Publish", ctx, domain.ChannelFor("teacher-1"), mock.Anything).
			Run(func(args mock.Arguments) { order = append(order, "fanout") }).
			Return(nil).Once()

		n, err := usecase.Ingest(ctx, req)

		assert.NoError(t, err)
		assert.NotNil(t, n)
		assert.Equal(t, []string{"inbox", "fanout"}, order)
		mockInbox.AssertExpectations(t)
		mockPubSub.AssertExpectations(t)
	})

	t.Run("missing recipient rejects", func(t *testing.T) {
		mockInbox := new(MockInboxRepository)
		mockPubSub := new(MockPubSub)
		usecase := NewNotificationUseCase(mockInbox, mockPubSub)

		n, err := usecase.Ingest(ctx, domain.IngestReq{Kind: "video"})

		assert.Nil(t, n)
		assert.Error(t, err)
		mockInbox.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("inbox write failure skips the fan-out", func(t *testing.T) {
		mockInbox := new(MockInboxRepository)
		mockPubSub := new(MockPubSub)
		usecase := NewNotificationUseCase(mockInbox, mockPubSub)

		mockInbox.On("Insert", ctx, mock.Anything).Return(errors.New("mongo error")).Once()

		n, err := usecase.Ingest(ctx, req)

		assert.Nil(t, n)
		assert.Error(t, err)
		mockPubSub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("publish failure surfaces", func(t *testing.T) {
		mockInbox := new(MockInboxRepository)
		mockPubSub := new(MockPubSub)
		usecase := NewNotificationUseCase(mockInbox, mockPubSub)

		mockInbox.On("Insert", ctx, mock.Anything).Return(nil).Once()
		mockPubSub.On("Publish", ctx, domain.ChannelFor("teacher-1"), mock.Anything).
			Return(errors.New("redis error")).Once()

		n, err := usecase.Ingest(ctx, req)

		assert.Nil(t, n)
		assert.Error(t, err)
	})
}

func TestListInbox(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	t.Run("explicit limit passes through", func(t *testing.T) {
		mockInbox := new(MockInboxRepository)
		usecase := NewNotificationUseCase(mockInbox, new(MockPubSub))

		stored := []domain.Notification{{ID: "n-1", RecipientID: "teacher-1"}}
		mockInbox.On("FindByRecipient", ctx, "teacher-1", int64(10)).Return(stored, nil).Once()

		notifications, err := usecase.ListInbox(ctx, "teacher-1", 10)

		assert.NoError(t, err)
		assert.Equal(t, stored, notifications)
		mockInbox.AssertExpectations(t)
	})

	t.Run("non-positive limit falls back to the default", func(t *testing.T) {
		mockInbox := new(MockInboxRepository)
		usecase := NewNotificationUseCase(mockInbox, new(MockPubSub))

		mockInbox.On("FindByRecipient", ctx, "teacher-1", int64(defaultInboxLimit)).
			Return([]domain.Notification{}, nil).Once()

		_, err := usecase.ListInbox(ctx, "teacher-1", 0)

		assert.NoError(t, err)
		mockInbox.AssertExpectations(t)
	})
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	t.Run("mark read succeeds", func(t *testing.T) {
		mockInbox := new(MockInboxRepository)
		usecase := NewNotificationUseCase(mockInbox, new(MockPubSub))

		mockInbox.On("MarkRead", ctx, "teacher-1", "n-1").Return(nil).Once()

		assert.NoError(t, usecase.MarkRead(ctx, "teacher-1", "n-1"))
	})

	t.Run("unknown notification keeps the not-found error", func(t *testing.T) {
		mockInbox := new(MockInboxRepository)
		usecase := NewNotificationUseCase(mockInbox, new(MockPubSub))

		mockInbox.On("MarkRead", ctx, "teacher-1", "missing").Return(mongo.ErrNoDocuments).Once()

		err := usecase.MarkRead(ctx, "teacher-1", "missing")

		assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	})
}
