package app

import (
	"context"
	"io"

	"lesson_media_service/internal/media/domain"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/mock"
)

// MockMinIOClient Mock MinIOClientRepo
type MockMinIOClient struct {
	mock.Mock
}

// PutStream mock minio streamed upload
func (m *MockMinIOClient) PutStream(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, objectName, reader, size, contentType)
	return args.Error(0)
}

// GetStream mock minio streamed download
func (m *MockMinIOClient) GetStream(ctx context.Context, objectName string) (io.ReadCloser, error) {
	args := m.Called(ctx, objectName)
	if args.Get(0) != nil {
		return args.Get(0).(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

// UploadFile mock minio file upload
func (m *MockMinIOClient) UploadFile(ctx context.Context, objectName, filePath, contentType string) error {
	args := m.Called(ctx, objectName, filePath, contentType)
	return args.Error(0)
}

// DownloadFile mock minio file download
func (m *MockMinIOClient) DownloadFile(ctx context.Context, objectName, destPath string) error {
	args := m.Called(ctx, objectName, destPath)
	return args.Error(0)
}

// PublicURL mock url templating
func (m *MockMinIOClient) PublicURL(objectName string) string {
	args := m.Called(objectName)
	return args.String(0)
}

// MockVideoRepo Mock VideoRepo
type MockVideoRepo struct {
	mock.Mock
}

// AutoMigrate mock table migration
func (m *MockVideoRepo) AutoMigrate() error {
	args := m.Called()
	return args.Error(0)
}

// Create mock video record create
func (m *MockVideoRepo) Create(video *domain.VideoAsset) error {
	args := m.Called(video)
	return args.Error(0)
}

// GetByID mock find video by id
func (m *MockVideoRepo) GetByID(id string) (*domain.VideoAsset, error) {
	args := m.Called(id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.VideoAsset), args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateStatus mock status transition
func (m *MockVideoRepo) UpdateStatus(id string, status domain.VideoStatus, outputLocation string) (*domain.VideoAsset, error) {
	args := m.Called(id, status, outputLocation)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.VideoAsset), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByStatus mock find videos by status
func (m *MockVideoRepo) FindByStatus(status domain.VideoStatus) ([]domain.VideoAsset, error) {
	args := m.Called(status)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.VideoAsset), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCourseDirectory Mock CourseDirectory
type MockCourseDirectory struct {
	mock.Mock
}

// GetLesson mock lesson lookup
func (m *MockCourseDirectory) GetLesson(ctx context.Context, lessonID string) (*domain.Lesson, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Lesson), args.Error(1)
	}
	return nil, args.Error(1)
}

// ResolveLessonOwner mock lesson -> class -> teacher resolution
func (m *MockCourseDirectory) ResolveLessonOwner(ctx context.Context, lessonID string) (*domain.LessonOwner, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.LessonOwner), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockDispatcher Mock NotificationDispatcher
type MockDispatcher struct {
	mock.Mock
}

// Dispatch mock notification delivery
func (m *MockDispatcher) Dispatch(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// MockRabbitChannel Mock RabbitRepo
type MockRabbitChannel struct {
	mock.Mock
}

// GetRabbit mock channel accessor
func (m *MockRabbitChannel) GetRabbit() *amqp.Channel {
	args := m.Called()
	return args.Get(0).(*amqp.Channel)
}

// Publish mock queue publish
func (m *MockRabbitChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

// MockEventStream Mock EventStreamRepo
type MockEventStream struct {
	mock.Mock
}

// Publish mock event emit
func (m *MockEventStream) Publish(ctx context.Context, key, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// Close mock writer close
func (m *MockEventStream) Close() error {
	args := m.Called()
	return args.Error(0)
}
