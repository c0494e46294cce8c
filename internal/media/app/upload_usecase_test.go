package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"lesson_media_service/internal/media/domain"
	"lesson_media_service/pkg/logger"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSubmitVideo(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	lesson := &domain.Lesson{ID: "lesson-1", Title: "Algebra I", ClassID: "class-1"}
	newReq := func() domain.SubmitVideoReq {
		return domain.SubmitVideoReq{
			Title:      "Test Video",
			LessonID:   "lesson-1",
			FileName:   "test.mp4",
			UploaderID: "teacher-1",
			File:       bytes.NewReader([]byte("dummy video content")),
		}
	}
	sourceKeyMatcher := func(key string) bool {
		return strings.HasPrefix(key, "lesson-videos/") && strings.HasSuffix(key, "-test.mp4")
	}

	t.Run("submit succeeds with blob then record then job", func(t *testing.T) {
		mockMinIO := new(MockMinIOClient)
		mockRepo := new(MockVideoRepo)
		mockCourses := new(MockCourseDirectory)
		mockRabbit := new(MockRabbitChannel)
		usecase := NewMediaUseCase(mockMinIO, mockRepo, mockCourses, mockRabbit)

		var order []string
		var created domain.VideoAsset

		mockCourses.On("GetLesson", ctx, "lesson-1").Return(lesson, nil).Once()
		mockMinIO.On("PutStream", ctx, mock.MatchedBy(sourceKeyMatcher), mock.Anything, int64(-1), "video/mp4").
			Run(func(args mock.Arguments) { order = append(order, "blob") }).
			Return(nil).Once()
		mockRepo.On("Create", mock.Anything).
			Run(func(args mock.Arguments) {
				order = append(order, "record")
				created = *args.Get(0).(*domain.VideoAsset)
			}).
			Return(nil).Once()
		mockRabbit.On("Publish",
			"",               // exchange
			domain.QueueName, // queue
			false,            // mandatory
			false,            // immediate
			mock.MatchedBy(func(p amqp.Publishing) bool {
				return p.ContentType == "application/json" &&
					p.DeliveryMode == amqp.Persistent &&
					len(p.Body) > 0
			}),
		).Run(func(args mock.Arguments) { order = append(order, "job") }).
			Return(nil).Once()

		resp, err := usecase.SubmitVideo(ctx, newReq())

		assert.NoError(t, err)
		assert.NotNil(t, resp)
		assert.Equal(t, []string{"blob", "record", "job"}, order)
		assert.Equal(t, domain.VideoPending, created.Status)
		assert.Empty(t, created.OutputLocation)
		assert.True(t, sourceKeyMatcher(created.SourceLocation))
		assert.Equal(t, created.ID, resp.ID)

		mockCourses.AssertExpectations(t)
		mockMinIO.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
		mockRabbit.AssertExpectations(t)
	})

	t.Run("job message carries the new video id and source key", func(t *testing.T) {
		mockMinIO := new(MockMinIOClient)
		mockRepo := new(MockVideoRepo)
		mockCourses := new(MockCourseDirectory)
		mockRabbit := new(MockRabbitChannel)
		usecase := NewMediaUseCase(mockMinIO, mockRepo, mockCourses, mockRabbit)

		mockCourses.On("GetLesson", ctx, "lesson-1").Return(lesson, nil).Once()
		mockMinIO.On("PutStream", ctx, mock.Anything, mock.Anything, int64(-1), "video/mp4").Return(nil).Once()
		mockRepo.On("Create", mock.Anything).Return(nil).Once()

		var published amqp.Publishing
		mockRabbit.On("Publish", "", domain.QueueName, false, false, mock.Anything).
			Run(func(args mock.Arguments) { published = args.Get(4).(amqp.Publishing) }).
			Return(nil).Once()

		resp, err := usecase.SubmitVideo(ctx, newReq())
		assert.NoError(t, err)

		assert.Contains(t, string(published.Body), fmt.Sprintf("%q", resp.ID))
		assert.Contains(t, string(published.Body), resp.SourceLocation)
	})

	t.Run("unknown lesson rejects before any side effect", func(t *testing.T) {
		mockMinIO := new(MockMinIOClient)
		mockRepo := new(MockVideoRepo)
		mockCourses := new(MockCourseDirectory)
		mockRabbit := new(MockRabbitChannel)
		usecase := NewMediaUseCase(mockMinIO, mockRepo, mockCourses, mockRabbit)

		mockCourses.On("GetLesson", ctx, "lesson-1").Return(nil, domain.ErrLessonNotFound).Once()

		resp, err := usecase.SubmitVideo(ctx, newReq())

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, domain.ErrLessonNotFound)
		mockMinIO.AssertNotCalled(t, "PutStream", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
		mockRabbit.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("blob upload failure leaves no record and no job", func(t *testing.T) {
		mockMinIO := new(MockMinIOClient)
		mockRepo := new(MockVideoRepo)
		mockCourses := new(MockCourseDirectory)
		mockRabbit := new(MockRabbitChannel)
		usecase := NewMediaUseCase(mockMinIO, mockRepo, mockCourses, mockRabbit)

		mockCourses.On("GetLesson", ctx, "lesson-1").Return(lesson, nil).Once()
		mockMinIO.On("PutStream", ctx, mock.Anything, mock.Anything, int64(-1), "video/mp4").
			Return(errors.New("minio error")).Once()

		resp, err := usecase.SubmitVideo(ctx, newReq())

		assert.Nil(t, resp)
		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
		mockRabbit.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("record create failure leaves no job", func(t *testing.T) {
		mockMinIO := new(MockMinIOClient)
		mockRepo := new(MockVideoRepo)
		mockCourses := new(MockCourseDirectory)
		mockRabbit := new(MockRabbitChannel)
		usecase := NewMediaUseCase(mockMinIO, mockRepo, mockCourses, mockRabbit)

		mockCourses.On("GetLesson", ctx, "lesson-1").Return(lesson, nil).Once()
		mockMinIO.On("PutStream", ctx, mock.Anything, mock.Anything, int64(-1), "video/mp4").Return(nil).Once()
		mockRepo.On("Create", mock.Anything).Return(errors.New("db error")).Once()

		resp, err := usecase.SubmitVideo(ctx, newReq())

		assert.Nil(t, resp)
		assert.Error(t, err)
		mockRabbit.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("enqueue failure surfaces", func(t *testing.T) {
		mockMinIO := new(MockMinIOClient)
		mockRepo := new(MockVideoRepo)
		mockCourses := new(MockCourseDirectory)
		mockRabbit := new(MockRabbitChannel)
		usecase := NewMediaUseCase(mockMinIO, mockRepo, mockCourses, mockRabbit)

		mockCourses.On("GetLesson", ctx, "lesson-1").Return(lesson, nil).Once()
		mockMinIO.On("PutStream", ctx, mock.Anything, mock.Anything, int64(-1), "video/mp4").Return(nil).Once()
		mockRepo.On("Create", mock.Anything).Return(nil).Once()
		mockRabbit.On("Publish", "", domain.QueueName, false, false, mock.Anything).
			Return(errors.New("rabbit error")).Once()

		resp, err := usecase.SubmitVideo(ctx, newReq())

		assert.Nil(t, resp)
		assert.Error(t, err)
	})

	t.Run("missing source stream rejects", func(t *testing.T) {
		mockMinIO := new(MockMinIOClient)
		mockRepo := new(MockVideoRepo)
		mockCourses := new(MockCourseDirectory)
		mockRabbit := new(MockRabbitChannel)
		usecase := NewMediaUseCase(mockMinIO, mockRepo, mockCourses, mockRabbit)

		req := newReq()
		req.File = nil
		resp, err := usecase.SubmitVideo(ctx, req)

		assert.Nil(t, resp)
		assert.Error(t, err)
		mockCourses.AssertNotCalled(t, "GetLesson", mock.Anything, mock.Anything)
	})
}

// meteredReader serves a fixed number of synthetic bytes and records the
// largest single Read it ever answered
type meteredReader struct {
	remaining int64
	maxRead   int
}

func (r *meteredReader) Read(p []byte) (int, error) {
	if r.remaining <= 0 {
		return 0, io.EOF
	}
	n := int64(len(p))
	if n > r.remaining {
		n = r.remaining
	}
	if int(n) > r.maxRead {
		r.maxRead = int(n)
	}
	r.remaining -= n
	return int(n), nil
}

func TestSubmitVideoStreamsWithoutBuffering(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	mockMinIO := new(MockMinIOClient)
	mockRepo := new(MockVideoRepo)
	mockCourses := new(MockCourseDirectory)
	mockRabbit := new(MockRabbitChannel)
	usecase := NewMediaUseCase(mockMinIO, mockRepo, mockCourses, mockRabbit)

	const sourceSize = 256 << 20
	source := &meteredReader{remaining: sourceSize}

	mockCourses.On("GetLesson", ctx, "lesson-1").Return(&domain.Lesson{ID: "lesson-1", ClassID: "class-1"}, nil).Once()

	var consumed int64
	mockMinIO.On("PutStream", ctx, mock.Anything, mock.Anything, int64(-1), "video/mp4").
		Run(func(args mock.Arguments) {
			// the blob client is handed the caller's reader untouched, so a
			// chunked copy here sees the upload stream exactly as minio would
			reader := args.Get(2).(io.Reader)
			n, err := io.Copy(io.Discard, reader)
			assert.NoError(t, err)
			consumed = n
		}).
		Return(nil).Once()
	mockRepo.On("Create", mock.Anything).Return(nil).Once()
	mockRabbit.On("Publish", "", domain.QueueName, false, false, mock.Anything).Return(nil).Once()

	resp, err := usecase.SubmitVideo(ctx, domain.SubmitVideoReq{
		Title:      "Large Video",
		LessonID:   "lesson-1",
		FileName:   "large.mp4",
		UploaderID: "teacher-1",
		File:       source,
	})

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int64(sourceSize), consumed)
	assert.LessOrEqual(t, source.maxRead, 8<<20)
}

func TestGetVideoStatus(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	t.Run("ready video reports its manifest url", func(t *testing.T) {
		mockMinIO := new(MockMinIOClient)
		mockRepo := new(MockVideoRepo)
		mockCourses := new(MockCourseDirectory)
		mockRabbit := new(MockRabbitChannel)
		usecase := NewMediaUseCase(mockMinIO, mockRepo, mockCourses, mockRabbit)

		mockRepo.On("GetByID", "video-1").Return(&domain.VideoAsset{
			ID:             "video-1",
			Status:         domain.VideoReady,
			OutputLocation: "http://minio:9000/lesson-media/lesson-videos-hls/video-1/index.m3u8",
		}, nil).Once()

		resp, err := usecase.GetVideoStatus(ctx, "video-1")

		assert.NoError(t, err)
		assert.Equal(t, domain.VideoReady, resp.Status)
		assert.Equal(t, "http://minio:9000/lesson-media/lesson-videos-hls/video-1/index.m3u8", resp.OutputLocation)
		mockRepo.AssertExpectations(t)
	})

	t.Run("pending video has no output location", func(t *testing.T) {
		mockRepo := new(MockVideoRepo)
		usecase := NewMediaUseCase(new(MockMinIOClient), mockRepo, new(MockCourseDirectory), new(MockRabbitChannel))

		mockRepo.On("GetByID", "video-1").Return(&domain.VideoAsset{
			ID:     "video-1",
			Status: domain.VideoPending,
		}, nil).Once()

		resp, err := usecase.GetVideoStatus(ctx, "video-1")

		assert.NoError(t, err)
		assert.Equal(t, domain.VideoPending, resp.Status)
		assert.Empty(t, resp.OutputLocation)
	})

	t.Run("unknown video id", func(t *testing.T) {
		mockRepo := new(MockVideoRepo)
		usecase := NewMediaUseCase(new(MockMinIOClient), mockRepo, new(MockCourseDirectory), new(MockRabbitChannel))

		mockRepo.On("GetByID", "missing").Return(nil, domain.ErrRecordNotFound).Once()

		resp, err := usecase.GetVideoStatus(ctx, "missing")

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}
