package app

import (
	"context"
	"encoding/json"
	"fmt"

	"lesson_media_service/internal/media/domain"
	"lesson_media_service/internal/media/repository"
	"lesson_media_service/pkg/database"
	errprocess "lesson_media_service/pkg/err"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// MediaUseCase application services exposed by the media context
type MediaUseCase interface {
	SubmitVideo(ctx context.Context, req domain.SubmitVideoReq) (*domain.VideoAsset, error)
	GetVideoStatus(ctx context.Context, videoID string) (*domain.VideoStatusRes, error)
}

type mediaUseCase struct {
	MinioClient   database.MinIOClientRepo
	VideoRepo     repository.VideoRepo
	Courses       repository.CourseDirectory
	RabbitChannel database.RabbitRepo
}

// NewMediaUseCase create a new MediaUseCase
func NewMediaUseCase(minIO database.MinIOClientRepo,
	repo repository.VideoRepo,
	courses repository.CourseDirectory,
	rabbitChannel database.RabbitRepo,
) MediaUseCase {
	return &mediaUseCase{
		MinioClient:   minIO,
		VideoRepo:     repo,
		Courses:       courses,
		RabbitChannel: rabbitChannel,
	}
}

// SubmitVideo stream the source into the blob store, create the pending
// record, then enqueue the transcode job. The ordering is load-bearing: the
// blob must be durable before the record exists, and the record must exist
// before the job does, so a worker picking up the job can always resolve both.
// Returns immediately; transcoding happens on the worker.
func (s *mediaUseCase) SubmitVideo(ctx context.Context, req domain.SubmitVideoReq) (*domain.VideoAsset, error) {
	if req.File == nil {
		return nil, errprocess.Set(fmt.Sprintf("lessonID[%s] submit without a source stream", req.LessonID))
	}

	if _, err := s.Courses.GetLesson(ctx, req.LessonID); err != nil {
		return nil, fmt.Errorf("lessonID[%s]: %w", req.LessonID, err)
	}

	sourceKey := newSourceKey(req.FileName)
	if err := s.MinioClient.PutStream(ctx, sourceKey, req.File, -1, "video/mp4"); err != nil {
		errMsg := fmt.Sprintf("fileName[%s] source upload failed: %v", req.FileName, err)
		return nil, errprocess.Set(errMsg)
	}

	video := domain.VideoAsset{
		ID:             uuid.NewString(),
		Title:          req.Title,
		LessonID:       req.LessonID,
		SourceLocation: sourceKey,
		OutputLocation: "",
		Status:         domain.VideoPending,
	}
	if err := s.VideoRepo.Create(&video); err != nil {
		// the already-uploaded blob is left behind as eventual garbage
		errMsg := fmt.Sprintf("fileName[%s] video record create failed: %v", req.FileName, err)
		return nil, errprocess.Set(errMsg)
	}

	job := domain.TranscodeJob{
		VideoID:        video.ID,
		SourceLocation: video.SourceLocation,
	}
	data, err := json.Marshal(job)
	if err != nil {
		errMsg := fmt.Sprintf("videoID[%s] job marshal failed: %v", video.ID, err)
		return nil, errprocess.Set(errMsg)
	}
	err = s.RabbitChannel.Publish(
		"",               // default exchange
		domain.QueueName, // queue name
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         data,
		},
	)
	if err != nil {
		errMsg := fmt.Sprintf("videoID[%s] job enqueue failed: %v", video.ID, err)
		return nil, errprocess.Set(errMsg)
	}

	return &video, nil
}

// GetVideoStatus status query surface: current status plus the manifest URL
// once ready
func (s *mediaUseCase) GetVideoStatus(ctx context.Context, videoID string) (*domain.VideoStatusRes, error) {
	video, err := s.VideoRepo.GetByID(videoID)
	if err != nil {
		return nil, fmt.Errorf("videoID[%s]: %w", videoID, err)
	}

	return &domain.VideoStatusRes{
		VideoID:        video.ID,
		Status:         video.Status,
		OutputLocation: video.OutputLocation,
	}, nil
}
