package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lesson_media_service/internal/media/domain"
	"lesson_media_service/internal/media/repository"
	"lesson_media_service/pkg/database"
	"lesson_media_service/pkg/logger"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// retryBackoff pause before requeueing a failed job so a poisoned message
// does not spin the worker
const retryBackoff = 10 * time.Second

// Processor drives the per-job state machine:
// pending -> processing -> (ready | failed). All collaborators are injected
// so tests can substitute fakes.
type Processor struct {
	Blob     database.MinIOClientRepo
	Videos   repository.VideoRepo
	Courses  repository.CourseDirectory
	Notifier domain.NotificationDispatcher
	// WorkRoot parent of the job-scoped scratch directories
	WorkRoot string
	// Transcode defaults to TranscodeToHLS
	Transcode func(inputPath, outputDir string) error
}

// NewProcessor create a job Processor
func NewProcessor(blob database.MinIOClientRepo,
	videos repository.VideoRepo,
	courses repository.CourseDirectory,
	notifier domain.NotificationDispatcher,
	workRoot string,
) *Processor {
	return &Processor{
		Blob:      blob,
		Videos:    videos,
		Courses:   courses,
		Notifier:  notifier,
		WorkRoot:  workRoot,
		Transcode: TranscodeToHLS,
	}
}

// Process execute one transcode job:
//  1. mark the record processing before any I/O
//  2. stage the source into the job-scoped work dir
//  3. run the transcoder
//  4. upload every output file
//  5. finalize the record with the manifest URL
//  6. notify the class owner
//
// Stage errors come back wrapped in their sentinel; the deferred block marks
// the record failed (best effort) and always removes the work dir.
func (p *Processor) Process(ctx context.Context, job domain.TranscodeJob) (asset *domain.VideoAsset, err error) {
	logger.Log.Info("transcode job picked up",
		zap.String("video_id", job.VideoID),
		zap.String("source", job.SourceLocation))

	asset, err = p.Videos.UpdateStatus(job.VideoID, domain.VideoProcessing, "")
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("videoID[%s]: %w", job.VideoID, domain.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("videoID[%s] mark processing failed: %v", job.VideoID, err)
	}

	workDir := filepath.Join(p.WorkRoot, job.VideoID)
	if mkErr := os.MkdirAll(workDir, 0755); mkErr != nil {
		return asset, fmt.Errorf("videoID[%s] create work dir failed: %v", job.VideoID, mkErr)
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			logger.Log.Warn("work dir cleanup failed",
				zap.String("video_id", job.VideoID),
				zap.Error(rmErr))
		}
		if err != nil {
			// best effort; never mask the stage error
			if _, markErr := p.Videos.UpdateStatus(job.VideoID, domain.VideoFailed, ""); markErr != nil {
				logger.Log.Errorf("mark failed write failed", markErr,
					zap.String("video_id", job.VideoID))
			}
		}
	}()

	inputPath := filepath.Join(workDir, "source"+filepath.Ext(job.SourceLocation))
	if dlErr := p.Blob.DownloadFile(ctx, job.SourceLocation, inputPath); dlErr != nil {
		err = fmt.Errorf("%w: videoID[%s] key[%s]: %v", domain.ErrDownload, job.VideoID, job.SourceLocation, dlErr)
		return asset, err
	}
	logger.Log.Info("source staged", zap.String("video_id", job.VideoID), zap.String("input", inputPath))

	outDir := filepath.Join(workDir, "hls")
	if mkErr := os.MkdirAll(outDir, 0755); mkErr != nil {
		err = fmt.Errorf("%w: videoID[%s] create output dir: %v", domain.ErrTranscode, job.VideoID, mkErr)
		return asset, err
	}
	if tcErr := p.Transcode(inputPath, outDir); tcErr != nil {
		err = fmt.Errorf("videoID[%s]: %w", job.VideoID, tcErr)
		return asset, err
	}
	logger.Log.Info("transcode finished", zap.String("video_id", job.VideoID))

	if upErr := p.publishOutputs(ctx, job.VideoID, outDir); upErr != nil {
		err = upErr
		return asset, err
	}

	manifestURL := p.Blob.PublicURL(outputKey(job.VideoID, ManifestName))
	asset, err = p.Videos.UpdateStatus(job.VideoID, domain.VideoReady, manifestURL)
	if err != nil {
		err = fmt.Errorf("videoID[%s] finalize failed: %v", job.VideoID, err)
		return asset, err
	}
	logger.Log.Info("record finalized",
		zap.String("video_id", job.VideoID),
		zap.String("output", manifestURL))

	if nfErr := p.notifyOwner(ctx, asset); nfErr != nil {
		// the asset is published, but an uninformed owner still fails the job
		err = fmt.Errorf("%w: videoID[%s]: %v", domain.ErrNotify, job.VideoID, nfErr)
		return asset, err
	}

	return asset, nil
}

// publishOutputs upload every file the transcoder wrote, keyed under the
// video id. Partial uploads are acceptable garbage; the record only turns
// ready after all of them succeed.
func (p *Processor) publishOutputs(ctx context.Context, videoID, outDir string) error {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return fmt.Errorf("%w: videoID[%s] read output dir: %v", domain.ErrUpload, videoID, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		localPath := filepath.Join(outDir, entry.Name())
		key := outputKey(videoID, entry.Name())
		if err := p.Blob.UploadFile(ctx, key, localPath, contentTypeFor(entry.Name())); err != nil {
			return fmt.Errorf("%w: videoID[%s] key[%s]: %v", domain.ErrUpload, videoID, key, err)
		}
		logger.Log.Debug("output uploaded", zap.String("video_id", videoID), zap.String("key", key))
	}
	return nil
}

// notifyOwner resolve lesson -> class -> teacher and dispatch the completion
// notification
func (p *Processor) notifyOwner(ctx context.Context, asset *domain.VideoAsset) error {
	owner, err := p.Courses.ResolveLessonOwner(ctx, asset.LessonID)
	if err != nil {
		return err
	}

	n := domain.Notification{
		RecipientID: owner.TeacherID,
		Kind:        domain.NotificationKind,
		Payload: domain.NotificationPayload{
			Message:  fmt.Sprintf("Video %q for lesson %q is ready to watch", asset.Title, owner.LessonTitle),
			Link:     fmt.Sprintf("/classes/%s/lessons/%s?video=%s", owner.ClassID, owner.LessonID, asset.ID),
			VideoID:  asset.ID,
			LessonID: owner.LessonID,
			ClassID:  owner.ClassID,
		},
	}
	return p.Notifier.Dispatch(ctx, n)
}

// Consumer long-lived queue consumer feeding jobs to a Processor
type Consumer struct {
	rabbitChannel *amqp.Channel
	processor     *Processor
	events        database.EventStreamRepo
	queueName     string
}

// NewConsumer create a Consumer
func NewConsumer(rabbitChannel *amqp.Channel, processor *Processor, events database.EventStreamRepo, queueName string) *Consumer {
	return &Consumer{
		rabbitChannel: rabbitChannel,
		processor:     processor,
		events:        events,
		queueName:     queueName,
	}
}

// Start consume jobs until ctx is cancelled. Manual acknowledgement: a
// processed job is acked, a retryable failure is nacked back onto the queue,
// and a vanished record is nacked without requeue so the broker dead-letters
// it.
func (c *Consumer) Start(ctx context.Context) error {
	msgs, err := c.rabbitChannel.Consume(
		c.queueName,
		"",    // consumer tag assigned by the broker
		false, // manual ack
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume %s failed: %w", c.queueName, err)
	}

	logger.Log.Info("worker consuming", zap.String("queue", c.queueName))

	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				logger.Log.Warn("consume channel closed", zap.String("queue", c.queueName))
				return nil
			}
			c.handleDelivery(ctx, d)
		case <-ctx.Done():
			logger.Log.Info("worker stopping", zap.String("queue", c.queueName))
			return nil
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var job domain.TranscodeJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		logger.Log.Errorf("job message unmarshal failed", err)
		// malformed body can never succeed, drop it to the dead letter
		if nackErr := d.Nack(false, false); nackErr != nil {
			logger.Log.Errorf("nack failed", nackErr)
		}
		return
	}

	asset, err := c.processor.Process(ctx, job)
	if err != nil {
		logger.Log.Errorf("transcode job failed", err, zap.String("video_id", job.VideoID))
		c.publishEvent(ctx, job, asset, string(domain.VideoFailed), err)

		requeue := !errors.Is(err, domain.ErrRecordNotFound)
		if requeue {
			time.Sleep(retryBackoff)
		}
		if nackErr := d.Nack(false, requeue); nackErr != nil {
			logger.Log.Errorf("nack failed", nackErr, zap.String("video_id", job.VideoID))
		}
		return
	}

	c.publishEvent(ctx, job, asset, string(domain.VideoReady), nil)
	if ackErr := d.Ack(false); ackErr != nil {
		logger.Log.Errorf("ack failed", ackErr, zap.String("video_id", job.VideoID))
	} else {
		logger.Log.Info("transcode job done", zap.String("video_id", job.VideoID))
	}
}

// publishEvent emit the completion/failure event for external monitoring.
// Event stream trouble is logged, never escalated into a job outcome.
func (c *Consumer) publishEvent(ctx context.Context, job domain.TranscodeJob, asset *domain.VideoAsset, status string, jobErr error) {
	if c.events == nil {
		return
	}

	event := domain.PipelineEvent{
		VideoID: job.VideoID,
		Status:  status,
		At:      time.Now().UTC(),
	}
	if asset != nil {
		event.LessonID = asset.LessonID
	}
	if jobErr != nil {
		event.Error = jobErr.Error()
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorf("pipeline event marshal failed", err, zap.String("video_id", job.VideoID))
		return
	}
	if err := c.events.Publish(ctx, []byte(job.VideoID), data); err != nil {
		logger.Log.Errorf("pipeline event publish failed", err, zap.String("video_id", job.VideoID))
	}
}
