package domain

import "time"

const (
	// QueueName durable queue shared by all producers and the worker group
	QueueName = "video-transcode"
	// EventTopic kafka topic carrying job completion/failure events
	EventTopic = "pipeline-events"
)

// TranscodeJob queue message handed from the upload orchestrator to the worker.
// SourceLocation duplicates the asset's source key so the worker can start
// downloading without a record lookup.
type TranscodeJob struct {
	VideoID        string `json:"video_id"`
	SourceLocation string `json:"source_location"`
}

// PipelineEvent emitted to the event stream after every job attempt
type PipelineEvent struct {
	VideoID  string    `json:"video_id"`
	LessonID string    `json:"lesson_id,omitempty"`
	Status   string    `json:"status"`
	Error    string    `json:"error,omitempty"`
	At       time.Time `json:"at"`
}
