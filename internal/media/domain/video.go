package domain

import (
	"io"
	"time"
)

// VideoStatus definition video lifecycle status
type VideoStatus string

const (
	// VideoPending record created, job not yet picked up
	VideoPending VideoStatus = "pending"
	// VideoProcessing job picked up, work underway
	VideoProcessing VideoStatus = "processing"
	// VideoReady segmented output published and record finalized
	VideoReady VideoStatus = "ready"
	// VideoFailed job failed; a fresh enqueue may re-enter processing
	VideoFailed VideoStatus = "failed"
)

// VideoAsset one uploaded video and its derived streamable artifact.
// Status only moves pending -> processing -> (ready | failed) per attempt.
type VideoAsset struct {
	ID             string      `gorm:"primaryKey" json:"id"`
	Title          string      `json:"title"`
	LessonID       string      `gorm:"index" json:"lesson_id"`
	SourceLocation string      `json:"source_location"` // object key of the original upload
	OutputLocation string      `json:"output_location"` // public URL of the HLS manifest, empty until ready
	Status         VideoStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// SubmitVideoReq usecase submit video request
type SubmitVideoReq struct {
	Title      string
	LessonID   string
	FileName   string
	UploaderID string
	File       io.Reader
}

// VideoStatusRes usecase status query response
type VideoStatusRes struct {
	VideoID        string      `json:"video_id"`
	Status         VideoStatus `json:"status"`
	OutputLocation string      `json:"output_location"`
}
