package domain

import "errors"

// Stage error sentinels. The worker wraps every stage failure with one of
// these so the consumer can classify retryable vs dead-letter outcomes with
// errors.Is.
var (
	// ErrDownload blob retrieval failed or returned a non-streamable body
	ErrDownload = errors.New("source download failed")
	// ErrTranscode ffmpeg could not be started, exited non-zero, or produced no manifest
	ErrTranscode = errors.New("transcode failed")
	// ErrUpload at least one output file failed to upload
	ErrUpload = errors.New("output upload failed")
	// ErrNotify owner notification dispatch failed after a successful transcode
	ErrNotify = errors.New("notification dispatch failed")
	// ErrRecordNotFound the video record vanished between enqueue and consume; not retryable
	ErrRecordNotFound = errors.New("video record not found")
	// ErrLessonNotFound submit referenced a lesson the course system does not know
	ErrLessonNotFound = errors.New("lesson not found")
)
