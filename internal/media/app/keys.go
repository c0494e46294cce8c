package app

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	sourceCategory = "lesson-videos"
	outputCategory = "lesson-videos-hls"
)

// newSourceKey build a collision-resistant object key for an uploaded source
func newSourceKey(fileName string) string {
	return fmt.Sprintf("%s/%s-%s", sourceCategory, uuid.NewString(), fileName)
}

// outputKey build the object key for one transcoded output file
func outputKey(videoID, fileName string) string {
	return fmt.Sprintf("%s/%s/%s", outputCategory, videoID, fileName)
}

// contentTypeFor two output categories exist: the playlist and the segments
func contentTypeFor(fileName string) string {
	switch filepath.Ext(fileName) {
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/MP2T"
	default:
		return "application/octet-stream"
	}
}
