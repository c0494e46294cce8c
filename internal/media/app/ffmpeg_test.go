package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lesson_media_service/internal/media/domain"

	"github.com/stretchr/testify/assert"
)

func TestTranscodeToHLS(t *testing.T) {
	t.Run("non-zero exit wraps the transcode error", func(t *testing.T) {
		originalBin := ffmpegBin
		defer func() { ffmpegBin = originalBin }()
		ffmpegBin = "false"

		err := TranscodeToHLS(filepath.Join(t.TempDir(), "source.mp4"), t.TempDir())

		assert.ErrorIs(t, err, domain.ErrTranscode)
	})

	t.Run("zero exit without a manifest still fails", func(t *testing.T) {
		originalBin := ffmpegBin
		defer func() { ffmpegBin = originalBin }()
		ffmpegBin = "true"

		outDir := t.TempDir()
		err := TranscodeToHLS(filepath.Join(t.TempDir(), "source.mp4"), outDir)

		assert.ErrorIs(t, err, domain.ErrTranscode)
		assert.Contains(t, err.Error(), "no manifest")
	})

	t.Run("zero exit with a manifest succeeds", func(t *testing.T) {
		originalBin := ffmpegBin
		defer func() { ffmpegBin = originalBin }()
		ffmpegBin = "true"

		outDir := t.TempDir()
		assert.NoError(t, os.WriteFile(filepath.Join(outDir, ManifestName), []byte("#EXTM3U"), 0644))

		err := TranscodeToHLS(filepath.Join(t.TempDir(), "source.mp4"), outDir)

		assert.NoError(t, err)
	})
}

func TestNewSourceKey(t *testing.T) {
	key := newSourceKey("lecture.mp4")

	assert.True(t, strings.HasPrefix(key, "lesson-videos/"))
	assert.True(t, strings.HasSuffix(key, "-lecture.mp4"))
	// two uploads of the same file name must never collide
	assert.NotEqual(t, key, newSourceKey("lecture.mp4"))
}

func TestOutputKey(t *testing.T) {
	assert.Equal(t, "lesson-videos-hls/video-1/index.m3u8", outputKey("video-1", "index.m3u8"))
	assert.Equal(t, "lesson-videos-hls/video-1/seg042.ts", outputKey("video-1", "seg042.ts"))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/vnd.apple.mpegurl", contentTypeFor("index.m3u8"))
	assert.Equal(t, "video/MP2T", contentTypeFor("seg000.ts"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("thumbnail.png"))
}
