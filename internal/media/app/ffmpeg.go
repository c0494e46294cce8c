package app

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"lesson_media_service/internal/media/domain"
)

const (
	// ManifestName playlist file every successful transcode must produce
	ManifestName = "index.m3u8"

	hlsSegmentSeconds = "10"
)

// ffmpegBin swappable for tests
var ffmpegBin = "ffmpeg"

// TranscodeToHLS run ffmpeg over inputPath and write an HLS manifest plus TS
// segments into outputDir. The argument template is fixed: streams are copied
// without re-encoding and cut into fixed-length segments. Success requires
// exit status 0 and the manifest on disk.
func TranscodeToHLS(inputPath, outputDir string) error {
	cmdArgs := []string{
		"-i", inputPath,
		"-c", "copy",
		"-f", "hls",
		"-hls_time", hlsSegmentSeconds,
		"-hls_list_size", "0",
		filepath.Join(outputDir, ManifestName),
	}
	cmd := exec.Command(ffmpegBin, cmdArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: ffmpeg: %v, output: %s", domain.ErrTranscode, err, string(output))
	}

	if _, err := os.Stat(filepath.Join(outputDir, ManifestName)); err != nil {
		return fmt.Errorf("%w: no manifest produced in %s", domain.ErrTranscode, outputDir)
	}
	return nil
}
