package transcode

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FFmpeg compresses video bytes through an external ffmpeg binary before
// upload. Non-video input passes through untouched. Callers treat any error
// as advisory and upload the original bytes.
type FFmpeg struct {
	binary string
}

func NewFFmpeg(binary string) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{binary: binary}
}

func (f *FFmpeg) Transform(data []byte, mimeType string) ([]byte, error) {
	if !strings.HasPrefix(mimeType, "video/") {
		return data, nil
	}

	dir, err := os.MkdirTemp("", "transcode-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input")
	output := filepath.Join(dir, "output.mp4")
	if err := os.WriteFile(input, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write input file: %w", err)
	}

	// CRF 28 trades quality for size; veryfast keeps request latency sane.
	cmd := exec.Command(f.binary,
		"-i", input,
		"-vcodec", "libx264",
		"-crf", "28",
		"-preset", "veryfast",
		"-acodec", "aac",
		"-b:a", "128k",
		"-y", output,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w: %s", err, string(out))
	}

	compressed, err := os.ReadFile(output)
	if err != nil {
		return nil, fmt.Errorf("failed to read ffmpeg output: %w", err)
	}
	return compressed, nil
}
