package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrProbeUnavailable means ffprobe could not be run at all, which is a
// server problem rather than a bad upload
var ErrProbeUnavailable = errors.New("ffprobe is not available")

// MediaInfo is what the upload checks need to know about a file
type MediaInfo struct {
	DurationSeconds float64
	HasAudio        bool
}

// FFProbe reads media metadata through the ffprobe binary
type FFProbe struct{}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe inspects the file content; the client supplied content type is
// never consulted
func (FFProbe) Probe(ctx context.Context, path string) (MediaInfo, error) {
	if err := ctx.Err(); err != nil {
		return MediaInfo{}, err
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return MediaInfo{}, fmt.Errorf("%w: %v", ErrProbeUnavailable, err)
	}

	out, err := ffmpeg.Probe(path, ffmpeg.KwArgs{"show_streams": "", "show_format": ""})
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return MediaInfo{}, fmt.Errorf("%w: %v", ErrProbeUnavailable, err)
		}
		return MediaInfo{}, fmt.Errorf("failed to probe media: %v", err)
	}
	return parseProbeOutput(out)
}

func parseProbeOutput(raw string) (MediaInfo, error) {
	var probe probeOutput
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return MediaInfo{}, fmt.Errorf("failed to parse probe output: %v", err)
	}

	var info MediaInfo
	for _, s := range probe.Streams {
		if s.CodecType == "audio" {
			info.HasAudio = true
			break
		}
	}

	if probe.Format.Duration == "" {
		return info, fmt.Errorf("probe output has no duration")
	}
	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return info, fmt.Errorf("invalid duration %q: %v", probe.Format.Duration, err)
	}
	info.DurationSeconds = duration
	return info, nil
}
