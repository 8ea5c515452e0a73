package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrUnprobeable marks a video whose duration could not be determined.
// Sampling never starts on such a source.
var ErrUnprobeable = errors.New("video duration unavailable")

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// probeDuration asks ffprobe for the container duration in seconds.
func (s *Sampler) probeDuration(ctx context.Context, path string) (float64, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.runner.Run(callCtx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnprobeable, err)
	}

	var probed probeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		return 0, fmt.Errorf("%w: decode ffprobe output: %v", ErrUnprobeable, err)
	}
	duration, err := strconv.ParseFloat(probed.Format.Duration, 64)
	if err != nil || duration <= 0 {
		return 0, ErrUnprobeable
	}
	return duration, nil
}
