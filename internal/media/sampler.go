package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"chatlens/internal/models"
	"chatlens/internal/worker"
)

const (
	// DefaultFrameCount is how many stills are sampled per video.
	DefaultFrameCount = 3
	frameWidth        = 640
)

// Sampler extracts a small fixed number of still frames from a video at
// evenly spaced timestamps. Extractions run concurrently on the shared
// worker pool; each frame is base64-encoded into memory and its on-disk
// copy removed as soon as the encode succeeds.
type Sampler struct {
	runner     Runner
	pool       *worker.Pool
	frameCount int
	frameDir   string
	timeout    time.Duration
}

// NewSampler builds a sampler. frameDir hosts per-request temp directories;
// timeout bounds each ffprobe/ffmpeg invocation.
func NewSampler(runner Runner, pool *worker.Pool, frameCount int, frameDir string, timeout time.Duration) *Sampler {
	if runner == nil {
		runner = NewExecRunner()
	}
	if frameCount <= 0 {
		frameCount = DefaultFrameCount
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Sampler{
		runner:     runner,
		pool:       pool,
		frameCount: frameCount,
		frameDir:   frameDir,
		timeout:    timeout,
	}
}

// sampleTimestamps spaces count timestamps strictly inside (0, duration),
// skipping the exact start and end frames which tend to be blank or
// transitional.
func sampleTimestamps(duration float64, count int) []float64 {
	timestamps := make([]float64, count)
	for i := 0; i < count; i++ {
		timestamps[i] = duration * float64(i+1) / float64(count+1)
	}
	return timestamps
}

// Sample probes the video and extracts up to frameCount stills. A source
// without a usable duration fails with ErrUnprobeable before any extraction
// starts. Individual extraction failures are logged and skipped; the result
// holds the successes in completion order, each tagged with its timestamp
// index. The per-request temp directory is removed before returning.
func (s *Sampler) Sample(ctx context.Context, videoPath string) ([]models.Frame, error) {
	duration, err := s.probeDuration(ctx, videoPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.frameDir, 0o755); err != nil {
		return nil, fmt.Errorf("create frame dir: %w", err)
	}
	tmpDir, err := os.MkdirTemp(s.frameDir, "frames-")
	if err != nil {
		return nil, fmt.Errorf("create frame temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			log.Printf("remove frame temp dir %s failed: %v", tmpDir, err)
		}
	}()

	timestamps := sampleTimestamps(duration, s.frameCount)

	var (
		mu     sync.Mutex
		frames []models.Frame
		wg     sync.WaitGroup
	)
	wg.Add(len(timestamps))
	for i, ts := range timestamps {
		index, timestamp := i, ts
		task := func() {
			defer wg.Done()
			data, err := s.extractFrame(ctx, videoPath, tmpDir, index, timestamp)
			if err != nil {
				log.Printf("extract frame %d of %s at %.3fs failed: %v", index, videoPath, timestamp, err)
				return
			}
			mu.Lock()
			frames = append(frames, models.Frame{Index: index, Data: data})
			mu.Unlock()
		}
		if s.pool != nil {
			s.pool.Submit(task)
		} else {
			go task()
		}
	}
	wg.Wait()

	return frames, nil
}

// extractFrame pulls one downscaled still at the given timestamp, encodes
// it and deletes the on-disk copy.
func (s *Sampler) extractFrame(ctx context.Context, videoPath, tmpDir string, index int, timestamp float64) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	framePath := filepath.Join(tmpDir, fmt.Sprintf("frame_%d.jpg", index))
	_, err := s.runner.Run(callCtx, "ffmpeg",
		"-ss", fmt.Sprintf("%.3f", timestamp),
		"-i", videoPath,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:-2", frameWidth),
		"-q:v", "4",
		"-y",
		framePath)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(framePath)
	if err != nil {
		return "", fmt.Errorf("read frame: %w", err)
	}
	if err := os.Remove(framePath); err != nil {
		log.Printf("remove frame %s failed: %v", framePath, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
