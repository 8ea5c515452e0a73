package ingest

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultOrphanTTL     = time.Hour
	DefaultSweepInterval = 15 * time.Minute
)

// Sweeper reclaims uploads and frame directories that outlived their
// request, which only happens after a crash or kill mid-request. Normal
// requests delete their own files.
type Sweeper struct {
	dirs []string
	ttl  time.Duration
}

func NewSweeper(ttl time.Duration, dirs ...string) *Sweeper {
	if ttl <= 0 {
		ttl = DefaultOrphanTTL
	}
	return &Sweeper{dirs: dirs, ttl: ttl}
}

// Start launches the periodic sweep until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go s.sweepLoop(ctx, interval)
}

func (s *Sweeper) sweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce()
		}
	}
}

// SweepOnce removes entries older than the TTL from every watched dir.
func (s *Sweeper) SweepOnce() {
	cutoff := time.Now().Add(-s.ttl)
	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Printf("sweep %s: %v", dir, err)
			}
			continue
		}
		for _, entry := range entries {
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if err := os.RemoveAll(path); err != nil {
				log.Printf("sweep remove %s: %v", path, err)
				continue
			}
			log.Printf("swept orphaned %s", path)
		}
	}
}
