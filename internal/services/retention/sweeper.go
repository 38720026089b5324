// Package retention removes converted files once they outlive the configured
// retention window.
//
// Go Pattern: A background goroutine driven by time.Ticker, stopped through a
// cancelled context and a WaitGroup, the same shape as a worker pool.
package retention

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Shimizu-Technology/pdf-docx-api/internal/metrics"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/storage"
)

// Sweeper periodically deletes old files from the outgoing directory.
type Sweeper struct {
	dirs     *storage.Dirs
	maxAge   time.Duration
	interval time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSweeper creates a sweeper. A zero maxAge disables it: Start becomes a
// no-op and converted files are kept forever.
func NewSweeper(dirs *storage.Dirs, maxAge, interval time.Duration, m *metrics.Metrics) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		dirs:     dirs,
		maxAge:   maxAge,
		interval: interval,
		metrics:  m,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Enabled reports whether a retention window is configured.
func (s *Sweeper) Enabled() bool {
	return s.maxAge > 0 && s.interval > 0
}

// Start launches the sweep loop.
func (s *Sweeper) Start() {
	if !s.Enabled() {
		log.Println("⚠️  Converted-file retention disabled (set CONVERTED_RETENTION to expire old files)")
		return
	}

	log.Printf("🧹 Sweeping converted files older than %s every %s", s.maxAge, s.interval)
	s.wg.Add(1)
	go s.loop()
}

// Stop signals the loop to exit and waits for it.
func (s *Sweeper) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Sweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce()
		}
	}
}

// SweepOnce runs a single pass and returns how many files were removed.
func (s *Sweeper) SweepOnce() int {
	removed, err := s.dirs.SweepConverted(s.maxAge, s.now())
	if err != nil {
		log.Printf("⚠️  Retention sweep: %v", err)
	}
	if removed > 0 {
		s.metrics.Swept(removed)
		log.Printf("🧹 Retention sweep removed %d converted file(s)", removed)
	}
	return removed
}
