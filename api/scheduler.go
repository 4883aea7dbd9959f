/*
scheduler.go - Background roster summary refresh

PURPOSE:
  Whole-roster computation touches every report of a month, so the
  summary endpoints serve from a short-lived cache. This scheduler
  keeps the current month's entry warm by recomputing it periodically
  in the background; ingestion endpoints invalidate the cache on write.

CONFIGURATION:
  - CheckInterval: How often to refresh (default: 10 minutes)
  - Enabled: Whether the scheduler is active (default: true)

USAGE:
  scheduler := NewSummaryScheduler(handler, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: the cache and the endpoints served from it
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SummaryScheduler keeps the current month's roster summary warm.
type SummaryScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	log    *zap.Logger
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSummaryScheduler creates a scheduler over the given handler.
func NewSummaryScheduler(h *Handler, log *zap.Logger) *SummaryScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SummaryScheduler{
		Handler:       h,
		CheckInterval: 10 * time.Minute,
		Enabled:       true,
		log:           log,
		stop:          make(chan struct{}),
	}
}

// Start begins the background refresh loop.
func (s *SummaryScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		s.log.Info("summary scheduler disabled")
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.wg.Add(1)
	go s.run()

	s.log.Info("summary scheduler started", zap.Duration("interval", s.CheckInterval))
}

// Stop halts the refresh loop and waits for the current pass.
func (s *SummaryScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil

	s.log.Info("summary scheduler stopped")
}

func (s *SummaryScheduler) run() {
	defer s.wg.Done()

	s.refresh()
	for {
		select {
		case <-s.ticker.C:
			s.refresh()
		case <-s.stop:
			return
		}
	}
}

func (s *SummaryScheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now()
	start := time.Now()
	if _, err := s.Handler.rosterSummary(ctx, now.Year(), now.Month(), true); err != nil {
		s.log.Warn("summary refresh failed",
			zap.Int("year", now.Year()), zap.Int("month", int(now.Month())), zap.Error(err))
		return
	}
	s.log.Debug("summary refreshed",
		zap.Int("year", now.Year()), zap.Int("month", int(now.Month())),
		zap.Duration("took", time.Since(start)))
}
