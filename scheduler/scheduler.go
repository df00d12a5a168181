// Package scheduler implements background job scheduling
package scheduler

import (
	"log/slog"
	"time"

	"weatherscope.app/config"
	"weatherscope.app/repository"
)

// pruneInterval is how often old search records are swept.
const pruneInterval = 24 * time.Hour

// Scheduler manages periodic maintenance tasks.
type Scheduler struct {
	config   *config.Config
	searches *repository.SearchRepository
	stop     chan struct{}
}

// NewScheduler creates and configures a new task scheduler
func NewScheduler(cfg *config.Config, searches *repository.SearchRepository) *Scheduler {
	return &Scheduler{
		config:   cfg,
		searches: searches,
		stop:     make(chan struct{}),
	}
}

// Start begins the scheduler's operations
func (s *Scheduler) Start() {
	go s.scheduleInterval(pruneInterval, s.pruneSearchHistory)
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	close(s.stop)
}

func (s *Scheduler) scheduleInterval(interval time.Duration, job func()) {
	job()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			job()
		case <-s.stop:
			return
		}
	}
}

func (s *Scheduler) pruneSearchHistory() {
	cutoff := time.Now().UTC().Add(-s.config.Database.SearchRetention)
	deleted, err := s.searches.DeleteOlderThan(cutoff)
	if err != nil {
		slog.Error("failed to prune search history", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("pruned search history", "deleted", deleted, "cutoff", cutoff)
	}
}
