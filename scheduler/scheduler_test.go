package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"weatherscope.app/config"
	"weatherscope.app/models"
	"weatherscope.app/repository"
)

func setupScheduler(t *testing.T, retention time.Duration) (*Scheduler, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.SearchRecord{}))

	cfg := &config.Config{}
	cfg.Database.SearchRetention = retention
	return NewScheduler(cfg, repository.NewSearchRepository(db)), db
}

func TestScheduler_PruneSearchHistory(t *testing.T) {
	s, db := setupScheduler(t, 24*time.Hour)

	now := time.Now().UTC()
	records := []models.SearchRecord{
		{ID: "stale", Query: "london", Name: "London", SearchedAt: now.Add(-48 * time.Hour)},
		{ID: "fresh", Query: "paris", Name: "Paris", SearchedAt: now.Add(-time.Hour)},
	}
	for i := range records {
		assert.NoError(t, db.Create(&records[i]).Error)
	}

	s.pruneSearchHistory()

	var remaining []models.SearchRecord
	assert.NoError(t, db.Find(&remaining).Error)
	assert.Len(t, remaining, 1)
	assert.Equal(t, "fresh", remaining[0].ID)
}

func TestScheduler_StopTerminatesJobs(t *testing.T) {
	s, _ := setupScheduler(t, 24*time.Hour)

	done := make(chan struct{})
	go func() {
		s.scheduleInterval(10*time.Millisecond, func() {})
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
