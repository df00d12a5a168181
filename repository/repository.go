// Package repository implements data access layer for the application
package repository

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	apperrors "weatherscope.app/errors"
	"weatherscope.app/models"
)

// SearchRepository handles data access operations for search history.
type SearchRepository struct {
	db *gorm.DB
}

// NewSearchRepository creates a new repository for search history data
func NewSearchRepository(db *gorm.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Record persists one successful weather lookup.
func (r *SearchRepository) Record(query string, loc models.Location) (*models.SearchRecord, error) {
	if query == "" {
		return nil, apperrors.NewValidationError("query cannot be empty")
	}
	if loc.Name == "" {
		return nil, apperrors.NewValidationError("location name cannot be empty")
	}

	record := &models.SearchRecord{
		ID:         uuid.New().String(),
		Query:      query,
		Name:       loc.Name,
		Country:    loc.Country,
		State:      loc.State,
		Lat:        loc.Lat,
		Lon:        loc.Lon,
		SearchedAt: time.Now().UTC(),
	}

	if result := r.db.Create(record); result.Error != nil {
		slog.Error("failed to record search", "query", query, "error", result.Error)
		return nil, apperrors.NewDatabaseError("failed to record search", result.Error)
	}

	slog.Debug("recorded search", "id", record.ID, "query", query, "location", loc.DisplayName())
	return record, nil
}

// Recent returns the newest searches first, at most limit entries.
func (r *SearchRepository) Recent(limit int) ([]models.SearchRecord, error) {
	if limit <= 0 {
		return nil, apperrors.NewValidationError("limit must be positive")
	}

	var records []models.SearchRecord
	result := r.db.Order("searched_at DESC").Limit(limit).Find(&records)
	if result.Error != nil {
		slog.Error("failed to list searches", "error", result.Error)
		return nil, apperrors.NewDatabaseError("failed to list searches", result.Error)
	}
	return records, nil
}

// DeleteOlderThan soft-deletes records whose lookup predates the cutoff.
func (r *SearchRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("searched_at < ?", cutoff).Delete(&models.SearchRecord{})
	if result.Error != nil {
		slog.Error("failed to prune searches", "cutoff", cutoff, "error", result.Error)
		return 0, apperrors.NewDatabaseError("failed to prune searches", result.Error)
	}

	slog.Debug("pruned searches", "cutoff", cutoff, "deleted", result.RowsAffected)
	return result.RowsAffected, nil
}
